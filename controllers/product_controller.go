package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/velora-shop/velora/config"
	"github.com/velora-shop/velora/models"
	"github.com/velora-shop/velora/utils"
	"gorm.io/gorm"
)

// ProductRequest represents the multipart form fields for creating or
// updating a product. Images arrive as separate file parts.
type ProductRequest struct {
	Name        string `form:"name" binding:"required"`
	Description string `form:"description"`
	Price       string `form:"price" binding:"required"`
	Quantity    *int   `form:"quantity"`
	Brand       string `form:"brand"`
	Type        string `form:"type"`
	CategoryID  uint   `form:"category_id" binding:"required"`
	Bestseller  bool   `form:"bestseller"`
	NewArrival  bool   `form:"new_arrival"`
}

func parseProductRequest(c *gin.Context) (*ProductRequest, decimal.Decimal, error) {
	var req ProductRequest
	if err := c.ShouldBind(&req); err != nil {
		return nil, decimal.Zero, utils.NewAppError(400, "Invalid request", err)
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return nil, decimal.Zero, utils.NewAppError(400, "Invalid price", err)
	}

	req.Type = strings.ToUpper(strings.TrimSpace(req.Type))
	if req.Type == "" {
		req.Type = models.ProductTypeBoth
	}
	if req.Type != models.ProductTypeMen && req.Type != models.ProductTypeWomen && req.Type != models.ProductTypeBoth {
		return nil, decimal.Zero, utils.NewAppError(400, "Invalid product type", nil)
	}

	return &req, price, nil
}

// CreateProduct creates a product with optional images
func CreateProduct(c *gin.Context) {
	utils.LogInfo("CreateProduct called")

	req, price, err := parseProductRequest(c)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	var category models.Category
	if err := config.DB.First(&category, req.CategoryID).Error; err != nil {
		utils.NotFound(c, "Category not found")
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Quantity:    req.Quantity,
		Brand:       req.Brand,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		Bestseller:  req.Bestseller,
		NewArrival:  req.NewArrival,
	}
	if err := config.DB.Create(&product).Error; err != nil {
		utils.LogError("Failed to create product: %v", err)
		utils.InternalServerError(c, "Failed to create product", nil)
		return
	}

	if err := saveProductImages(c, &product); err != nil {
		utils.LogError("Failed to save product images for product %d: %v", product.ID, err)
		utils.RespondWithError(c, err)
		return
	}
	utils.LogInfo("Created product ID: %d name: %s", product.ID, product.Name)

	config.DB.Preload("Images").Preload("Category").First(&product, product.ID)
	utils.Created(c, "Product created successfully", product)
}

// saveProductImages stores every uploaded image part and records its URL
func saveProductImages(c *gin.Context, product *models.Product) error {
	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body means no images, which is fine
		return nil
	}

	files := form.File["images"]
	for i, file := range files {
		if err := utils.ValidateImageFile(file); err != nil {
			return err
		}
		url, err := utils.SaveUploadedFile(file)
		if err != nil {
			return utils.WrapError(err, "failed to store image")
		}
		image := models.ProductImage{ProductID: product.ID, URL: url, Position: i}
		if err := config.DB.Create(&image).Error; err != nil {
			return utils.WrapError(err, "failed to record image")
		}
	}
	return nil
}

// UpdateProduct updates an existing product's fields
func UpdateProduct(c *gin.Context) {
	utils.LogInfo("UpdateProduct called")

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid product ID", nil)
		return
	}

	var product models.Product
	if err := config.DB.First(&product, productID).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	req, price, perr := parseProductRequest(c)
	if perr != nil {
		utils.RespondWithError(c, perr)
		return
	}

	var category models.Category
	if err := config.DB.First(&category, req.CategoryID).Error; err != nil {
		utils.NotFound(c, "Category not found")
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = price
	product.Quantity = req.Quantity
	product.Brand = req.Brand
	product.Type = req.Type
	product.CategoryID = req.CategoryID
	product.Bestseller = req.Bestseller
	product.NewArrival = req.NewArrival

	if err := config.DB.Save(&product).Error; err != nil {
		utils.LogError("Failed to update product %d: %v", product.ID, err)
		utils.InternalServerError(c, "Failed to update product", nil)
		return
	}

	if err := saveProductImages(c, &product); err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.LogInfo("Updated product ID: %d", product.ID)

	config.DB.Preload("Images").Preload("Category").First(&product, product.ID)
	utils.Success(c, "Product updated successfully", product)
}

// DeleteProduct removes a product and its images
func DeleteProduct(c *gin.Context) {
	utils.LogInfo("DeleteProduct called")

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid product ID", nil)
		return
	}

	var product models.Product
	if err := config.DB.First(&product, productID).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}
	if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to delete product images", nil)
		return
	}
	if err := tx.Where("product_id = ?", product.ID).Delete(&models.CartItem{}).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to remove product from carts", nil)
		return
	}
	if err := tx.Delete(&product).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to delete product", nil)
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}
	utils.LogInfo("Deleted product ID: %d", product.ID)

	utils.Success(c, "Product deleted successfully", nil)
}

// GetProduct returns a single product with its images, category and
// variant types
func GetProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid product ID", nil)
		return
	}

	var product models.Product
	if err := config.DB.Preload("Images").Preload("Category").First(&product, productID).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	var variants []models.VariantType
	if err := config.DB.Preload("Options").Where("product_id = ?", product.ID).Find(&variants).Error; err != nil {
		utils.LogError("Failed to load variants for product %d: %v", product.ID, err)
	}

	utils.Success(c, "Product retrieved successfully", gin.H{
		"product":  product,
		"variants": variants,
	})
}

// ListProducts lists the catalog with filtering, search, sorting and
// pagination
func ListProducts(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Product{})
	query = applyProductFilters(c, query)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}
	pagination.SetTotal(total)
	query = applyProductSort(c, query)

	var products []models.Product
	if err := query.Preload("Images").Preload("Category").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&products).Error; err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}

	utils.SuccessWithPagination(c, "Products retrieved successfully", products, total, pagination.Page, pagination.Limit)
}

func applyProductFilters(c *gin.Context, query *gorm.DB) *gorm.DB {
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if productType := strings.ToUpper(c.Query("type")); productType != "" {
		// BOTH products show up in men's and women's views
		if productType == models.ProductTypeMen || productType == models.ProductTypeWomen {
			query = query.Where("(type = ? OR type = ?)", productType, models.ProductTypeBoth)
		}
	}
	if brand := c.Query("brand"); brand != "" {
		query = query.Where("brand = ?", brand)
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		if v, err := decimal.NewFromString(minPrice); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if v, err := decimal.NewFromString(maxPrice); err == nil {
			query = query.Where("price <= ?", v)
		}
	}
	if c.Query("bestseller") == "true" {
		query = query.Where("bestseller = ?", true)
	}
	if c.Query("new_arrival") == "true" {
		query = query.Where("new_arrival = ?", true)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ?)",
			pattern, pattern, pattern)
	}
	return query
}

func applyProductSort(c *gin.Context, query *gorm.DB) *gorm.DB {
	switch c.Query("sort") {
	case "price_asc":
		return query.Order("price asc")
	case "price_desc":
		return query.Order("price desc")
	case "name_asc":
		return query.Order("name asc")
	case "name_desc":
		return query.Order("name desc")
	case "oldest":
		return query.Order("created_at asc")
	default:
		return query.Order("created_at desc")
	}
}

// ListBrands returns the distinct brand names in the catalog
func ListBrands(c *gin.Context) {
	var brands []string
	if err := config.DB.Model(&models.Product{}).
		Where("brand <> ''").
		Distinct().Order("brand asc").Pluck("brand", &brands).Error; err != nil {
		utils.LogError("Failed to fetch brands: %v", err)
		utils.InternalServerError(c, "Failed to fetch brands", nil)
		return
	}

	utils.Success(c, "Brands retrieved successfully", brands)
}
