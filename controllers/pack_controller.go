package controllers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/velora-shop/velora/config"
	"github.com/velora-shop/velora/models"
	"github.com/velora-shop/velora/utils"
	"gorm.io/gorm"
)

// PackItemRequest describes one slot of a pack
type PackItemRequest struct {
	DefaultProductID    uint   `json:"default_product_id" binding:"required"`
	VariationProductIDs []uint `json:"variation_product_ids"`
}

// PackRequest represents the request body for creating a pack
type PackRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	Items       []PackItemRequest `json:"items" binding:"required,min=1"`
}

// CreatePack creates a pack from its slots and composes its banner image
// by stitching the default products' first images together
func CreatePack(c *gin.Context) {
	utils.LogInfo("CreatePack called")

	var req PackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if req.Price.LessThanOrEqual(decimal.Zero) {
		utils.BadRequest(c, "Pack price must be positive", nil)
		return
	}

	pack := models.Pack{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	if err := tx.Create(&pack).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create pack: %v", err)
		utils.InternalServerError(c, "Failed to create pack", nil)
		return
	}

	for _, itemReq := range req.Items {
		item, err := buildPackItem(tx, pack.ID, itemReq)
		if err != nil {
			tx.Rollback()
			utils.RespondWithError(c, err)
			return
		}
		if err := tx.Create(item).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to create pack item: %v", err)
			utils.InternalServerError(c, "Failed to create pack", nil)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}
	utils.LogInfo("Created pack ID: %d name: %s", pack.ID, pack.Name)

	// Image composition is cosmetic, failures only get logged
	if url, err := composePackImage(&pack); err != nil {
		utils.LogError("Failed to compose image for pack %d: %v", pack.ID, err)
	} else if url != "" {
		config.DB.Model(&pack).Update("image_url", url)
	}

	config.DB.Preload("Items.DefaultProduct").Preload("Items.VariationProducts").First(&pack, pack.ID)
	utils.Created(c, "Pack created successfully", pack)
}

func buildPackItem(tx *gorm.DB, packID uint, req PackItemRequest) (*models.PackItem, error) {
	var defaultProduct models.Product
	if err := tx.First(&defaultProduct, req.DefaultProductID).Error; err != nil {
		return nil, utils.NotFoundError(fmt.Sprintf("Default product %d not found", req.DefaultProductID))
	}

	item := &models.PackItem{
		PackID:           packID,
		DefaultProductID: defaultProduct.ID,
	}
	if len(req.VariationProductIDs) > 0 {
		var variations []models.Product
		if err := tx.Find(&variations, req.VariationProductIDs).Error; err != nil {
			return nil, utils.WrapError(err, "failed to resolve variation products")
		}
		if len(variations) != len(req.VariationProductIDs) {
			return nil, utils.NotFoundError("One or more variation products not found")
		}
		item.VariationProducts = variations
	}
	return item, nil
}

// composePackImage stitches the first image of every default product into
// one banner and stores it
func composePackImage(pack *models.Pack) (string, error) {
	var items []models.PackItem
	if err := config.DB.Preload("DefaultProduct.Images").Where("pack_id = ?", pack.ID).Find(&items).Error; err != nil {
		return "", err
	}

	var paths []string
	for _, item := range items {
		if len(item.DefaultProduct.Images) > 0 {
			paths = append(paths, item.DefaultProduct.Images[0].URL)
		}
	}
	if len(paths) == 0 {
		return "", nil
	}

	data, err := utils.CompositeImageFiles(paths)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		// Every referenced image was missing or unreadable.
		return "", nil
	}

	filename := fmt.Sprintf("pack_%d_%s.png", pack.ID, uuid.New().String())
	return utils.StoreImage(filename, data, "image/png")
}

// ListPacks lists all packs with their slots
func ListPacks(c *gin.Context) {
	var packs []models.Pack
	if err := config.DB.Preload("Items.DefaultProduct.Images").
		Preload("Items.VariationProducts").
		Order("created_at desc").Find(&packs).Error; err != nil {
		utils.LogError("Failed to fetch packs: %v", err)
		utils.InternalServerError(c, "Failed to fetch packs", nil)
		return
	}

	utils.Success(c, "Packs retrieved successfully", packs)
}

// GetPack returns a single pack with its slots
func GetPack(c *gin.Context) {
	packID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid pack ID", nil)
		return
	}

	var pack models.Pack
	if err := config.DB.Preload("Items.DefaultProduct.Images").
		Preload("Items.VariationProducts").
		First(&pack, packID).Error; err != nil {
		utils.NotFound(c, "Pack not found")
		return
	}

	utils.Success(c, "Pack retrieved successfully", pack)
}

// DeletePack removes a pack and its slots
func DeletePack(c *gin.Context) {
	utils.LogInfo("DeletePack called")

	packID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid pack ID", nil)
		return
	}

	var pack models.Pack
	if err := config.DB.First(&pack, packID).Error; err != nil {
		utils.NotFound(c, "Pack not found")
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}
	if err := tx.Where("pack_id = ?", pack.ID).Delete(&models.PackItem{}).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to delete pack items", nil)
		return
	}
	if err := tx.Delete(&pack).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to delete pack", nil)
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}
	utils.LogInfo("Deleted pack ID: %d", pack.ID)

	utils.Success(c, "Pack deleted successfully", nil)
}
