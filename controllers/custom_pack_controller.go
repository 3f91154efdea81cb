package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/velora-shop/velora/config"
	"github.com/velora-shop/velora/models"
	"github.com/velora-shop/velora/utils"
)

// CustomPackRequest represents the request body for creating or updating
// a build-your-own pack definition
type CustomPackRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	MinItems     int             `json:"min_items" binding:"required,min=1"`
	MaxItems     int             `json:"max_items" binding:"required,min=1"`
	PricingType  string          `json:"pricing_type" binding:"required"`
	FixedPrice   decimal.Decimal `json:"fixed_price"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
}

func (r *CustomPackRequest) validate() error {
	r.PricingType = strings.ToUpper(strings.TrimSpace(r.PricingType))
	if r.PricingType != models.PricingTypeFixed && r.PricingType != models.PricingTypeDynamic {
		return utils.NewAppError(400, "Pricing type must be FIXED or DYNAMIC", nil)
	}
	if r.MinItems > r.MaxItems {
		return utils.NewAppError(400, "min_items cannot exceed max_items", nil)
	}
	if r.PricingType == models.PricingTypeFixed && r.FixedPrice.LessThanOrEqual(decimal.Zero) {
		return utils.NewAppError(400, "Fixed pricing requires a positive fixed_price", nil)
	}
	if r.PricingType == models.PricingTypeDynamic {
		if r.DiscountRate.IsNegative() || r.DiscountRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return utils.NewAppError(400, "discount_rate must be between 0 and 1", nil)
		}
	}
	return nil
}

// CreateCustomPack creates a build-your-own pack definition
func CreateCustomPack(c *gin.Context) {
	utils.LogInfo("CreateCustomPack called")

	var req CustomPackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if err := req.validate(); err != nil {
		utils.RespondWithError(c, err)
		return
	}

	pack := models.CustomPack{
		Name:         req.Name,
		Description:  req.Description,
		MinItems:     req.MinItems,
		MaxItems:     req.MaxItems,
		PricingType:  req.PricingType,
		FixedPrice:   req.FixedPrice,
		DiscountRate: req.DiscountRate,
	}
	if err := config.DB.Create(&pack).Error; err != nil {
		utils.LogError("Failed to create custom pack: %v", err)
		utils.InternalServerError(c, "Failed to create custom pack", nil)
		return
	}
	utils.LogInfo("Created custom pack ID: %d name: %s", pack.ID, pack.Name)

	utils.Created(c, "Custom pack created successfully", pack)
}

// ListCustomPacks lists all build-your-own pack definitions
func ListCustomPacks(c *gin.Context) {
	var packs []models.CustomPack
	if err := config.DB.Order("created_at desc").Find(&packs).Error; err != nil {
		utils.LogError("Failed to fetch custom packs: %v", err)
		utils.InternalServerError(c, "Failed to fetch custom packs", nil)
		return
	}

	utils.Success(c, "Custom packs retrieved successfully", packs)
}

// GetCustomPack returns one build-your-own pack definition
func GetCustomPack(c *gin.Context) {
	packID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid custom pack ID", nil)
		return
	}

	var pack models.CustomPack
	if err := config.DB.First(&pack, packID).Error; err != nil {
		utils.NotFound(c, "Custom pack not found")
		return
	}

	utils.Success(c, "Custom pack retrieved successfully", pack)
}

// UpdateCustomPack updates a build-your-own pack definition
func UpdateCustomPack(c *gin.Context) {
	utils.LogInfo("UpdateCustomPack called")

	packID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid custom pack ID", nil)
		return
	}

	var pack models.CustomPack
	if err := config.DB.First(&pack, packID).Error; err != nil {
		utils.NotFound(c, "Custom pack not found")
		return
	}

	var req CustomPackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if err := req.validate(); err != nil {
		utils.RespondWithError(c, err)
		return
	}

	pack.Name = req.Name
	pack.Description = req.Description
	pack.MinItems = req.MinItems
	pack.MaxItems = req.MaxItems
	pack.PricingType = req.PricingType
	pack.FixedPrice = req.FixedPrice
	pack.DiscountRate = req.DiscountRate
	if err := config.DB.Save(&pack).Error; err != nil {
		utils.LogError("Failed to update custom pack %d: %v", pack.ID, err)
		utils.InternalServerError(c, "Failed to update custom pack", nil)
		return
	}

	utils.Success(c, "Custom pack updated successfully", pack)
}

// DeleteCustomPack removes a build-your-own pack definition
func DeleteCustomPack(c *gin.Context) {
	utils.LogInfo("DeleteCustomPack called")

	packID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid custom pack ID", nil)
		return
	}

	var pack models.CustomPack
	if err := config.DB.First(&pack, packID).Error; err != nil {
		utils.NotFound(c, "Custom pack not found")
		return
	}

	if err := config.DB.Delete(&pack).Error; err != nil {
		utils.LogError("Failed to delete custom pack %d: %v", pack.ID, err)
		utils.InternalServerError(c, "Failed to delete custom pack", nil)
		return
	}
	utils.LogInfo("Deleted custom pack ID: %d", pack.ID)

	utils.Success(c, "Custom pack deleted successfully", nil)
}
