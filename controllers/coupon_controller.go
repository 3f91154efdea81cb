package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/velora-shop/velora/config"
	"github.com/velora-shop/velora/models"
	"github.com/velora-shop/velora/utils"
	"gorm.io/gorm"
)

// CouponRequest represents the request body for creating or updating a coupon
type CouponRequest struct {
	Code                  string           `json:"code" binding:"required"`
	DiscountType          string           `json:"discount_type" binding:"required"`
	DiscountValue         decimal.Decimal  `json:"discount_value"`
	ExpiryDate            time.Time        `json:"expiry_date" binding:"required"`
	MinPurchaseAmount     *decimal.Decimal `json:"min_purchase_amount"`
	UsageLimit            int              `json:"usage_limit"`
	FirstTimeOnly         bool             `json:"first_time_only"`
	ApplicableProductIDs  []uint           `json:"applicable_product_ids"`
	ApplicableCategoryIDs []uint           `json:"applicable_category_ids"`
}

// CreateCoupon creates a new coupon
func CreateCoupon(c *gin.Context) {
	utils.LogInfo("CreateCoupon called")

	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.DiscountType = strings.ToUpper(strings.TrimSpace(req.DiscountType))
	utils.LogInfo("Processing coupon creation with code: %s", req.Code)

	if !models.ValidDiscountType(req.DiscountType) {
		utils.BadRequest(c, "Invalid discount type", gin.H{
			"valid_types": []string{models.DiscountTypeFixedAmount, models.DiscountTypePercentage, models.DiscountTypeFreeShipping},
		})
		return
	}
	if req.ExpiryDate.Before(time.Now()) {
		utils.LogError("Invalid expiry date for coupon code %s: date is in the past", req.Code)
		utils.BadRequest(c, "Expiry date must be in the future", nil)
		return
	}
	if req.DiscountType == models.DiscountTypePercentage && (req.DiscountValue.LessThanOrEqual(decimal.Zero) || req.DiscountValue.GreaterThan(decimal.NewFromInt(100))) {
		utils.BadRequest(c, "Percentage discount value must be between 0 and 100", nil)
		return
	}

	var existing models.Coupon
	if err := config.DB.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		utils.LogError("Coupon code already exists: %s", req.Code)
		utils.Conflict(c, "A coupon with this code already exists", nil)
		return
	}

	coupon := models.Coupon{
		Code:              req.Code,
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		ExpiryDate:        req.ExpiryDate,
		MinPurchaseAmount: req.MinPurchaseAmount,
		UsageLimit:        req.UsageLimit,
		TimesUsed:         0,
		FirstTimeOnly:     req.FirstTimeOnly,
	}

	if err := attachCouponRestrictions(&coupon, req.ApplicableProductIDs, req.ApplicableCategoryIDs); err != nil {
		utils.RespondWithError(c, err)
		return
	}

	if err := config.DB.Create(&coupon).Error; err != nil {
		utils.LogError("Failed to create coupon %s: %v", req.Code, err)
		utils.InternalServerError(c, "Failed to create coupon", err.Error())
		return
	}
	utils.LogInfo("Created coupon ID: %d with code: %s", coupon.ID, coupon.Code)

	utils.Created(c, "Coupon created successfully", coupon)
}

// attachCouponRestrictions resolves restriction IDs to records so the
// many2many join rows are written with the coupon.
func attachCouponRestrictions(coupon *models.Coupon, productIDs, categoryIDs []uint) error {
	if len(productIDs) > 0 {
		var products []models.Product
		if err := config.DB.Find(&products, productIDs).Error; err != nil {
			return utils.WrapError(err, "failed to resolve applicable products")
		}
		if len(products) != len(productIDs) {
			return utils.NotFoundError("One or more applicable products not found")
		}
		coupon.ApplicableProducts = products
	}
	if len(categoryIDs) > 0 {
		var categories []models.Category
		if err := config.DB.Find(&categories, categoryIDs).Error; err != nil {
			return utils.WrapError(err, "failed to resolve applicable categories")
		}
		if len(categories) != len(categoryIDs) {
			return utils.NotFoundError("One or more applicable categories not found")
		}
		coupon.ApplicableCategories = categories
	}
	return nil
}

// UpdateCoupon replaces a coupon's rule. The code and the usage counter
// are immutable; orders already placed keep their recorded discounts.
func UpdateCoupon(c *gin.Context) {
	utils.LogInfo("UpdateCoupon called")

	couponID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid coupon ID", nil)
		return
	}

	var coupon models.Coupon
	if err := config.DB.Preload("ApplicableProducts").Preload("ApplicableCategories").
		First(&coupon, couponID).Error; err != nil {
		utils.NotFound(c, "Coupon not found")
		return
	}

	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	req.DiscountType = strings.ToUpper(strings.TrimSpace(req.DiscountType))
	if !models.ValidDiscountType(req.DiscountType) {
		utils.BadRequest(c, "Invalid discount type", nil)
		return
	}
	if req.DiscountType == models.DiscountTypePercentage && (req.DiscountValue.LessThanOrEqual(decimal.Zero) || req.DiscountValue.GreaterThan(decimal.NewFromInt(100))) {
		utils.BadRequest(c, "Percentage discount value must be between 0 and 100", nil)
		return
	}

	coupon.DiscountType = req.DiscountType
	coupon.DiscountValue = req.DiscountValue
	coupon.ExpiryDate = req.ExpiryDate
	coupon.MinPurchaseAmount = req.MinPurchaseAmount
	coupon.UsageLimit = req.UsageLimit
	coupon.FirstTimeOnly = req.FirstTimeOnly

	if err := attachCouponRestrictions(&coupon, req.ApplicableProductIDs, req.ApplicableCategoryIDs); err != nil {
		utils.RespondWithError(c, err)
		return
	}

	if err := config.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(&coupon).Error; err != nil {
		utils.LogError("Failed to update coupon %d: %v", coupon.ID, err)
		utils.InternalServerError(c, "Failed to update coupon", nil)
		return
	}
	utils.LogInfo("Updated coupon ID: %d", coupon.ID)

	utils.Success(c, "Coupon updated successfully", coupon)
}

// ListCoupons lists all coupons for the admin panel
func ListCoupons(c *gin.Context) {
	utils.LogInfo("ListCoupons called")

	var coupons []models.Coupon
	if err := config.DB.Preload("ApplicableProducts").Preload("ApplicableCategories").
		Order("created_at desc").Find(&coupons).Error; err != nil {
		utils.LogError("Failed to fetch coupons: %v", err)
		utils.InternalServerError(c, "Failed to fetch coupons", nil)
		return
	}

	utils.Success(c, "Coupons retrieved successfully", coupons)
}

// DeleteCoupon removes a coupon. Orders that used it are detached first so
// their history survives the delete.
func DeleteCoupon(c *gin.Context) {
	utils.LogInfo("DeleteCoupon called")

	couponID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid coupon ID", nil)
		return
	}

	var coupon models.Coupon
	if err := config.DB.First(&coupon, couponID).Error; err != nil {
		utils.LogError("Coupon not found: %d", couponID)
		utils.NotFound(c, "Coupon not found")
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	if err := tx.Model(&models.Order{}).Where("coupon_id = ?", coupon.ID).
		Update("coupon_id", nil).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to detach coupon %d from orders: %v", coupon.ID, err)
		utils.InternalServerError(c, "Failed to delete coupon", nil)
		return
	}

	if err := tx.Delete(&coupon).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to delete coupon %d: %v", coupon.ID, err)
		utils.InternalServerError(c, "Failed to delete coupon", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}
	utils.LogInfo("Deleted coupon ID: %d", coupon.ID)

	utils.Success(c, "Coupon deleted successfully", nil)
}

// ValidateCouponCode checks a code's existence and expiry so the
// storefront can surface errors before checkout. Full eligibility is only
// decided at order placement.
func ValidateCouponCode(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	utils.LogInfo("ValidateCouponCode called for code: %s", code)

	var coupon models.Coupon
	if err := config.DB.Where("code = ?", code).First(&coupon).Error; err != nil {
		utils.LogError("Coupon not found: %s", code)
		utils.NotFound(c, "Coupon with code "+code+" not found")
		return
	}

	if !coupon.ExpiryDate.After(time.Now()) {
		utils.RespondWithError(c, utils.CouponExpiredError())
		return
	}

	utils.Success(c, "Coupon is valid", coupon)
}

// CouponDailyUsage is one row of the usage statistics report
type CouponDailyUsage struct {
	CouponID   uint   `json:"coupon_id"`
	Date       string `json:"date"`
	UsageCount int    `json:"usage_count"`
}

// GetCouponUsageStatistics returns per-day usage counts of every coupon,
// derived from committed orders.
func GetCouponUsageStatistics(c *gin.Context) {
	utils.LogInfo("GetCouponUsageStatistics called")

	var rows []CouponDailyUsage
	if err := config.DB.Model(&models.Order{}).
		Select("coupon_id, DATE(created_at) as date, COUNT(*) as usage_count").
		Where("coupon_id IS NOT NULL").
		Group("coupon_id, DATE(created_at)").
		Order("date asc").
		Scan(&rows).Error; err != nil {
		utils.LogError("Failed to compute coupon usage statistics: %v", err)
		utils.InternalServerError(c, "Failed to compute usage statistics", nil)
		return
	}

	utils.Success(c, "Coupon usage statistics retrieved successfully", rows)
}
