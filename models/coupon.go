package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Coupon discount types
const (
	DiscountTypeFixedAmount  = "FIXED_AMOUNT"
	DiscountTypePercentage   = "PERCENTAGE"
	DiscountTypeFreeShipping = "FREE_SHIPPING"
)

// Coupon represents a named discount rule identified by a unique code.
// A UsageLimit of zero means unlimited. When ApplicableProducts or
// ApplicableCategories are set the coupon only applies to carts containing
// at least one matching item.
type Coupon struct {
	ID                   uint             `gorm:"primaryKey" json:"id"`
	Code                 string           `gorm:"uniqueIndex;not null" json:"code"`
	DiscountType         string           `json:"discount_type"`
	DiscountValue        decimal.Decimal  `json:"discount_value" gorm:"type:numeric(10,2)"`
	ExpiryDate           time.Time        `json:"expiry_date"`
	MinPurchaseAmount    *decimal.Decimal `json:"min_purchase_amount" gorm:"type:numeric(10,2)"`
	UsageLimit           int              `json:"usage_limit" gorm:"default:0"`
	TimesUsed            int              `json:"times_used" gorm:"default:0"`
	FirstTimeOnly        bool             `json:"first_time_only" gorm:"default:false"`
	ApplicableProducts   []Product        `json:"applicable_products,omitempty" gorm:"many2many:coupon_applicable_products"`
	ApplicableCategories []Category       `json:"applicable_categories,omitempty" gorm:"many2many:coupon_applicable_categories"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
	DeletedAt            gorm.DeletedAt   `gorm:"index" json:"-"`
}

// ValidDiscountType reports whether t is one of the supported discount types
func ValidDiscountType(t string) bool {
	switch t {
	case DiscountTypeFixedAmount, DiscountTypePercentage, DiscountTypeFreeShipping:
		return true
	}
	return false
}
