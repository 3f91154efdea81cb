package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Pack is a fixed bundle of products sold at its own price
type Pack struct {
	gorm.Model
	Name        string          `json:"name"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2)"`
	ImageURL    string          `json:"image_url"`
	Items       []PackItem      `json:"items" gorm:"foreignKey:PackID"`
}

// PackItem is one slot of a pack. It holds the default product plus the
// alternatives a shopper may swap in. Only the owning-side foreign key is
// stored; the pack is reconstructed by query.
type PackItem struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	PackID            uint      `json:"-"`
	DefaultProductID  uint      `json:"default_product_id"`
	DefaultProduct    Product   `json:"default_product" gorm:"foreignKey:DefaultProductID"`
	VariationProducts []Product `json:"variation_products" gorm:"many2many:pack_item_variations"`
}

// CustomPack pricing types
const (
	PricingTypeFixed   = "FIXED"
	PricingTypeDynamic = "DYNAMIC"
)

// CustomPack defines a build-your-own bundle: the shopper picks between
// MinItems and MaxItems products and the price is either fixed or the sum
// of the chosen products discounted by DiscountRate.
type CustomPack struct {
	gorm.Model
	Name         string          `json:"name"`
	Description  string          `json:"description" gorm:"type:text"`
	MinItems     int             `json:"min_items"`
	MaxItems     int             `json:"max_items"`
	PricingType  string          `json:"pricing_type"`
	FixedPrice   decimal.Decimal `json:"fixed_price" gorm:"type:numeric(10,2)"`
	DiscountRate decimal.Decimal `json:"discount_rate" gorm:"type:numeric(5,4)"`
}
