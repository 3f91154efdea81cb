package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User represents a customer or administrator account
type User struct {
	gorm.Model
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Password         string     `json:"-"`
	FullName         string     `json:"full_name"`
	Phone            string     `json:"phone"`
	IsAdmin          bool       `json:"is_admin" gorm:"default:false"`
	IsGuest          bool       `json:"is_guest" gorm:"default:false"`
	EmailConfirmed   bool       `json:"email_confirmed" gorm:"default:false"`
	ConfirmationCode string     `json:"-"`
	CodeExpiresAt    *time.Time `json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at"`
}

// Category represents a product category
type Category struct {
	gorm.Model
	Name        string    `json:"name" gorm:"uniqueIndex"`
	Description string    `json:"description"`
	Products    []Product `json:"products,omitempty"`
}

// Product type constants
const (
	ProductTypeMen   = "MEN"
	ProductTypeWomen = "WOMEN"
	ProductTypeBoth  = "BOTH"
)

// Product represents an item in the catalog. Quantity is a pointer so that
// a product whose stock was never configured is distinguishable from one
// that is merely sold out.
type Product struct {
	gorm.Model
	Name        string          `json:"name"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2)"`
	Quantity    *int            `json:"quantity"`
	Brand       string          `json:"brand"`
	Bestseller  bool            `json:"bestseller" gorm:"default:false"`
	NewArrival  bool            `json:"new_arrival" gorm:"default:false"`
	Type        string          `json:"type" gorm:"default:'BOTH'"`
	CategoryID  uint            `json:"category_id"`
	Category    Category        `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Images      []ProductImage  `json:"images" gorm:"foreignKey:ProductID"`
}

// ProductImage stores a single image URL for a product
type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `json:"product_id"`
	URL       string `json:"url"`
	Position  int    `json:"position" gorm:"default:0"`
}

// VariantType names a configurable axis of a product (e.g. "Shade").
// Only the owning-side foreign key is stored; the product's variant types
// are reconstructed by query.
type VariantType struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Options   []VariantOption `json:"options" gorm:"foreignKey:VariantTypeID"`
}

// VariantOption is a single value of a variant type
type VariantOption struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	VariantTypeID uint   `json:"variant_type_id"`
	Value         string `json:"value"`
}

// CartItem is a single row in a user's cart
type CartItem struct {
	gorm.Model
	UserID    uint    `json:"user_id"`
	User      User    `gorm:"foreignKey:UserID" json:"-"`
	ProductID uint    `json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int     `json:"quantity"`
}
