package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status constants
const (
	OrderStatusPreparing  = "PREPARING"
	OrderStatusDelivering = "DELIVERING"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCanceled   = "CANCELED"
)

// ValidOrderStatus reports whether s is a recognised order status
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPreparing, OrderStatusDelivering, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// Order is created once at checkout and afterwards only mutated for status
// transitions or soft deletion. Its items and their captured prices are
// immutable after creation.
type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `json:"user_id"`
	User           User            `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ClientFullName string          `json:"client_full_name"`
	City           string          `json:"city"`
	Address        string          `json:"address"`
	PhoneNumber    string          `json:"phone_number"`
	Status         string          `json:"status"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:numeric(10,2)"`
	ShippingCost   decimal.Decimal `json:"shipping_cost" gorm:"type:numeric(10,2)"`
	CouponID       *uint           `json:"coupon_id,omitempty"`
	Coupon         *Coupon         `json:"coupon,omitempty" gorm:"foreignKey:CouponID"`
	Deleted        bool            `json:"deleted" gorm:"default:false"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Items          []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
}

// OrderItem captures the unit price at order time. The price is a snapshot,
// not a live reference: later product price changes never reprice an order.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `json:"order_id"`
	ProductID uint            `json:"product_id"`
	Product   Product         `json:"product" gorm:"foreignKey:ProductID"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(10,2)"`
}
