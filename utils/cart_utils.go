package utils

import (
	"fmt"

	"github.com/velora-shop/velora/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartDetails is a cart with its authoritative product records resolved
// and the pre-discount subtotal computed.
type CartDetails struct {
	Items    []models.CartItem
	Subtotal decimal.Decimal
}

// GetCartDetails loads the user's cart through db (which may be a
// transaction) and re-resolves every item's product to its current record.
// Cart snapshots are never trusted for price or stock.
func GetCartDetails(db *gorm.DB, userID uint) (*CartDetails, error) {
	var cartItems []models.CartItem
	if err := db.Where("user_id = ?", userID).Order("id asc").Find(&cartItems).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch cart items: %v", err)
	}

	details := &CartDetails{Subtotal: decimal.Zero}
	for i := range cartItems {
		var product models.Product
		if err := db.First(&product, cartItems[i].ProductID).Error; err != nil {
			return nil, NotFoundError(fmt.Sprintf("Product with ID %d not found", cartItems[i].ProductID))
		}
		cartItems[i].Product = product
		details.Subtotal = details.Subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(cartItems[i].Quantity))))
	}
	details.Items = cartItems

	return details, nil
}

// CouponItemsFromCart converts resolved cart items into the coupon
// evaluator's input shape.
func CouponItemsFromCart(items []models.CartItem) []CouponCartItem {
	couponItems := make([]CouponCartItem, 0, len(items))
	for _, item := range items {
		couponItems = append(couponItems, CouponCartItem{
			ProductID:  item.ProductID,
			CategoryID: item.Product.CategoryID,
			Quantity:   item.Quantity,
			UnitPrice:  item.Product.Price,
		})
	}
	return couponItems
}

// ClearCart removes every cart row for the user. Runs inside the order
// transaction so a rollback restores the cart.
func ClearCart(db *gorm.DB, userID uint) error {
	return db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

// HasOrderedBefore reports whether the user has any prior order,
// soft-deleted ones included.
func HasOrderedBefore(db *gorm.DB, userID uint) (bool, error) {
	var count int64
	if err := db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
