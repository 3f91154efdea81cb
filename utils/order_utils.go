package utils

import (
	"fmt"

	"github.com/velora-shop/velora/models"

	"gorm.io/gorm"
)

// ReserveLine is a single reservation request: how many units of which
// product the order needs.
type ReserveLine struct {
	ProductID uint
	Quantity  int
}

// BuildOrderItems converts cart lines into immutable order items while
// reserving stock, one line at a time in cart order. Each line re-fetches
// the authoritative product inside tx, so a later line referring to the
// same product sees the stock already taken by an earlier one. The
// decrement itself is conditional on the current stock covering the
// request; zero rows affected means a concurrent order got there first and
// the whole operation aborts, leaving the surrounding transaction to roll
// back every prior reservation.
func BuildOrderItems(tx *gorm.DB, lines []ReserveLine) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(lines))

	for _, line := range lines {
		var product models.Product
		if err := tx.First(&product, line.ProductID).Error; err != nil {
			return nil, NotFoundError(fmt.Sprintf("Product with ID %d not found", line.ProductID))
		}

		if product.Quantity == nil {
			return nil, ProductConfigurationError(product.Name)
		}
		if *product.Quantity < line.Quantity {
			return nil, InsufficientStockError(product.Name, *product.Quantity, line.Quantity)
		}

		res := tx.Model(&models.Product{}).
			Where("id = ? AND quantity >= ?", product.ID, line.Quantity).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", line.Quantity))
		if res.Error != nil {
			return nil, fmt.Errorf("failed to update stock for product %d: %v", product.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost the race against a concurrent order between the read
			// and the conditional decrement.
			return nil, InsufficientStockError(product.Name, *product.Quantity, line.Quantity)
		}
		LogInfo("Reserved stock for product ID: %d, quantity: %d", product.ID, line.Quantity)

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
	}

	return items, nil
}

// ReserveLinesFromCart maps resolved cart items to reservation lines,
// preserving cart order.
func ReserveLinesFromCart(items []models.CartItem) []ReserveLine {
	lines := make([]ReserveLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, ReserveLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}
