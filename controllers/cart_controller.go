package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/velora-shop/velora/config"
	"github.com/velora-shop/velora/models"
	"github.com/velora-shop/velora/utils"
)

// AddToCartRequest represents the request body for adding a product to
// the cart
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest represents the request body for changing a cart
// item's quantity
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return models.User{}, false
	}
	return userVal.(models.User), true
}

// AddToCart adds a product to the authenticated user's cart, merging with
// an existing row for the same product
func AddToCart(c *gin.Context) {
	utils.LogInfo("AddToCart called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var product models.Product
	if err := config.DB.First(&product, req.ProductID).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	var item models.CartItem
	err := config.DB.Where("user_id = ? AND product_id = ?", user.ID, req.ProductID).First(&item).Error
	if err == nil {
		item.Quantity += req.Quantity
		if err := config.DB.Save(&item).Error; err != nil {
			utils.LogError("Failed to update cart item %d: %v", item.ID, err)
			utils.InternalServerError(c, "Failed to update cart", nil)
			return
		}
	} else {
		item = models.CartItem{UserID: user.ID, ProductID: req.ProductID, Quantity: req.Quantity}
		if err := config.DB.Create(&item).Error; err != nil {
			utils.LogError("Failed to add cart item for user %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to add to cart", nil)
			return
		}
	}
	utils.LogInfo("Cart updated for user %d, product %d, quantity %d", user.ID, req.ProductID, item.Quantity)

	utils.Success(c, "Product added to cart", item)
}

// GetCart returns the authenticated user's cart with the current
// subtotal. Totals shown here are informational; the checkout recomputes
// everything from stored prices.
func GetCart(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	details, err := utils.GetCartDetails(config.DB, user.ID)
	if err != nil {
		utils.LogError("Failed to load cart for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load cart", nil)
		return
	}

	utils.Success(c, "Cart retrieved successfully", gin.H{
		"items":    details.Items,
		"subtotal": details.Subtotal,
	})
}

// UpdateCartItem changes the quantity of one of the user's cart items
func UpdateCartItem(c *gin.Context) {
	utils.LogInfo("UpdateCartItem called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid cart item ID", nil)
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var item models.CartItem
	if err := config.DB.Where("id = ? AND user_id = ?", itemID, user.ID).First(&item).Error; err != nil {
		utils.NotFound(c, "Cart item not found")
		return
	}

	item.Quantity = req.Quantity
	if err := config.DB.Save(&item).Error; err != nil {
		utils.LogError("Failed to update cart item %d: %v", item.ID, err)
		utils.InternalServerError(c, "Failed to update cart item", nil)
		return
	}

	utils.Success(c, "Cart item updated", item)
}

// RemoveCartItem deletes one of the user's cart items
func RemoveCartItem(c *gin.Context) {
	utils.LogInfo("RemoveCartItem called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid cart item ID", nil)
		return
	}

	result := config.DB.Where("id = ? AND user_id = ?", itemID, user.ID).Delete(&models.CartItem{})
	if result.Error != nil {
		utils.LogError("Failed to remove cart item %d: %v", itemID, result.Error)
		utils.InternalServerError(c, "Failed to remove cart item", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Cart item not found")
		return
	}

	utils.Success(c, "Cart item removed", nil)
}

// ClearCart empties the authenticated user's cart
func ClearCart(c *gin.Context) {
	utils.LogInfo("ClearCart called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := utils.ClearCart(config.DB, user.ID); err != nil {
		utils.LogError("Failed to clear cart for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to clear cart", nil)
		return
	}

	utils.Success(c, "Cart cleared", nil)
}
