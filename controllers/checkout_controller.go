package controllers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/velora-shop/velora/config"
	"github.com/velora-shop/velora/models"
	"github.com/velora-shop/velora/utils"
	"gorm.io/gorm"
)

// PlaceOrderRequest represents the request body for placing an order
type PlaceOrderRequest struct {
	ClientFullName string `json:"client_full_name" binding:"required"`
	City           string `json:"city" binding:"required"`
	Address        string `json:"address" binding:"required"`
	PhoneNumber    string `json:"phone_number" binding:"required"`
	CouponCode     string `json:"coupon_code"`
}

// PlaceOrder turns the user's cart into an order. Everything between
// loading the cart and clearing it runs in one transaction: stock
// reservations, the order row with its items, and the coupon usage
// increment either all commit or none do. Only the confirmation
// notification lives outside that boundary.
func PlaceOrder(c *gin.Context) {
	utils.LogInfo("PlaceOrder called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user, ok := userVal.(models.User)
	if !ok {
		utils.LogError("Invalid user type in context")
		utils.BadRequest(c, "Invalid user in context", nil)
		return
	}
	utils.LogInfo("Processing order placement for user ID: %d", user.ID)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if !user.EmailConfirmed {
		utils.LogError("Unconfirmed email for user ID: %d", user.ID)
		utils.RespondWithError(c, utils.EmailNotConfirmedError())
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction for user ID: %d: %v", user.ID, tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	order, err := createOrderInTx(tx, &user, &req, nil)
	if err != nil {
		tx.Rollback()
		utils.LogError("Order placement failed for user ID: %d: %v", user.ID, err)
		utils.RespondWithError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to commit transaction", err.Error())
		return
	}
	utils.LogInfo("Successfully committed order ID: %d for user ID: %d", order.ID, user.ID)

	notifyOrderPlaced(user.Email, order.ID)

	utils.Created(c, "Thank you for shopping with us! Your order has been placed successfully.", orderSummary(order))
}

// GuestCartItemRequest is one requested line of a guest order
type GuestCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// GuestOrderRequest represents the request body for a guest checkout
type GuestOrderRequest struct {
	ClientFullName string                 `json:"client_full_name" binding:"required"`
	City           string                 `json:"city" binding:"required"`
	Address        string                 `json:"address" binding:"required"`
	PhoneNumber    string                 `json:"phone_number" binding:"required"`
	Email          string                 `json:"email" binding:"required"`
	CouponCode     string                 `json:"coupon_code"`
	CartItems      []GuestCartItemRequest `json:"cart_items" binding:"required"`
}

// GuestPlaceOrder places an order for a shopper without an account. A
// guest user record is found or created for the email so that first-time
// coupon checks and order history still work; the email-confirmation
// requirement does not apply to guests.
func GuestPlaceOrder(c *gin.Context) {
	utils.LogInfo("GuestPlaceOrder called")

	var req GuestOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid guest order request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		utils.BadRequest(c, err.Error(), nil)
		return
	}
	if len(req.CartItems) == 0 {
		utils.RespondWithError(c, utils.EmptyCartError())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction for guest order: %v", tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	var user models.User
	if err := tx.Where("email = ? AND is_guest = ?", email, true).First(&user).Error; err != nil {
		var registered int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&registered).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to look up account for %s: %v", email, err)
			utils.InternalServerError(c, "Failed to look up account", err.Error())
			return
		}
		if registered > 0 {
			tx.Rollback()
			utils.LogError("Guest checkout rejected for registered email: %s", email)
			utils.Conflict(c, "An account with this email already exists. Please log in to place your order.", nil)
			return
		}
		user = models.User{
			Email:          email,
			FullName:       req.ClientFullName,
			IsGuest:        true,
			EmailConfirmed: true,
		}
		if err := tx.Create(&user).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to create guest user for %s: %v", email, err)
			utils.InternalServerError(c, "Failed to create guest user", err.Error())
			return
		}
		utils.LogInfo("Created guest user ID: %d for email: %s", user.ID, email)
	}

	placeReq := PlaceOrderRequest{
		ClientFullName: req.ClientFullName,
		City:           req.City,
		Address:        req.Address,
		PhoneNumber:    req.PhoneNumber,
		CouponCode:     req.CouponCode,
	}
	lines := make([]utils.ReserveLine, 0, len(req.CartItems))
	for _, item := range req.CartItems {
		lines = append(lines, utils.ReserveLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := createOrderInTx(tx, &user, &placeReq, lines)
	if err != nil {
		tx.Rollback()
		utils.LogError("Guest order placement failed for %s: %v", email, err)
		utils.RespondWithError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit guest order transaction: %v", err)
		utils.InternalServerError(c, "Failed to commit transaction", err.Error())
		return
	}
	utils.LogInfo("Successfully committed guest order ID: %d", order.ID)

	notifyOrderPlaced(email, order.ID)

	utils.Created(c, "Thank you for shopping with us! Your order has been placed successfully.", orderSummary(order))
}

// createOrderInTx runs the whole order placement inside tx. When
// guestLines is nil the user's stored cart is used (and cleared on
// success); otherwise the given lines are ordered directly.
func createOrderInTx(tx *gorm.DB, user *models.User, req *PlaceOrderRequest, guestLines []utils.ReserveLine) (*models.Order, error) {
	var lines []utils.ReserveLine
	var couponItems []utils.CouponCartItem

	if guestLines == nil {
		cartDetails, err := utils.GetCartDetails(tx, user.ID)
		if err != nil {
			return nil, err
		}
		if len(cartDetails.Items) == 0 {
			return nil, utils.EmptyCartError()
		}
		utils.LogInfo("Retrieved cart for user ID: %d, items count: %d", user.ID, len(cartDetails.Items))
		lines = utils.ReserveLinesFromCart(cartDetails.Items)
		couponItems = utils.CouponItemsFromCart(cartDetails.Items)
	} else {
		lines = guestLines
		items, err := resolveLines(tx, guestLines)
		if err != nil {
			return nil, err
		}
		couponItems = items
	}

	discount := decimal.Zero
	shipping := utils.DefaultShippingCost
	var coupon *models.Coupon

	if req.CouponCode != "" {
		code := strings.ToUpper(strings.TrimSpace(req.CouponCode))
		var found models.Coupon
		if err := tx.Preload("ApplicableProducts").Preload("ApplicableCategories").
			Where("code = ?", code).First(&found).Error; err != nil {
			return nil, utils.NotFoundError("Coupon not found: " + code)
		}

		hasOrdered, err := utils.HasOrderedBefore(tx, user.ID)
		if err != nil {
			return nil, utils.WrapError(err, "failed to check order history")
		}

		result, err := utils.EvaluateCoupon(&found, couponItems, hasOrdered, time.Now())
		if err != nil {
			// The order is never silently placed without its coupon.
			return nil, err
		}

		discount = result.Discount
		if result.FreeShipping {
			shipping = decimal.Zero
		}
		coupon = &found
		utils.LogInfo("Coupon %s evaluated for user ID: %d, discount: %s", found.Code, user.ID, discount.StringFixed(2))
	}

	orderItems, err := utils.BuildOrderItems(tx, lines)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		UserID:         user.ID,
		ClientFullName: req.ClientFullName,
		City:           req.City,
		Address:        req.Address,
		PhoneNumber:    req.PhoneNumber,
		Status:         models.OrderStatusPreparing,
		DiscountAmount: discount,
		ShippingCost:   shipping,
		Items:          orderItems,
	}
	if coupon != nil {
		order.CouponID = &coupon.ID
	}

	if err := tx.Create(&order).Error; err != nil {
		return nil, utils.WrapError(err, "failed to create order")
	}
	utils.LogInfo("Created order ID: %d for user ID: %d", order.ID, user.ID)

	if coupon != nil {
		// Same atomic unit as the order row so usage count and order
		// existence never diverge.
		if err := incrementCouponUsage(tx, coupon.ID); err != nil {
			return nil, err
		}
		utils.LogInfo("Incremented times_used for coupon code: %s", coupon.Code)
	}

	if guestLines == nil {
		if err := utils.ClearCart(tx, user.ID); err != nil {
			return nil, utils.WrapError(err, "failed to clear cart")
		}
		utils.LogInfo("Cleared cart for user ID: %d", user.ID)
	}

	return &order, nil
}

// incrementCouponUsage bumps the coupon usage counter with the limit
// checked in the same statement. Two placements that both validated the
// coupon at the last remaining use race here; the one the guard rejects
// aborts its transaction instead of pushing the counter past the limit.
func incrementCouponUsage(tx *gorm.DB, couponID uint) error {
	res := tx.Model(&models.Coupon{}).
		Where("id = ? AND (usage_limit = 0 OR times_used < usage_limit)", couponID).
		UpdateColumn("times_used", gorm.Expr("times_used + ?", 1))
	if res.Error != nil {
		return utils.WrapError(res.Error, "failed to update coupon usage count")
	}
	if res.RowsAffected == 0 {
		return utils.CouponUsageLimitError()
	}
	return nil
}

// resolveLines loads the authoritative product for each requested line and
// returns the coupon evaluator's view of them.
func resolveLines(tx *gorm.DB, lines []utils.ReserveLine) ([]utils.CouponCartItem, error) {
	items := make([]utils.CouponCartItem, 0, len(lines))
	for _, line := range lines {
		var product models.Product
		if err := tx.First(&product, line.ProductID).Error; err != nil {
			return nil, utils.NotFoundError("Product not found in cart")
		}
		items = append(items, utils.CouponCartItem{
			ProductID:  product.ID,
			CategoryID: product.CategoryID,
			Quantity:   line.Quantity,
			UnitPrice:  product.Price,
		})
	}
	return items, nil
}

// notifyOrderPlaced sends the confirmation email and publishes the order
// event. Failures are logged and swallowed; the order is already committed.
func notifyOrderPlaced(email string, orderID uint) {
	var order models.Order
	if err := config.DB.Preload("Items.Product").First(&order, orderID).Error; err != nil {
		utils.LogError("Failed to load order %d for notification: %v", orderID, err)
		return
	}

	if err := utils.SendOrderConfirmation(email, &order); err != nil {
		utils.LogError("Failed to send order confirmation email for order ID %d: %v", orderID, err)
	}
	if err := utils.PublishOrderCreated(&order); err != nil {
		utils.LogError("Failed to publish order created event for order ID %d: %v", orderID, err)
	}
}

func orderSummary(order *models.Order) gin.H {
	subtotal := decimal.Zero
	for _, item := range order.Items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	total := subtotal.Sub(order.DiscountAmount).Add(order.ShippingCost)

	return gin.H{
		"order_id":      order.ID,
		"status":        order.Status,
		"subtotal":      subtotal.StringFixed(2),
		"discount":      order.DiscountAmount.StringFixed(2),
		"shipping_cost": order.ShippingCost.StringFixed(2),
		"final_total":   total.StringFixed(2),
		"delivery_date": "3-7 working days",
		"shipping_address": gin.H{
			"full_name": order.ClientFullName,
			"city":      order.City,
			"address":   order.Address,
			"phone":     order.PhoneNumber,
		},
	}
}
