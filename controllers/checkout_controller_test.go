package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/velora-shop/velora/config"
	"github.com/velora-shop/velora/models"
	"github.com/velora-shop/velora/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateModels(db))

	config.DB = db
	return db
}

func intPtr(v int) *int { return &v }

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		Email:          "shopper@example.com",
		FullName:       "Test Shopper",
		EmailConfirmed: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock *int) models.Product {
	t.Helper()
	category := models.Category{Name: "Category for " + name}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{
		Name:       name,
		Price:      dec(t, price),
		Quantity:   stock,
		CategoryID: category.ID,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func addToCart(t *testing.T, db *gorm.DB, userID, productID uint, qty int) {
	t.Helper()
	require.NoError(t, db.Create(&models.CartItem{UserID: userID, ProductID: productID, Quantity: qty}).Error)
}

func placeOrderRequest() *PlaceOrderRequest {
	return &PlaceOrderRequest{
		ClientFullName: "Test Shopper",
		City:           "Springfield",
		Address:        "12 Main St",
		PhoneNumber:    "+15550100",
	}
}

// runCheckout mirrors the handler's transaction handling: commit on
// success, roll back on error.
func runCheckout(db *gorm.DB, user *models.User, req *PlaceOrderRequest, guestLines []utils.ReserveLine) (*models.Order, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	order, err := createOrderInTx(tx, user, req, guestLines)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return order, nil
}

func productStock(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, productID).Error)
	require.NotNil(t, product.Quantity)
	return *product.Quantity
}

func TestCheckoutDecrementsStockAndClearsCart(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Sneaker", "50.00", intPtr(10))
	addToCart(t, db, user.ID, product.ID, 3)

	order, err := runCheckout(db, &user, placeOrderRequest(), nil)
	require.NoError(t, err)

	assert.Equal(t, 7, productStock(t, db, product.ID))
	assert.Equal(t, models.OrderStatusPreparing, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.True(t, dec(t, "50.00").Equal(order.Items[0].Price))
	assert.True(t, utils.DefaultShippingCost.Equal(order.ShippingCost))

	var cartCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount).Error)
	assert.Zero(t, cartCount)
}

func TestCheckoutInsufficientStockRollsBackEverything(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	first := seedProduct(t, db, "Plenty", "20.00", intPtr(10))
	second := seedProduct(t, db, "Scarce", "30.00", intPtr(2))
	addToCart(t, db, user.ID, first.ID, 1)
	addToCart(t, db, user.ID, second.ID, 3)

	_, err := runCheckout(db, &user, placeOrderRequest(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrInsufficientStock)

	// The first line's reservation must be rolled back too
	assert.Equal(t, 10, productStock(t, db, first.ID))
	assert.Equal(t, 2, productStock(t, db, second.ID))

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	var cartCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount).Error)
	assert.Equal(t, int64(2), cartCount)
}

func TestCheckoutUnconfiguredStockFails(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Mystery", "20.00", nil)
	addToCart(t, db, user.ID, product.ID, 1)

	_, err := runCheckout(db, &user, placeOrderRequest(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrProductConfiguration)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)

	_, err := runCheckout(db, &user, placeOrderRequest(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrEmptyCart)
}

func TestCheckoutWithCouponIncrementsUsage(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Jacket", "100.00", intPtr(5))
	addToCart(t, db, user.ID, product.ID, 2)

	coupon := models.Coupon{
		Code:          "SAVE10",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: dec(t, "10"),
		ExpiryDate:    time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, db.Create(&coupon).Error)

	req := placeOrderRequest()
	req.CouponCode = "SAVE10"

	order, err := runCheckout(db, &user, req, nil)
	require.NoError(t, err)
	assert.True(t, dec(t, "20.00").Equal(order.DiscountAmount), "got %s", order.DiscountAmount)
	require.NotNil(t, order.CouponID)
	assert.Equal(t, coupon.ID, *order.CouponID)

	var stored models.Coupon
	require.NoError(t, db.First(&stored, coupon.ID).Error)
	assert.Equal(t, 1, stored.TimesUsed)
}

func TestCheckoutCouponFailureAbortsOrder(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Bag", "40.00", intPtr(5))
	addToCart(t, db, user.ID, product.ID, 1)

	coupon := models.Coupon{
		Code:          "ONCE",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: dec(t, "10"),
		ExpiryDate:    time.Now().Add(24 * time.Hour),
		UsageLimit:    1,
		TimesUsed:     1,
	}
	require.NoError(t, db.Create(&coupon).Error)

	req := placeOrderRequest()
	req.CouponCode = "ONCE"

	// The order is never silently placed without its coupon
	_, err := runCheckout(db, &user, req, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrCouponUsageLimit)

	assert.Equal(t, 5, productStock(t, db, product.ID))
	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestCheckoutUnknownCoupon(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Hat", "15.00", intPtr(5))
	addToCart(t, db, user.ID, product.ID, 1)

	req := placeOrderRequest()
	req.CouponCode = "NOPE"

	_, err := runCheckout(db, &user, req, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestCheckoutFreeShippingCoupon(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Scarf", "25.00", intPtr(5))
	addToCart(t, db, user.ID, product.ID, 1)

	coupon := models.Coupon{
		Code:         "SHIPFREE",
		DiscountType: models.DiscountTypeFreeShipping,
		ExpiryDate:   time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, db.Create(&coupon).Error)

	req := placeOrderRequest()
	req.CouponCode = "SHIPFREE"

	order, err := runCheckout(db, &user, req, nil)
	require.NoError(t, err)
	assert.True(t, decimal.Zero.Equal(order.ShippingCost))
	assert.True(t, decimal.Zero.Equal(order.DiscountAmount))
}

func TestCheckoutFirstTimeCouponAfterPriorOrder(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Belt", "35.00", intPtr(10))
	addToCart(t, db, user.ID, product.ID, 1)

	// First order without a coupon
	_, err := runCheckout(db, &user, placeOrderRequest(), nil)
	require.NoError(t, err)

	coupon := models.Coupon{
		Code:          "WELCOME",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: dec(t, "10"),
		ExpiryDate:    time.Now().Add(24 * time.Hour),
		FirstTimeOnly: true,
	}
	require.NoError(t, db.Create(&coupon).Error)

	addToCart(t, db, user.ID, product.ID, 1)
	req := placeOrderRequest()
	req.CouponCode = "WELCOME"

	_, err = runCheckout(db, &user, req, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrCouponNotFirstTime)
}

func TestOrderItemPriceIsASnapshot(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Watch", "200.00", intPtr(5))
	addToCart(t, db, user.ID, product.ID, 1)

	order, err := runCheckout(db, &user, placeOrderRequest(), nil)
	require.NoError(t, err)

	// Reprice the product after the order was placed
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", dec(t, "350.00")).Error)

	var item models.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&item).Error)
	assert.True(t, dec(t, "200.00").Equal(item.Price), "got %s", item.Price)
}

func TestGuestCheckoutCreatesGuestUser(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db, "Gift", "60.00", intPtr(4))

	guest := models.User{
		Email:          "guest@example.com",
		FullName:       "Guest Buyer",
		IsGuest:        true,
		EmailConfirmed: true,
	}
	require.NoError(t, db.Create(&guest).Error)

	lines := []utils.ReserveLine{{ProductID: product.ID, Quantity: 2}}
	order, err := runCheckout(db, &guest, placeOrderRequest(), lines)
	require.NoError(t, err)

	assert.Equal(t, 2, productStock(t, db, product.ID))
	assert.Equal(t, guest.ID, order.UserID)
	require.Len(t, order.Items, 1)
	assert.True(t, dec(t, "60.00").Equal(order.Items[0].Price))
}

func TestRepeatedCheckoutExhaustsStock(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Limited", "10.00", intPtr(3))

	addToCart(t, db, user.ID, product.ID, 2)
	_, err := runCheckout(db, &user, placeOrderRequest(), nil)
	require.NoError(t, err)

	addToCart(t, db, user.ID, product.ID, 2)
	_, err = runCheckout(db, &user, placeOrderRequest(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrInsufficientStock)
	assert.Equal(t, 1, productStock(t, db, product.ID))
}

func TestCouponUsageCounterStopsAtLimit(t *testing.T) {
	db := setupTestDB(t)
	coupon := models.Coupon{
		Code:          "LASTONE",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: dec(t, "10"),
		ExpiryDate:    time.Now().Add(24 * time.Hour),
		UsageLimit:    1,
	}
	require.NoError(t, db.Create(&coupon).Error)

	// Two placements read the coupon before either one wrote, so both
	// passed validation with a single use remaining. Only one of the
	// increments may land.
	require.NoError(t, incrementCouponUsage(db, coupon.ID))
	err := incrementCouponUsage(db, coupon.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrCouponUsageLimit)

	var stored models.Coupon
	require.NoError(t, db.First(&stored, coupon.ID).Error)
	assert.Equal(t, 1, stored.TimesUsed)
	assert.LessOrEqual(t, stored.TimesUsed, stored.UsageLimit)
}

func guestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/guest/checkout", GuestPlaceOrder)
	return router
}

func guestOrderBody(email string, productID uint) gin.H {
	return gin.H{
		"client_full_name": "Guest Buyer",
		"city":             "Springfield",
		"address":          "12 Main St",
		"phone_number":     "+15550100",
		"email":            email,
		"cart_items":       []gin.H{{"product_id": productID, "quantity": 1}},
	}
}

func TestGuestCheckoutRejectsRegisteredEmail(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db, "Candle", "18.00", intPtr(5))

	registered := models.User{
		Email:    "taken@example.com",
		FullName: "Registered Shopper",
	}
	require.NoError(t, db.Create(&registered).Error)

	w := postJSON(t, guestRouter(), "/guest/checkout", guestOrderBody("taken@example.com", product.ID))
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, 5, productStock(t, db, product.ID))
	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestGuestCheckoutReusesGuestAccount(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db, "Mug", "12.00", intPtr(5))

	guest := models.User{
		Email:          "repeat@example.com",
		FullName:       "Guest Buyer",
		IsGuest:        true,
		EmailConfirmed: true,
	}
	require.NoError(t, db.Create(&guest).Error)

	w := postJSON(t, guestRouter(), "/guest/checkout", guestOrderBody("repeat@example.com", product.ID))
	assert.Equal(t, http.StatusCreated, w.Code)

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "repeat@example.com").Count(&userCount).Error)
	assert.EqualValues(t, 1, userCount)

	var order models.Order
	require.NoError(t, db.First(&order).Error)
	assert.Equal(t, guest.ID, order.UserID)
}
