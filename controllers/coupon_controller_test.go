package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/velora-shop/velora/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func couponRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/coupons", CreateCoupon)
	router.GET("/coupons/:code/validate", ValidateCouponCode)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateCouponUppercasesCode(t *testing.T) {
	db := setupTestDB(t)
	router := couponRouter()

	w := postJSON(t, router, "/coupons", gin.H{
		"code":           "save10",
		"discount_type":  "percentage",
		"discount_value": 10,
		"expiry_date":    time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var coupon models.Coupon
	require.NoError(t, db.Where("code = ?", "SAVE10").First(&coupon).Error)
	assert.Equal(t, models.DiscountTypePercentage, coupon.DiscountType)
	assert.Zero(t, coupon.TimesUsed)
}

func TestCreateCouponRejectsPastExpiry(t *testing.T) {
	setupTestDB(t)
	router := couponRouter()

	w := postJSON(t, router, "/coupons", gin.H{
		"code":           "OLD",
		"discount_type":  "PERCENTAGE",
		"discount_value": 10,
		"expiry_date":    time.Now().Add(-24 * time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCouponRejectsDuplicateCode(t *testing.T) {
	db := setupTestDB(t)
	router := couponRouter()

	require.NoError(t, db.Create(&models.Coupon{
		Code:          "TAKEN",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: dec(t, "5"),
		ExpiryDate:    time.Now().Add(24 * time.Hour),
	}).Error)

	w := postJSON(t, router, "/coupons", gin.H{
		"code":           "taken",
		"discount_type":  "PERCENTAGE",
		"discount_value": 10,
		"expiry_date":    time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateCouponRejectsBadPercentage(t *testing.T) {
	setupTestDB(t)
	router := couponRouter()

	w := postJSON(t, router, "/coupons", gin.H{
		"code":           "TOOMUCH",
		"discount_type":  "PERCENTAGE",
		"discount_value": 150,
		"expiry_date":    time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateCouponCodeEndpoint(t *testing.T) {
	db := setupTestDB(t)
	router := couponRouter()

	require.NoError(t, db.Create(&models.Coupon{
		Code:          "LIVE",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: dec(t, "5"),
		ExpiryDate:    time.Now().Add(24 * time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.Coupon{
		Code:          "DEAD",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: dec(t, "5"),
		ExpiryDate:    time.Now().Add(-24 * time.Hour),
	}).Error)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/coupons/live/validate", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/coupons/DEAD/validate", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/coupons/NOPE/validate", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
