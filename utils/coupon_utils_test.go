package utils

import (
	"testing"
	"time"

	"github.com/velora-shop/velora/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func futureDate() time.Time {
	return time.Now().Add(30 * 24 * time.Hour)
}

func TestCartSubtotal(t *testing.T) {
	items := []CouponCartItem{
		{ProductID: 1, Quantity: 2, UnitPrice: dec("50.00")},
		{ProductID: 2, Quantity: 1, UnitPrice: dec("100.00")},
	}
	assert.True(t, dec("200.00").Equal(CartSubtotal(items)))
	assert.True(t, decimal.Zero.Equal(CartSubtotal(nil)))
}

func TestPercentageDiscountOnWholeCart(t *testing.T) {
	coupon := &models.Coupon{
		Code:          "SAVE10",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: dec("10"),
		ExpiryDate:    futureDate(),
	}
	items := []CouponCartItem{
		{ProductID: 1, Quantity: 2, UnitPrice: dec("50.00")},
		{ProductID: 2, Quantity: 1, UnitPrice: dec("100.00")},
	}

	result, err := EvaluateCoupon(coupon, items, false, time.Now())
	require.NoError(t, err)
	assert.True(t, dec("20.00").Equal(result.Discount), "got %s", result.Discount)
	assert.False(t, result.FreeShipping)
}

func TestPercentageDiscountRestrictedToCategory(t *testing.T) {
	coupon := &models.Coupon{
		Code:                 "SHOES15",
		DiscountType:         models.DiscountTypePercentage,
		DiscountValue:        dec("15"),
		ExpiryDate:           futureDate(),
		ApplicableCategories: []models.Category{{Name: "Shoes"}},
	}
	coupon.ApplicableCategories[0].ID = 7

	items := []CouponCartItem{
		{ProductID: 1, CategoryID: 7, Quantity: 1, UnitPrice: dec("80.00")},
		{ProductID: 2, CategoryID: 3, Quantity: 2, UnitPrice: dec("60.00")},
	}

	result, err := EvaluateCoupon(coupon, items, false, time.Now())
	require.NoError(t, err)
	// 15% of the in-category 80.00, the 120.00 of other items untouched
	assert.True(t, dec("12.00").Equal(result.Discount), "got %s", result.Discount)
}

func TestFixedAmountNotClamped(t *testing.T) {
	coupon := &models.Coupon{
		Code:          "FLAT50",
		DiscountType:  models.DiscountTypeFixedAmount,
		DiscountValue: dec("50.00"),
		ExpiryDate:    futureDate(),
	}
	items := []CouponCartItem{
		{ProductID: 1, Quantity: 1, UnitPrice: dec("30.00")},
	}

	result, err := EvaluateCoupon(coupon, items, false, time.Now())
	require.NoError(t, err)
	// The fixed amount passes through even when it exceeds the subtotal
	assert.True(t, dec("50.00").Equal(result.Discount))
}

func TestFreeShipping(t *testing.T) {
	coupon := &models.Coupon{
		Code:         "SHIPFREE",
		DiscountType: models.DiscountTypeFreeShipping,
		ExpiryDate:   futureDate(),
	}
	items := []CouponCartItem{
		{ProductID: 1, Quantity: 1, UnitPrice: dec("30.00")},
	}

	result, err := EvaluateCoupon(coupon, items, false, time.Now())
	require.NoError(t, err)
	assert.True(t, result.FreeShipping)
	assert.True(t, decimal.Zero.Equal(result.Discount))
}

func TestExpiredCoupon(t *testing.T) {
	now := time.Now()
	coupon := &models.Coupon{
		Code:          "OLD",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: dec("10"),
		ExpiryDate:    now.Add(-time.Hour),
	}
	items := []CouponCartItem{{ProductID: 1, Quantity: 1, UnitPrice: dec("30.00")}}

	_, err := EvaluateCoupon(coupon, items, false, now)
	assert.ErrorIs(t, err, ErrCouponExpired)

	// Expiring exactly now also counts as expired
	coupon.ExpiryDate = now
	_, err = EvaluateCoupon(coupon, items, false, now)
	assert.ErrorIs(t, err, ErrCouponExpired)
}

func TestUsageLimitReached(t *testing.T) {
	coupon := &models.Coupon{
		Code:          "ONCE",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: dec("10"),
		ExpiryDate:    futureDate(),
		UsageLimit:    1,
		TimesUsed:     1,
	}
	items := []CouponCartItem{{ProductID: 1, Quantity: 1, UnitPrice: dec("30.00")}}

	_, err := EvaluateCoupon(coupon, items, false, time.Now())
	assert.ErrorIs(t, err, ErrCouponUsageLimit)
}

func TestZeroUsageLimitMeansUnlimited(t *testing.T) {
	coupon := &models.Coupon{
		Code:          "FOREVER",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: dec("10"),
		ExpiryDate:    futureDate(),
		UsageLimit:    0,
		TimesUsed:     9999,
	}
	items := []CouponCartItem{{ProductID: 1, Quantity: 1, UnitPrice: dec("30.00")}}

	_, err := EvaluateCoupon(coupon, items, false, time.Now())
	assert.NoError(t, err)
}

func TestMinimumPurchaseNotMet(t *testing.T) {
	min := dec("100.00")
	coupon := &models.Coupon{
		Code:              "BIGCART",
		DiscountType:      models.DiscountTypePercentage,
		DiscountValue:     dec("10"),
		ExpiryDate:        futureDate(),
		MinPurchaseAmount: &min,
	}
	items := []CouponCartItem{{ProductID: 1, Quantity: 1, UnitPrice: dec("99.99")}}

	_, err := EvaluateCoupon(coupon, items, false, time.Now())
	assert.ErrorIs(t, err, ErrCouponMinimumNotMet)

	// Exactly the minimum passes
	items[0].UnitPrice = dec("100.00")
	_, err = EvaluateCoupon(coupon, items, false, time.Now())
	assert.NoError(t, err)
}

func TestFirstTimeOnlyRejectsReturningCustomer(t *testing.T) {
	coupon := &models.Coupon{
		Code:          "WELCOME",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: dec("10"),
		ExpiryDate:    futureDate(),
		FirstTimeOnly: true,
	}
	items := []CouponCartItem{{ProductID: 1, Quantity: 1, UnitPrice: dec("30.00")}}

	_, err := EvaluateCoupon(coupon, items, true, time.Now())
	assert.ErrorIs(t, err, ErrCouponNotFirstTime)

	_, err = EvaluateCoupon(coupon, items, false, time.Now())
	assert.NoError(t, err)
}

func TestRestrictedCouponWithNoMatchingItems(t *testing.T) {
	coupon := &models.Coupon{
		Code:               "PRODUCTONLY",
		DiscountType:       models.DiscountTypePercentage,
		DiscountValue:      dec("10"),
		ExpiryDate:         futureDate(),
		ApplicableProducts: []models.Product{{Name: "Special"}},
	}
	coupon.ApplicableProducts[0].ID = 42

	items := []CouponCartItem{{ProductID: 1, Quantity: 1, UnitPrice: dec("30.00")}}

	_, err := EvaluateCoupon(coupon, items, false, time.Now())
	assert.ErrorIs(t, err, ErrCouponNotApplicable)
}

func TestValidationOrderExpiryBeforeUsage(t *testing.T) {
	// A coupon that is both expired and over its usage limit reports
	// expiry first.
	coupon := &models.Coupon{
		Code:          "DOUBLEBAD",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: dec("10"),
		ExpiryDate:    time.Now().Add(-time.Hour),
		UsageLimit:    1,
		TimesUsed:     5,
	}
	items := []CouponCartItem{{ProductID: 1, Quantity: 1, UnitPrice: dec("30.00")}}

	_, err := EvaluateCoupon(coupon, items, false, time.Now())
	assert.ErrorIs(t, err, ErrCouponExpired)
}
