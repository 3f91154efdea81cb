package utils

import (
	"time"

	"github.com/velora-shop/velora/models"

	"github.com/shopspring/decimal"
)

// CouponCartItem is the evaluator's view of a single cart line: the
// authoritative product id, category and unit price, plus the requested
// quantity. Callers build these from freshly loaded product records, never
// from a stale cart snapshot.
type CouponCartItem struct {
	ProductID  uint
	CategoryID uint
	Quantity   int
	UnitPrice  decimal.Decimal
}

// CouponResult is the outcome of evaluating a coupon against a cart
type CouponResult struct {
	Discount     decimal.Decimal
	FreeShipping bool
}

// CartSubtotal sums unit price times quantity over all items, pre-discount
func CartSubtotal(items []CouponCartItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

// couponIsRestricted reports whether the coupon limits itself to specific
// products or categories. An unrestricted coupon applies to the whole cart.
func couponIsRestricted(coupon *models.Coupon) bool {
	return len(coupon.ApplicableProducts) > 0 || len(coupon.ApplicableCategories) > 0
}

// CouponMatchesItem reports whether the item falls under the coupon's
// product/category restriction. Always true for unrestricted coupons.
func CouponMatchesItem(coupon *models.Coupon, item CouponCartItem) bool {
	if !couponIsRestricted(coupon) {
		return true
	}
	for _, p := range coupon.ApplicableProducts {
		if p.ID == item.ProductID {
			return true
		}
	}
	for _, cat := range coupon.ApplicableCategories {
		if cat.ID == item.CategoryID {
			return true
		}
	}
	return false
}

// ApplicableSubtotal sums unit price times quantity over the items matching
// the coupon's restriction, or the whole cart when unrestricted.
func ApplicableSubtotal(coupon *models.Coupon, items []CouponCartItem) decimal.Decimal {
	if !couponIsRestricted(coupon) {
		return CartSubtotal(items)
	}
	subtotal := decimal.Zero
	for _, item := range items {
		if CouponMatchesItem(coupon, item) {
			subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}
	return subtotal
}

// ValidateCoupon runs the eligibility checks in their fixed order; the
// first failing check wins so error reporting stays deterministic.
func ValidateCoupon(coupon *models.Coupon, items []CouponCartItem, hasOrderedBefore bool, now time.Time) error {
	if !coupon.ExpiryDate.After(now) {
		return CouponExpiredError()
	}
	if coupon.UsageLimit > 0 && coupon.TimesUsed >= coupon.UsageLimit {
		return CouponUsageLimitError()
	}
	if coupon.MinPurchaseAmount != nil && CartSubtotal(items).LessThan(*coupon.MinPurchaseAmount) {
		return CouponMinimumNotMetError()
	}
	if coupon.FirstTimeOnly && hasOrderedBefore {
		return CouponNotFirstTimeError()
	}
	if couponIsRestricted(coupon) {
		matched := false
		for _, item := range items {
			if CouponMatchesItem(coupon, item) {
				matched = true
				break
			}
		}
		if !matched {
			return CouponNotApplicableError()
		}
	}
	return nil
}

// ComputeCouponDiscount computes the discount for a coupon that already
// passed validation. Fixed amounts are passed through as-is, without
// clamping to the subtotal. Percentage discounts apply to the applicable
// subtotal only. Free-shipping coupons leave the merchandise total alone.
func ComputeCouponDiscount(coupon *models.Coupon, items []CouponCartItem) CouponResult {
	switch coupon.DiscountType {
	case models.DiscountTypeFixedAmount:
		return CouponResult{Discount: coupon.DiscountValue}
	case models.DiscountTypePercentage:
		applicable := ApplicableSubtotal(coupon, items)
		discount := applicable.Mul(coupon.DiscountValue).Div(decimal.NewFromInt(100))
		return CouponResult{Discount: discount}
	case models.DiscountTypeFreeShipping:
		return CouponResult{Discount: decimal.Zero, FreeShipping: true}
	}
	return CouponResult{Discount: decimal.Zero}
}

// EvaluateCoupon validates the coupon against the cart and, on success,
// computes the discount. It has no side effects: the caller persists the
// usage-counter increment only once the order is durably committed.
func EvaluateCoupon(coupon *models.Coupon, items []CouponCartItem, hasOrderedBefore bool, now time.Time) (CouponResult, error) {
	if err := ValidateCoupon(coupon, items, hasOrderedBefore, now); err != nil {
		return CouponResult{}, err
	}
	return ComputeCouponDiscount(coupon, items), nil
}
