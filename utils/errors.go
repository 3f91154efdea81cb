package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error carrying the HTTP status it
// should map to. The wrapped Err identifies the error kind so callers can
// test with errors.Is.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error kinds. Every failure that aborts the order transaction is one of
// these; notification failures are logged and swallowed instead.
var (
	ErrNotFound             = errors.New("not found")
	ErrEmailNotConfirmed    = errors.New("email not confirmed")
	ErrEmptyCart            = errors.New("empty cart")
	ErrCouponExpired        = errors.New("coupon expired")
	ErrCouponUsageLimit     = errors.New("coupon usage limit reached")
	ErrCouponMinimumNotMet  = errors.New("coupon minimum purchase not met")
	ErrCouponNotFirstTime   = errors.New("coupon restricted to first-time customers")
	ErrCouponNotApplicable  = errors.New("coupon not applicable to cart")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrProductConfiguration = errors.New("product configuration error")
)

// NotFoundError creates a 404 Not Found error
func NotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

// EmailNotConfirmedError is returned when a user attempts checkout before
// confirming their email address
func EmailNotConfirmedError() *AppError {
	return NewAppError(http.StatusForbidden, "Email not confirmed. Please confirm your email before placing an order", ErrEmailNotConfirmed)
}

// EmptyCartError is returned when checkout is attempted with no cart items
func EmptyCartError() *AppError {
	return NewAppError(http.StatusBadRequest, "Cannot place an order with an empty cart", ErrEmptyCart)
}

// CouponExpiredError is returned when a coupon's expiry date has passed
func CouponExpiredError() *AppError {
	return NewAppError(http.StatusBadRequest, "Coupon has expired", ErrCouponExpired)
}

// CouponUsageLimitError is returned when a coupon's usage counter has
// reached its limit
func CouponUsageLimitError() *AppError {
	return NewAppError(http.StatusBadRequest, "Coupon has reached its usage limit", ErrCouponUsageLimit)
}

// CouponMinimumNotMetError is returned when the cart subtotal is below the
// coupon's minimum purchase amount
func CouponMinimumNotMetError() *AppError {
	return NewAppError(http.StatusBadRequest, "Order total does not meet the minimum purchase amount for this coupon", ErrCouponMinimumNotMet)
}

// CouponNotFirstTimeError is returned when a first-time-only coupon is used
// by a customer with prior orders
func CouponNotFirstTimeError() *AppError {
	return NewAppError(http.StatusBadRequest, "This coupon is for first-time customers only", ErrCouponNotFirstTime)
}

// CouponNotApplicableError is returned when no cart item matches the
// coupon's product/category restriction
func CouponNotApplicableError() *AppError {
	return NewAppError(http.StatusBadRequest, "This coupon is not valid for the items in your cart", ErrCouponNotApplicable)
}

// InsufficientStockError is returned when a product cannot cover the
// requested quantity
func InsufficientStockError(productName string, available, requested int) *AppError {
	return NewAppError(http.StatusConflict,
		fmt.Sprintf("Not enough stock for product '%s'. Available: %d, Requested: %d", productName, available, requested),
		ErrInsufficientStock)
}

// ProductConfigurationError is returned when a product's stock quantity was
// never set. Distinct from InsufficientStock: this is an admin mistake, not
// a sold-out product.
func ProductConfigurationError(productName string) *AppError {
	return NewAppError(http.StatusInternalServerError,
		fmt.Sprintf("Stock quantity is not configured for product '%s'", productName),
		ErrProductConfiguration)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError returns the AppError if the error is an AppError
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
