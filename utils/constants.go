package utils

import "github.com/shopspring/decimal"

// Application constants
const (
	// Application name
	AppName = "Velora"

	// API version
	APIVersion = "v1"

	// Default port
	DefaultPort = "8080"

	// JWT token expiration (24 hours)
	JWTExpiration = "24h"

	// Email confirmation code expiration (24 hours)
	ConfirmationCodeExpiration = "24h"

	// Maximum file size for uploads (5MB)
	MaxFileSize = 5 * 1024 * 1024

	// Default pagination limit
	DefaultPaginationLimit = 10

	// Maximum pagination limit
	MaxPaginationLimit = 100

	// Minimum password length
	MinPasswordLength = 8
)

// DefaultShippingCost is the flat shipping fee applied to every order
// unless a free-shipping coupon zeroes it.
var DefaultShippingCost = decimal.NewFromFloat(10.00)
