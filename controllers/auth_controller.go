package controllers

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/velora-shop/velora/config"
	"github.com/velora-shop/velora/models"
	"github.com/velora-shop/velora/utils"
	"gorm.io/gorm"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

// ConfirmEmailRequest represents the email confirmation request body
type ConfirmEmailRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func generateConfirmationCode() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

// Register creates an unconfirmed user account and emails a confirmation
// code. The account cannot place orders until the email is confirmed.
func Register(c *gin.Context) {
	utils.LogInfo("Register called")

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.ValidateEmail(req.Email); err != nil {
		utils.BadRequest(c, err.Error(), nil)
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		utils.BadRequest(c, err.Error(), nil)
		return
	}

	var existing models.User
	err := config.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil && !existing.IsGuest {
		utils.LogError("Email already registered: %s", req.Email)
		utils.Conflict(c, "Email already registered", nil)
		return
	}

	hash, hashErr := utils.HashPassword(req.Password)
	if hashErr != nil {
		utils.LogError("Failed to hash password: %v", hashErr)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}

	code := generateConfirmationCode()
	expires := time.Now().Add(24 * time.Hour)

	if err == nil && existing.IsGuest {
		// A guest checkout already created this user. Upgrade it to a
		// full account instead of duplicating the email.
		existing.Password = hash
		existing.FullName = req.FullName
		existing.IsGuest = false
		existing.EmailConfirmed = false
		existing.ConfirmationCode = code
		existing.CodeExpiresAt = &expires
		if err := config.DB.Save(&existing).Error; err != nil {
			utils.LogError("Failed to upgrade guest account %s: %v", req.Email, err)
			utils.InternalServerError(c, "Failed to create account", nil)
			return
		}
		sendConfirmation(req.Email, code)
		utils.Created(c, "Registration successful, confirmation code sent", gin.H{"email": req.Email})
		return
	}

	user := models.User{
		Email:            req.Email,
		Password:         hash,
		FullName:         req.FullName,
		EmailConfirmed:   false,
		ConfirmationCode: code,
		CodeExpiresAt:    &expires,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.LogError("Failed to create user %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}
	utils.LogInfo("Registered user ID: %d email: %s", user.ID, user.Email)

	sendConfirmation(req.Email, code)
	utils.Created(c, "Registration successful, confirmation code sent", gin.H{"email": req.Email})
}

func sendConfirmation(email, code string) {
	if err := utils.SendConfirmationCode(email, code); err != nil {
		utils.LogError("Failed to send confirmation code to %s: %v", email, err)
	}
}

// ConfirmEmail verifies the emailed confirmation code and activates the
// account.
func ConfirmEmail(c *gin.Context) {
	utils.LogInfo("ConfirmEmail called")

	var req ConfirmEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if user.EmailConfirmed {
		utils.Success(c, "Email already confirmed", nil)
		return
	}
	if user.ConfirmationCode == "" || user.ConfirmationCode != req.Code {
		utils.LogError("Invalid confirmation code for %s", req.Email)
		utils.BadRequest(c, "Invalid confirmation code", nil)
		return
	}
	if user.CodeExpiresAt != nil && user.CodeExpiresAt.Before(time.Now()) {
		utils.BadRequest(c, "Confirmation code has expired", nil)
		return
	}

	user.EmailConfirmed = true
	user.ConfirmationCode = ""
	user.CodeExpiresAt = nil
	if err := config.DB.Save(&user).Error; err != nil {
		utils.LogError("Failed to confirm email for %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to confirm email", nil)
		return
	}
	utils.LogInfo("Confirmed email for user ID: %d", user.ID)

	utils.Success(c, "Email confirmed successfully", nil)
}

// ResendConfirmationCode issues a fresh confirmation code for an
// unconfirmed account.
func ResendConfirmationCode(c *gin.Context) {
	utils.LogInfo("ResendConfirmationCode called")

	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		utils.BadRequest(c, "Email is required", nil)
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}
	if user.EmailConfirmed {
		utils.Success(c, "Email already confirmed", nil)
		return
	}

	code := generateConfirmationCode()
	expires := time.Now().Add(24 * time.Hour)
	user.ConfirmationCode = code
	user.CodeExpiresAt = &expires
	if err := config.DB.Save(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to resend confirmation code", nil)
		return
	}

	sendConfirmation(email, code)
	utils.Success(c, "Confirmation code sent", nil)
}

// Login authenticates a user and returns a signed JWT
func Login(c *gin.Context) {
	utils.LogInfo("Login called")

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := config.DB.Where("email = ? AND is_guest = ?", req.Email, false).First(&user).Error; err != nil {
		utils.LogError("Login failed, user not found: %s", req.Email)
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Login failed, bad password for: %s", req.Email)
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to generate token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}
	utils.LogInfo("User logged in, ID: %d", user.ID)

	utils.Success(c, "Login successful", gin.H{
		"token": token,
		"user": gin.H{
			"id":              user.ID,
			"email":           user.Email,
			"full_name":       user.FullName,
			"is_admin":        user.IsAdmin,
			"email_confirmed": user.EmailConfirmed,
		},
	})
}

// GetProfile returns the authenticated user's profile
func GetProfile(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	utils.Success(c, "Profile retrieved successfully", gin.H{
		"id":              user.ID,
		"email":           user.Email,
		"full_name":       user.FullName,
		"is_admin":        user.IsAdmin,
		"email_confirmed": user.EmailConfirmed,
		"created_at":      user.CreatedAt,
	})
}

// CreateSampleAdmin seeds an admin account on startup when none exists.
// Credentials come from ADMIN_EMAIL and ADMIN_PASSWORD.
func CreateSampleAdmin(db *gorm.DB) error {
	email := strings.ToLower(strings.TrimSpace(config.AppConfig.AdminEmail))
	if email == "" {
		return nil
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil
	}

	hash, err := utils.HashPassword(config.AppConfig.AdminPassword)
	if err != nil {
		return utils.WrapError(err, "failed to hash admin password")
	}

	admin := models.User{
		Email:          email,
		Password:       hash,
		FullName:       "Administrator",
		IsAdmin:        true,
		EmailConfirmed: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return utils.WrapError(err, "failed to create admin account")
	}
	utils.LogInfo("Seeded admin account: %s", email)
	return nil
}

// CreateDefaultCategory seeds a fallback category so products can always
// be created.
func CreateDefaultCategory(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return utils.WrapError(err, "failed to count categories")
	}
	if count > 0 {
		return nil
	}

	category := models.Category{Name: "General", Description: "Default category"}
	if err := db.Create(&category).Error; err != nil {
		return utils.WrapError(err, "failed to create default category")
	}
	utils.LogInfo("Seeded default category ID: %d", category.ID)
	return nil
}
