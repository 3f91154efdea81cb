package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/velora-shop/velora/config"
	"github.com/velora-shop/velora/models"
	"github.com/velora-shop/velora/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetAnnouncement returns the announcement bar settings, falling back to
// sane defaults before the admin has saved anything
func GetAnnouncement(c *gin.Context) {
	var announcement models.Announcement
	err := config.DB.First(&announcement, models.SingletonSettingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		announcement = models.Announcement{
			ID:              models.SingletonSettingID,
			Text:            "",
			BackgroundColor: "#000000",
			TextColor:       "#ffffff",
			Enabled:         false,
			AnimationType:   "none",
		}
	} else if err != nil {
		utils.LogError("Failed to load announcement: %v", err)
		utils.InternalServerError(c, "Failed to load announcement", nil)
		return
	}

	utils.Success(c, "Announcement retrieved successfully", announcement)
}

// AnnouncementRequest represents the announcement bar update body
type AnnouncementRequest struct {
	Text            string `json:"text"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	Enabled         bool   `json:"enabled"`
	AnimationType   string `json:"animation_type"`
}

// UpdateAnnouncement upserts the single announcement row
func UpdateAnnouncement(c *gin.Context) {
	utils.LogInfo("UpdateAnnouncement called")

	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	announcement := models.Announcement{
		ID:              models.SingletonSettingID,
		Text:            req.Text,
		BackgroundColor: req.BackgroundColor,
		TextColor:       req.TextColor,
		Enabled:         req.Enabled,
		AnimationType:   req.AnimationType,
	}
	if err := config.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&announcement).Error; err != nil {
		utils.LogError("Failed to save announcement: %v", err)
		utils.InternalServerError(c, "Failed to save announcement", nil)
		return
	}

	utils.Success(c, "Announcement updated successfully", announcement)
}

// GetCountdown returns the countdown banner, or a disabled placeholder
// when none is configured
func GetCountdown(c *gin.Context) {
	var countdown models.Countdown
	err := config.DB.Order("id asc").First(&countdown).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Success(c, "No countdown configured", gin.H{"enabled": false})
		return
	}
	if err != nil {
		utils.LogError("Failed to load countdown: %v", err)
		utils.InternalServerError(c, "Failed to load countdown", nil)
		return
	}

	utils.Success(c, "Countdown retrieved successfully", countdown)
}

// CountdownRequest represents the countdown banner update body
type CountdownRequest struct {
	Title           string    `json:"title" binding:"required"`
	EndDate         time.Time `json:"end_date" binding:"required"`
	Enabled         bool      `json:"enabled"`
	BackgroundColor string    `json:"background_color"`
	TextColor       string    `json:"text_color"`
}

// SaveCountdown replaces the countdown banner. Only one row is kept.
func SaveCountdown(c *gin.Context) {
	utils.LogInfo("SaveCountdown called")

	var req CountdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var countdown models.Countdown
	err := config.DB.Order("id asc").First(&countdown).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.InternalServerError(c, "Failed to save countdown", nil)
		return
	}

	countdown.Title = req.Title
	countdown.EndDate = req.EndDate
	countdown.Enabled = req.Enabled
	countdown.BackgroundColor = req.BackgroundColor
	countdown.TextColor = req.TextColor

	if err := config.DB.Save(&countdown).Error; err != nil {
		utils.LogError("Failed to save countdown: %v", err)
		utils.InternalServerError(c, "Failed to save countdown", nil)
		return
	}

	utils.Success(c, "Countdown saved successfully", countdown)
}

// GetVisitorCountSetting returns the live-visitor counter range, seeding
// the default 10..50 range on first read
func GetVisitorCountSetting(c *gin.Context) {
	var setting models.VisitorCountSetting
	err := config.DB.First(&setting, models.SingletonSettingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.VisitorCountSetting{
			ID:      models.SingletonSettingID,
			Enabled: false,
			Min:     10,
			Max:     50,
		}
	} else if err != nil {
		utils.LogError("Failed to load visitor count setting: %v", err)
		utils.InternalServerError(c, "Failed to load visitor count setting", nil)
		return
	}

	utils.Success(c, "Visitor count setting retrieved successfully", setting)
}

// VisitorCountRequest represents the visitor counter update body
type VisitorCountRequest struct {
	Enabled bool `json:"enabled"`
	Min     int  `json:"min" binding:"min=0"`
	Max     int  `json:"max" binding:"min=0"`
}

// UpdateVisitorCountSetting upserts the visitor counter range
func UpdateVisitorCountSetting(c *gin.Context) {
	utils.LogInfo("UpdateVisitorCountSetting called")

	var req VisitorCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if req.Min > req.Max {
		utils.BadRequest(c, "min cannot exceed max", nil)
		return
	}

	setting := models.VisitorCountSetting{
		ID:      models.SingletonSettingID,
		Enabled: req.Enabled,
		Min:     req.Min,
		Max:     req.Max,
	}
	if err := config.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&setting).Error; err != nil {
		utils.LogError("Failed to save visitor count setting: %v", err)
		utils.InternalServerError(c, "Failed to save visitor count setting", nil)
		return
	}

	utils.Success(c, "Visitor count setting updated successfully", setting)
}

// GetSetting returns one generic key-value setting
func GetSetting(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		utils.BadRequest(c, "Setting key is required", nil)
		return
	}

	var setting models.Setting
	if err := config.DB.First(&setting, "setting_key = ?", key).Error; err != nil {
		utils.NotFound(c, "Setting not found")
		return
	}

	utils.Success(c, "Setting retrieved successfully", setting)
}

// SettingRequest represents the generic setting update body
type SettingRequest struct {
	Value string `json:"value"`
}

// PutSetting upserts one generic key-value setting
func PutSetting(c *gin.Context) {
	utils.LogInfo("PutSetting called")

	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		utils.BadRequest(c, "Setting key is required", nil)
		return
	}

	var req SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	setting := models.Setting{Key: key, Value: req.Value}
	if err := config.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&setting).Error; err != nil {
		utils.LogError("Failed to save setting %s: %v", key, err)
		utils.InternalServerError(c, "Failed to save setting", nil)
		return
	}

	utils.Success(c, "Setting saved successfully", setting)
}
