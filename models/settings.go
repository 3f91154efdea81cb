package models

import "time"

// SingletonSettingID is the fixed primary key used by the singleton
// settings rows (announcement bar, visitor counter).
const SingletonSettingID uint = 1

// Announcement is the site-wide announcement bar. A single row with a
// fixed ID backs it.
type Announcement struct {
	ID              uint   `gorm:"primaryKey" json:"-"`
	Text            string `json:"text"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	Enabled         bool   `json:"enabled"`
	AnimationType   string `json:"animation_type"`
}

// Countdown is the promotional countdown banner. The first row wins.
type Countdown struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `json:"title"`
	EndDate         time.Time `json:"end_date"`
	Enabled         bool      `json:"enabled"`
	BackgroundColor string    `json:"background_color"`
	TextColor       string    `json:"text_color"`
}

// VisitorCountSetting configures the fake live-visitor counter range
type VisitorCountSetting struct {
	ID      uint `gorm:"primaryKey" json:"-"`
	Enabled bool `json:"enabled"`
	Min     int  `json:"min"`
	Max     int  `json:"max"`
}

// Setting is a generic key-value configuration row (e.g. a tracking
// pixel ID). The key column is named explicitly to dodge the SQL
// reserved word.
type Setting struct {
	Key   string `gorm:"column:setting_key;primaryKey" json:"key"`
	Value string `json:"value"`
}
