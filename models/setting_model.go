package models

import "time"

// SettingsID is the primary key of the single site settings row.
const SettingsID = 1

type Setting struct {
	ID                uint      `gorm:"primaryKey" json:"-"`
	WhatsappNumber    string    `gorm:"size:30" json:"whatsapp_number"`
	LowStockThreshold int       `gorm:"not null;default:5" json:"low_stock_threshold"`
	InstagramURL      string    `gorm:"size:255" json:"instagram_url"`
	LinkedinURL       string    `gorm:"size:255" json:"linkedin_url"`
	UpdatedAt         time.Time `json:"updated_at"`
}
