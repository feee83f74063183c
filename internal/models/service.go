package models

import "time"

type Service struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index" json:"salon_id"`

	Name         string  `gorm:"size:100;not null" json:"name"`
	Description  string  `gorm:"size:255" json:"description"`
	Category     string  `gorm:"size:50" json:"category"`
	DurationMin  int     `gorm:"not null" json:"duration"`
	Price        float64 `json:"price"`
	Active       bool    `gorm:"default:true" json:"is_active"`
	DisplayOrder int     `gorm:"default:0" json:"display_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
