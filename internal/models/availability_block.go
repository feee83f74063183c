package models

import "time"

// AvailabilityBlock is a salon-wide closed period on a single date.
type AvailabilityBlock struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index:idx_blocks_salon_date" json:"salon_id"`

	Date      string `gorm:"column:block_date;size:10;not null;index:idx_blocks_salon_date" json:"block_date"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`
	Reason    string `gorm:"size:255" json:"reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
