package models

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/availability"
)

type Salon struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Slug     string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Email    string `gorm:"size:100" json:"email"`
	Phone    string `gorm:"size:20" json:"phone"`
	Address  string `gorm:"size:255" json:"address"`
	Timezone string `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`
	LogoURL  string `gorm:"size:255" json:"logo_url"`

	BusinessHours availability.BusinessHours `gorm:"type:jsonb;serializer:json" json:"business_hours"`

	BookingBufferMin  int `gorm:"default:0" json:"booking_buffer"`
	CancellationHours int `gorm:"default:24" json:"cancellation_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
