package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SalonID uint  `gorm:"index:idx_appointments_salon_date" json:"salon_id"`
	Salon   Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	ClientName  string `gorm:"size:100;not null" json:"client_name"`
	ClientEmail string `gorm:"size:100;not null" json:"client_email"`
	ClientPhone string `gorm:"size:20" json:"client_phone,omitempty"`

	// Naive wall-clock values; no timezone conversion is applied.
	Date      string `gorm:"column:appointment_date;size:10;not null;index:idx_appointments_salon_date" json:"appointment_date"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	// Minutes from midnight, mirrored from StartTime/EndTime for the
	// overlap constraint.
	StartMinute int `gorm:"not null" json:"-"`
	EndMinute   int `gorm:"not null" json:"-"`

	Status string `gorm:"size:20;default:'confirmed';index" json:"status"`

	Notes             string     `gorm:"size:255" json:"notes,omitempty"`
	CancellationToken string     `gorm:"size:36;uniqueIndex" json:"-"`
	CancelledAt       *time.Time `json:"cancelled_at"`
	CompletedAt       *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
