package models

import (
	"gorm.io/gorm"
)

// Appointment is a booked service visit. Dates are stored as YYYY-MM-DD and
// times as 24-hour HH:MM:SS strings so they round-trip independent of the
// server timezone. Location is a JSON blob supplied by the client.
type Appointment struct {
	gorm.Model
	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Service     string `gorm:"not null" json:"service"`
	ServiceSlug string `json:"service_slug,omitempty"`

	AppointmentDate string `gorm:"size:10;index;not null" json:"appointment_date"` // YYYY-MM-DD
	AppointmentTime string `gorm:"size:8;not null" json:"appointment_time"`        // HH:MM:SS

	// Nominal lifecycle: pending -> confirmed -> in-progress -> completed,
	// cancellable from any non-terminal state. Not enforced: admins may set
	// any of the five statuses directly.
	Status string `gorm:"default:'pending'" json:"status"`

	Location string  `gorm:"type:text" json:"location"` // serialized address JSON
	Price    float64 `gorm:"type:decimal(10,2)" json:"price"`

	RoomType            string  `json:"room_type,omitempty"`
	RoomTypeSlug        string  `json:"room_type_slug,omitempty"`
	PropertyType        string  `json:"property_type,omitempty"`
	PropertyTypeSlug    string  `json:"property_type_slug,omitempty"`
	Quantity            int     `gorm:"default:1" json:"quantity"`
	ServiceCategory     string  `json:"service_category,omitempty"`
	ServiceCategorySlug string  `json:"service_category_slug,omitempty"`
	ExtraPrice          float64 `gorm:"type:decimal(10,2);default:0" json:"extra_price"`
	CodFee              float64 `gorm:"type:decimal(10,2);default:0" json:"cod_fee"`
	PaymentMethod       string  `json:"payment_method,omitempty"`
	Notes               string  `gorm:"type:text" json:"notes,omitempty"`
}

const (
	AppointmentStatusPending    = "pending"
	AppointmentStatusConfirmed  = "confirmed"
	AppointmentStatusInProgress = "in-progress"
	AppointmentStatusCompleted  = "completed"
	AppointmentStatusCancelled  = "cancelled"
)

// ValidAppointmentStatus reports whether s is one of the five defined statuses.
func ValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusInProgress, AppointmentStatusCompleted,
		AppointmentStatusCancelled:
		return true
	}
	return false
}
