package models

import (
	"gorm.io/gorm"
)

// AvailableDate marks a calendar day as bookable, optionally for a single
// service category. A nil ServiceCategoryID means the date applies to all
// categories. MaxAppointments is informational and not enforced anywhere in
// the booking path.
type AvailableDate struct {
	gorm.Model
	Date              string `gorm:"size:10;index;not null" json:"date"` // YYYY-MM-DD
	ServiceCategoryID *uint  `gorm:"index" json:"service_category_id"`
	IsAvailable       bool   `json:"is_available"`
	MaxAppointments   int    `gorm:"default:0" json:"max_appointments"`
}

// AvailableTimeSlot is a bookable intraday window on a date. Times are
// zero-padded 24-hour HH:MM strings so lexicographic order is time order.
// No two available slots on the same date and category scope may overlap.
type AvailableTimeSlot struct {
	gorm.Model
	Date              string  `gorm:"size:10;index;not null" json:"date"`
	StartTime         string  `gorm:"size:5;not null" json:"start_time"` // HH:MM
	EndTime           string  `gorm:"size:5;not null" json:"end_time"`   // HH:MM
	IsAvailable       bool    `json:"is_available"`
	ExtraPrice        float64 `gorm:"type:decimal(10,2);default:0" json:"extra_price"`
	ServiceCategoryID *uint   `gorm:"index" json:"service_category_id"`
}
