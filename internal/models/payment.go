package models

import (
	"gorm.io/gorm"
)

// Payment tracks one payment intent created at the gateway. OrderID is ours
// ("appointment_<id>" for appointment payments); PaymentID is the gateway's
// reference. Amount is in major currency units with 2 fraction digits; the
// gateway speaks minor units (fils), converted at the client boundary.
type Payment struct {
	gorm.Model
	UserID        uint    `gorm:"index;not null" json:"user_id"`
	OrderID       string  `gorm:"uniqueIndex;not null" json:"order_id"`
	PaymentID     string  `gorm:"index" json:"payment_id"`
	Amount        float64 `gorm:"type:decimal(10,2)" json:"amount"`
	Currency      string  `gorm:"size:3;default:'AED'" json:"currency"`
	Status        string  `gorm:"default:'pending'" json:"status"`
	PaymentMethod string  `json:"payment_method,omitempty"`
}

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
)
