package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type SupportTicket struct {
	gorm.Model
	TicketID   string     `gorm:"uniqueIndex;not null" json:"ticket_id"`
	UserID     uint       `gorm:"index;not null" json:"user_id"`
	Subject    string     `gorm:"not null" json:"subject"`
	Message    string     `gorm:"type:text" json:"message"`
	Status     string     `gorm:"default:'open'" json:"status"`     // open, in_progress, resolved, closed
	Priority   string     `gorm:"default:'medium'" json:"priority"` // low, medium, high, urgent
	Reply      string     `gorm:"type:text" json:"reply,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

func (st *SupportTicket) BeforeCreate(tx *gorm.DB) error {
	if st.TicketID == "" {
		st.TicketID = fmt.Sprintf("TK%d", time.Now().UnixNano())
	}
	return nil
}
