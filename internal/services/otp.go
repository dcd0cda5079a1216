package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Kallolx/appointment-backend/internal/otp"
	"github.com/Kallolx/appointment-backend/internal/utils"
)

const (
	otpTTL         = 5 * time.Minute
	otpMaxAttempts = 3
)

var (
	ErrOTPNotFound         = errors.New("no verification code pending for this phone")
	ErrOTPExpired          = errors.New("verification code expired")
	ErrOTPAttemptsExceeded = errors.New("too many failed attempts")
)

// OTPMismatchError reports a wrong code together with how many attempts the
// caller has left before the entry is invalidated.
type OTPMismatchError struct {
	Remaining int
}

func (e *OTPMismatchError) Error() string {
	return fmt.Sprintf("incorrect verification code, %d attempts remaining", e.Remaining)
}

// TemplateSender is the primary delivery channel (WhatsApp content template).
type TemplateSender interface {
	SendWhatsAppTemplate(to string, templateSID string, variables map[string]string) (string, error)
}

// PlainSender is the fallback delivery channel (plain SMS).
type PlainSender interface {
	SendSMS(to string, body string) (string, error)
}

// DeliveryOutcome reports which channel carried the code.
type DeliveryOutcome struct {
	Channel    string `json:"channel"` // "whatsapp" or "sms"
	MessageSID string `json:"message_sid,omitempty"`
}

// OTPService generates, delivers and verifies one-time codes. Codes live in
// the injected store; delivery goes WhatsApp first with SMS as fallback.
type OTPService struct {
	store       otp.Store
	whatsapp    TemplateSender
	sms         PlainSender
	templateSID string
}

func NewOTPService(store otp.Store, whatsapp TemplateSender, sms PlainSender, templateSID string) *OTPService {
	return &OTPService{
		store:       store,
		whatsapp:    whatsapp,
		sms:         sms,
		templateSID: templateSID,
	}
}

// Send generates a code for phone, stores it, then attempts delivery.
// The store write happens before any delivery attempt; a prior entry for the
// same phone is overwritten. Returns the channel that succeeded, or an error
// describing both channel failures.
func (s *OTPService) Send(phone string) (*DeliveryOutcome, error) {
	normalized, err := utils.NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	code, err := utils.GenerateOTPCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	s.store.Set(normalized, &otp.Entry{
		Code:      code,
		ExpiresAt: time.Now().Add(otpTTL),
		Attempts:  0,
	})

	sid, waErr := s.whatsapp.SendWhatsAppTemplate(normalized, s.templateSID, map[string]string{"1": code})
	if waErr == nil {
		return &DeliveryOutcome{Channel: "whatsapp", MessageSID: sid}, nil
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in 5 minutes.", code)
	sid, smsErr := s.sms.SendSMS(normalized, body)
	if smsErr == nil {
		return &DeliveryOutcome{Channel: "sms", MessageSID: sid}, nil
	}

	return nil, fmt.Errorf("delivery failed on both channels: whatsapp: %v; sms: %v", waErr, smsErr)
}

// Verify checks the submitted code against the pending entry for phone.
// The entry is consumed on success and invalidated on expiry or after the
// attempt limit; a wrong code returns *OTPMismatchError with the remaining
// attempt count.
func (s *OTPService) Verify(phone, submittedCode string) error {
	normalized, err := utils.NormalizePhone(phone)
	if err != nil {
		return err
	}

	entry, ok := s.store.Get(normalized)
	if !ok {
		return ErrOTPNotFound
	}

	if time.Now().After(entry.ExpiresAt) {
		s.store.Delete(normalized)
		return ErrOTPExpired
	}

	if entry.Attempts >= otpMaxAttempts {
		s.store.Delete(normalized)
		return ErrOTPAttemptsExceeded
	}

	if entry.Code == submittedCode {
		s.store.Delete(normalized)
		return nil
	}

	entry.Attempts++
	s.store.Set(normalized, entry)
	return &OTPMismatchError{Remaining: otpMaxAttempts - entry.Attempts}
}
