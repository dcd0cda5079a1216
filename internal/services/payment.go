package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/Kallolx/appointment-backend/internal/config"
	"github.com/Kallolx/appointment-backend/internal/models"
	"github.com/Kallolx/appointment-backend/internal/storage"
)

// PaymentService creates payment intents at the gateway, tracks their local
// Payment rows and applies webhook status changes to appointments.
type PaymentService struct {
	store      storage.Store
	gateway    Gateway
	currency   string
	successURL string
	cancelURL  string
}

func NewPaymentService(store storage.Store, gateway Gateway, cfg config.PaymentConfig) *PaymentService {
	return &PaymentService{
		store:      store,
		gateway:    gateway,
		currency:   cfg.Currency,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

// toMinorUnits converts a major-unit amount to minor units (fils).
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateAppointmentIntent asks the gateway for a payment intent covering the
// appointment's total and records a pending Payment. The order id ties the
// gateway payment back to the appointment.
func (s *PaymentService) CreateAppointmentIntent(userID, appointmentID uint) (*models.Payment, string, error) {
	appointment, err := s.store.GetAppointment(appointmentID)
	if err != nil || appointment.UserID != userID {
		return nil, "", ErrNotFoundOrForbidden
	}

	total := appointment.Price + appointment.ExtraPrice + appointment.CodFee
	orderID := fmt.Sprintf("appointment_%d", appointmentID)

	intent, err := s.gateway.CreateIntent(toMinorUnits(total), s.currency, s.successURL, s.cancelURL)
	if err != nil {
		return nil, "", err
	}

	payment := &models.Payment{
		UserID:    userID,
		OrderID:   orderID,
		PaymentID: intent.ID,
		Amount:    total,
		Currency:  s.currency,
		Status:    models.PaymentStatusPending,
	}
	if _, err := s.store.CreatePayment(payment); err != nil {
		// An earlier intent for the same appointment already holds the order
		// id; reuse its row with the fresh gateway reference.
		if errors.Is(err, storage.ErrDuplicate) {
			existing, getErr := s.store.GetPaymentByOrderID(orderID)
			if getErr != nil {
				return nil, "", getErr
			}
			existing.PaymentID = intent.ID
			existing.Status = models.PaymentStatusPending
			existing.Amount = total
			if err := s.store.UpdatePayment(existing); err != nil {
				return nil, "", err
			}
			return existing, intent.RedirectURL, nil
		}
		return nil, "", err
	}

	return payment, intent.RedirectURL, nil
}

// RefreshStatus polls the gateway for the payment behind orderID and syncs
// the local row, applying the appointment transition on completion.
func (s *PaymentService) RefreshStatus(orderID string) (*models.Payment, error) {
	payment, err := s.store.GetPaymentByOrderID(orderID)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.GetIntent(payment.PaymentID)
	if err != nil {
		return nil, err
	}

	status := normalizeGatewayStatus(intent.Status)
	if status != payment.Status {
		payment.Status = status
		payment.Amount = float64(intent.Amount) / 100
		if err := s.store.UpdatePayment(payment); err != nil {
			return nil, err
		}
		if status == models.PaymentStatusCompleted {
			s.confirmLinkedAppointment(payment.OrderID)
		}
	}

	return payment, nil
}

// WebhookPayload is the inbound gateway notification.
type WebhookPayload struct {
	Status    string  `json:"status"`
	OrderID   string  `json:"order_id"`
	PaymentID string  `json:"payment_id"`
	Amount    int64   `json:"amount"`
	Currency  string  `json:"currency_code"`
	Method    string  `json:"payment_method"`
	Event     string  `json:"event,omitempty"`
}

// ProcessWebhook applies an inbound gateway notification. A completed payment
// carrying an "appointment_<id>" order id forces that appointment to
// confirmed, regardless of its current status.
func (s *PaymentService) ProcessWebhook(body []byte) error {
	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("failed to parse webhook: %w", err)
	}
	if payload.OrderID == "" {
		return fmt.Errorf("webhook missing order_id")
	}

	log.Printf("Processing payment webhook: order=%s status=%s", payload.OrderID, payload.Status)

	status := normalizeGatewayStatus(payload.Status)

	payment, err := s.store.GetPaymentByOrderID(payload.OrderID)
	if err == nil {
		payment.Status = status
		if payload.PaymentID != "" {
			payment.PaymentID = payload.PaymentID
		}
		if payload.Amount > 0 {
			payment.Amount = float64(payload.Amount) / 100
		}
		if payload.Method != "" {
			payment.PaymentMethod = payload.Method
		}
		if err := s.store.UpdatePayment(payment); err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	if status == models.PaymentStatusCompleted {
		s.confirmLinkedAppointment(payload.OrderID)
	}
	return nil
}

// confirmLinkedAppointment forces the appointment referenced by an
// "appointment_<id>" order id to confirmed. Reapplication is an idempotent
// overwrite; failures are logged, never propagated to the webhook response.
func (s *PaymentService) confirmLinkedAppointment(orderID string) {
	idStr, ok := strings.CutPrefix(orderID, "appointment_")
	if !ok {
		return
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		log.Printf("⚠️  Ignoring malformed appointment order id: %s", orderID)
		return
	}

	appointment, err := s.store.GetAppointment(uint(id))
	if err != nil {
		log.Printf("⚠️  Payment completed for unknown appointment %d", id)
		return
	}

	appointment.Status = models.AppointmentStatusConfirmed
	if err := s.store.UpdateAppointment(appointment); err != nil {
		log.Printf("❌ Failed to confirm appointment %d after payment: %v", id, err)
		return
	}
	log.Printf("✅ Appointment %d confirmed by payment %s", id, orderID)
}

func normalizeGatewayStatus(raw string) string {
	switch strings.ToLower(raw) {
	case "completed", "paid", "captured", "success":
		return models.PaymentStatusCompleted
	case "failed", "declined", "error":
		return models.PaymentStatusFailed
	case "cancelled", "canceled", "voided":
		return models.PaymentStatusCancelled
	default:
		return models.PaymentStatusPending
	}
}
