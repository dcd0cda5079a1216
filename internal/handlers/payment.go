package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Kallolx/appointment-backend/internal/middleware"
	"github.com/Kallolx/appointment-backend/internal/services"
	"github.com/Kallolx/appointment-backend/internal/storage"
)

// PaymentHandler exposes payment intents and the gateway webhook.
type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreateIntent starts a gateway payment for the caller's appointment and
// returns the redirect URL.
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id",
			"code":  "validation",
		})
	}

	payment, redirectURL, err := h.payments.CreateAppointmentIntent(middleware.UserID(c), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFoundOrForbidden) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Appointment not found or not yours",
				"code":  "not_found",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Payment gateway unavailable",
			"code":  "upstream",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment":      payment,
		"redirect_url": redirectURL,
	})
}

// GetStatus polls the gateway and returns the synced payment.
func (h *PaymentHandler) GetStatus(c *fiber.Ctx) error {
	orderID := c.Params("orderID")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Order ID is required",
			"code":  "validation",
		})
	}

	payment, err := h.payments.RefreshStatus(orderID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Payment not found",
				"code":  "not_found",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Payment gateway unavailable",
			"code":  "upstream",
		})
	}

	return c.JSON(fiber.Map{"payment": payment})
}

// Webhook receives gateway status notifications. Unknown order references are
// acknowledged with 200 so the gateway stops retrying; bad payloads and
// store failures return 400 so it retries the delivery.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	if err := h.payments.ProcessWebhook(c.Body()); err != nil {
		log.Printf("❌ Payment webhook rejected: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
			"code":  "validation",
		})
	}

	return c.JSON(fiber.Map{"received": true})
}
