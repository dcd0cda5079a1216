package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Kallolx/appointment-backend/internal/middleware"
	"github.com/Kallolx/appointment-backend/internal/models"
	"github.com/Kallolx/appointment-backend/internal/storage"
)

// SupportHandler handles support tickets.
type SupportHandler struct {
	store storage.Store
}

func NewSupportHandler(store storage.Store) *SupportHandler {
	return &SupportHandler{store: store}
}

// CreateTicket files a new ticket for the caller.
func (h *SupportHandler) CreateTicket(c *fiber.Ctx) error {
	var req struct {
		Subject  string `json:"subject"`
		Message  string `json:"message"`
		Priority string `json:"priority"`
	}
	if err := c.BodyParser(&req); err != nil || req.Subject == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Subject is required",
			"code":  "validation",
		})
	}

	ticket := &models.SupportTicket{
		UserID:   middleware.UserID(c),
		Subject:  req.Subject,
		Message:  req.Message,
		Status:   models.TicketStatusOpen,
		Priority: req.Priority,
	}
	if ticket.Priority == "" {
		ticket.Priority = "medium"
	}

	created, err := h.store.CreateSupportTicket(ticket)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create ticket",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Ticket created successfully",
		"ticket":  created,
	})
}

// ListTickets returns the caller's tickets.
func (h *SupportHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.store.GetTicketsByUser(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve tickets",
		})
	}

	return c.JSON(fiber.Map{
		"tickets": tickets,
		"count":   len(tickets),
	})
}

// AdminListTickets returns every ticket (admin).
func (h *SupportHandler) AdminListTickets(c *fiber.Ctx) error {
	tickets, err := h.store.GetAllTickets()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve tickets",
		})
	}

	return c.JSON(fiber.Map{
		"tickets": tickets,
		"count":   len(tickets),
	})
}

// AdminUpdateTicket sets status and reply on a ticket (admin).
func (h *SupportHandler) AdminUpdateTicket(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id",
			"code":  "validation",
		})
	}

	var req struct {
		Status string `json:"status"`
		Reply  string `json:"reply"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "validation",
		})
	}

	ticket, err := h.store.GetSupportTicket(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Ticket not found",
			"code":  "not_found",
		})
	}

	if req.Status != "" {
		switch req.Status {
		case models.TicketStatusOpen, models.TicketStatusInProgress,
			models.TicketStatusResolved, models.TicketStatusClosed:
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid status value",
				"code":  "validation",
			})
		}
		ticket.Status = req.Status
		if req.Status == models.TicketStatusResolved && ticket.ResolvedAt == nil {
			now := time.Now()
			ticket.ResolvedAt = &now
		}
	}
	if req.Reply != "" {
		ticket.Reply = req.Reply
	}

	if err := h.store.UpdateSupportTicket(ticket); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update ticket",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Ticket updated",
		"ticket":  ticket,
	})
}
