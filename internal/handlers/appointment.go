package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Kallolx/appointment-backend/internal/middleware"
	"github.com/Kallolx/appointment-backend/internal/services"
	"github.com/Kallolx/appointment-backend/internal/storage"
)

// AppointmentHandler handles booking requests.
type AppointmentHandler struct {
	booking *services.BookingService
}

func NewAppointmentHandler(booking *services.BookingService) *AppointmentHandler {
	return &AppointmentHandler{booking: booking}
}

// Create books a new appointment for the authenticated user.
func (h *AppointmentHandler) Create(c *fiber.Ctx) error {
	var input services.AppointmentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "validation",
		})
	}

	appointment, err := h.booking.Create(middleware.UserID(c), input)
	if err != nil {
		var validation *services.ValidationError
		switch {
		case errors.As(err, &validation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": validation.Error(),
				"code":  "validation",
			})
		case errors.Is(err, services.ErrSlotNotBookable):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Requested time is not an available slot",
				"code":  "conflict",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create appointment",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Appointment created successfully",
		"appointment": appointment,
	})
}

// List returns the caller's appointments.
func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	appointments, err := h.booking.ListByUser(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve appointments",
		})
	}

	return c.JSON(fiber.Map{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// Update reschedules or changes status on the caller's own appointment.
func (h *AppointmentHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id",
			"code":  "validation",
		})
	}

	var patch services.AppointmentPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "validation",
		})
	}

	appointment, err := h.booking.Update(id, middleware.UserID(c), patch)
	if err != nil {
		return appointmentUpdateError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Appointment updated",
		"appointment": appointment,
	})
}

// Cancel sets the caller's appointment to cancelled.
func (h *AppointmentHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id",
			"code":  "validation",
		})
	}

	appointment, err := h.booking.Cancel(id, middleware.UserID(c))
	if err != nil {
		return appointmentUpdateError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Appointment cancelled",
		"appointment": appointment,
	})
}

// AdminList returns all appointments (admin).
func (h *AppointmentHandler) AdminList(c *fiber.Ctx) error {
	appointments, err := h.booking.ListAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve appointments",
		})
	}

	return c.JSON(fiber.Map{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// AdminSetStatus transitions an appointment's status (admin).
func (h *AppointmentHandler) AdminSetStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id",
			"code":  "validation",
		})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "validation",
		})
	}

	appointment, err := h.booking.SetStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid status value",
				"code":  "validation",
			})
		case errors.Is(err, storage.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Appointment not found",
				"code":  "not_found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update status",
		})
	}

	return c.JSON(fiber.Map{
		"message":     "Appointment status updated",
		"appointment": appointment,
	})
}

func appointmentUpdateError(c *fiber.Ctx, err error) error {
	var validation *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFoundOrForbidden):
		// One answer for unknown ids and other users' appointments.
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment not found or not yours",
			"code":  "not_found",
		})
	case errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status value",
			"code":  "validation",
		})
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validation.Error(),
			"code":  "validation",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to update appointment",
	})
}
