package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Kallolx/appointment-backend/internal/models"
	"github.com/Kallolx/appointment-backend/internal/services"
	"github.com/Kallolx/appointment-backend/internal/storage"
)

// AvailabilityHandler exposes the bookable dates and slots, plus their admin
// CRUD.
type AvailabilityHandler struct {
	availability *services.AvailabilityService
}

func NewAvailabilityHandler(availability *services.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// categoryFilter translates the tri-state category_id query parameter once:
// absent means no filter, "" or "null" means uncategorized rows only, and a
// numeric id restricts to that category.
func categoryFilter(c *fiber.Ctx) (storage.CategoryFilter, error) {
	if !c.Request().URI().QueryArgs().Has("category_id") {
		return storage.FilterAll(), nil
	}
	raw := c.Query("category_id")
	if raw == "" || raw == "null" {
		return storage.FilterUncategorized(), nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return storage.CategoryFilter{}, errors.New("category_id must be a number, empty, or \"null\"")
	}
	return storage.FilterCategory(uint(id)), nil
}

// ListDates returns upcoming available dates.
func (h *AvailabilityHandler) ListDates(c *fiber.Ctx) error {
	filter, err := categoryFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "validation",
		})
	}

	dates, err := h.availability.ListDates(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve available dates",
		})
	}

	return c.JSON(fiber.Map{
		"dates": dates,
		"count": len(dates),
	})
}

// ListSlots returns available time slots for one date.
func (h *AvailabilityHandler) ListSlots(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "date is required",
			"code":  "validation",
		})
	}

	filter, err := categoryFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "validation",
		})
	}

	slots, err := h.availability.ListSlots(date, filter)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "validation",
		})
	}

	return c.JSON(fiber.Map{
		"slots": slots,
		"count": len(slots),
	})
}

// CreateDate adds a bookable date (admin).
func (h *AvailabilityHandler) CreateDate(c *fiber.Ctx) error {
	var req struct {
		Date              string `json:"date"`
		ServiceCategoryID *uint  `json:"service_category_id"`
		IsAvailable       *bool  `json:"is_available"`
		MaxAppointments   int    `json:"max_appointments"`
	}
	if err := c.BodyParser(&req); err != nil || req.Date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "date is required",
			"code":  "validation",
		})
	}

	date := &models.AvailableDate{
		Date:              req.Date,
		ServiceCategoryID: req.ServiceCategoryID,
		IsAvailable:       true,
		MaxAppointments:   req.MaxAppointments,
	}
	if req.IsAvailable != nil {
		date.IsAvailable = *req.IsAvailable
	}

	created, err := h.availability.CreateDate(date)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateDate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Date already exists for this category",
				"code":  "conflict",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "validation",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Available date created",
		"date":    created,
	})
}

// UpdateDate patches a date row (admin).
func (h *AvailabilityHandler) UpdateDate(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id",
			"code":  "validation",
		})
	}

	var patch services.DatePatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "validation",
		})
	}

	updated, err := h.availability.UpdateDate(id, patch)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Date not found",
				"code":  "not_found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "validation",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Available date updated",
		"date":    updated,
	})
}

// DeleteDate removes a date row (admin).
func (h *AvailabilityHandler) DeleteDate(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id",
			"code":  "validation",
		})
	}

	if err := h.availability.DeleteDate(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Date not found",
			"code":  "not_found",
		})
	}

	return c.JSON(fiber.Map{"message": "Available date deleted"})
}

// CreateSlot adds a time slot (admin).
func (h *AvailabilityHandler) CreateSlot(c *fiber.Ctx) error {
	var req struct {
		Date              string  `json:"date"`
		StartTime         string  `json:"start_time"`
		EndTime           string  `json:"end_time"`
		IsAvailable       *bool   `json:"is_available"`
		ExtraPrice        float64 `json:"extra_price"`
		ServiceCategoryID *uint   `json:"service_category_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "validation",
		})
	}
	if req.Date == "" || req.StartTime == "" || req.EndTime == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "date, start_time and end_time are required",
			"code":  "validation",
		})
	}

	slot := &models.AvailableTimeSlot{
		Date:              req.Date,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		IsAvailable:       true,
		ExtraPrice:        req.ExtraPrice,
		ServiceCategoryID: req.ServiceCategoryID,
	}
	if req.IsAvailable != nil {
		slot.IsAvailable = *req.IsAvailable
	}

	created, err := h.availability.CreateSlot(slot)
	if err != nil {
		if errors.Is(err, services.ErrSlotOverlap) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
				"code":  "conflict",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "validation",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Time slot created",
		"slot":    created,
	})
}

// UpdateSlot patches a slot (admin).
func (h *AvailabilityHandler) UpdateSlot(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id",
			"code":  "validation",
		})
	}

	var patch services.SlotPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "validation",
		})
	}

	updated, err := h.availability.UpdateSlot(id, patch)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Time slot not found",
				"code":  "not_found",
			})
		case errors.Is(err, services.ErrSlotOverlap):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
				"code":  "conflict",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "validation",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Time slot updated",
		"slot":    updated,
	})
}

// DeleteSlot removes a slot (admin).
func (h *AvailabilityHandler) DeleteSlot(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id",
			"code":  "validation",
		})
	}

	if err := h.availability.DeleteSlot(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Time slot not found",
			"code":  "not_found",
		})
	}

	return c.JSON(fiber.Map{"message": "Time slot deleted"})
}

// parseIDParam reads the :id path parameter as a uint.
func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
