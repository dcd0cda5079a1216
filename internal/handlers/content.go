package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Kallolx/appointment-backend/internal/models"
	"github.com/Kallolx/appointment-backend/internal/storage"
)

// ContentHandler covers the catalog and content plumbing: service
// categories, property/room types, pricing, pages and settings.
type ContentHandler struct {
	store storage.Store
}

func NewContentHandler(store storage.Store) *ContentHandler {
	return &ContentHandler{store: store}
}

// ListCategories returns active service categories.
func (h *ContentHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.store.ListServiceCategories(!c.QueryBool("include_inactive"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve categories",
		})
	}

	return c.JSON(fiber.Map{
		"categories": categories,
		"count":      len(categories),
	})
}

// CreateCategory adds a service category (admin).
func (h *ContentHandler) CreateCategory(c *fiber.Ctx) error {
	var req models.ServiceCategory
	if err := c.BodyParser(&req); err != nil || req.Name == "" || req.Slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and slug are required",
			"code":  "validation",
		})
	}

	req.ID = 0
	req.IsActive = true
	created, err := h.store.CreateServiceCategory(&req)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Category slug already exists",
				"code":  "conflict",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create category",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Category created",
		"category": created,
	})
}

// UpdateCategory patches a category (admin).
func (h *ContentHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id",
			"code":  "validation",
		})
	}

	category, err := h.store.GetServiceCategory(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Category not found",
			"code":  "not_found",
		})
	}

	var req struct {
		Name        *string `json:"name"`
		Slug        *string `json:"slug"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "validation",
		})
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Slug != nil {
		category.Slug = *req.Slug
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := h.store.UpdateServiceCategory(category); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Category slug already exists",
				"code":  "conflict",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update category",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Category updated",
		"category": category,
	})
}

// DeleteCategory removes a category (admin).
func (h *ContentHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id",
			"code":  "validation",
		})
	}

	if err := h.store.DeleteServiceCategory(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Category not found",
			"code":  "not_found",
		})
	}

	return c.JSON(fiber.Map{"message": "Category deleted"})
}

// ListPropertyTypes returns a category's property types.
func (h *ContentHandler) ListPropertyTypes(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id",
			"code":  "validation",
		})
	}

	types, err := h.store.ListPropertyTypes(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve property types",
		})
	}

	return c.JSON(fiber.Map{"property_types": types})
}

// ReplacePropertyTypes swaps a category's property types atomically (admin).
func (h *ContentHandler) ReplacePropertyTypes(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id",
			"code":  "validation",
		})
	}

	var req struct {
		PropertyTypes []models.PropertyType `json:"property_types"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "validation",
		})
	}

	if _, err := h.store.GetServiceCategory(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Category not found",
			"code":  "not_found",
		})
	}

	if err := h.store.ReplacePropertyTypes(id, req.PropertyTypes); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to replace property types",
		})
	}

	types, _ := h.store.ListPropertyTypes(id)
	return c.JSON(fiber.Map{
		"message":        "Property types replaced",
		"property_types": types,
	})
}

// ListRoomTypes returns a category's room types.
func (h *ContentHandler) ListRoomTypes(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id",
			"code":  "validation",
		})
	}

	types, err := h.store.ListRoomTypes(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve room types",
		})
	}

	return c.JSON(fiber.Map{"room_types": types})
}

// ReplaceRoomTypes swaps a category's room types atomically (admin).
func (h *ContentHandler) ReplaceRoomTypes(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id",
			"code":  "validation",
		})
	}

	var req struct {
		RoomTypes []models.RoomType `json:"room_types"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "validation",
		})
	}

	if _, err := h.store.GetServiceCategory(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Category not found",
			"code":  "not_found",
		})
	}

	if err := h.store.ReplaceRoomTypes(id, req.RoomTypes); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to replace room types",
		})
	}

	types, _ := h.store.ListRoomTypes(id)
	return c.JSON(fiber.Map{
		"message":    "Room types replaced",
		"room_types": types,
	})
}

// ListPricing returns pricing rows, optionally scoped to one category.
func (h *ContentHandler) ListPricing(c *fiber.Ctx) error {
	var categoryID uint
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "category_id must be a number",
				"code":  "validation",
			})
		}
		categoryID = uint(parsed)
	}

	pricing, err := h.store.ListServicePricing(categoryID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve pricing",
		})
	}

	return c.JSON(fiber.Map{"pricing": pricing})
}

// CreatePricing adds a pricing row (admin).
func (h *ContentHandler) CreatePricing(c *fiber.Ctx) error {
	var req models.ServicePricing
	if err := c.BodyParser(&req); err != nil || req.Name == "" || req.ServiceCategoryID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and service_category_id are required",
			"code":  "validation",
		})
	}

	req.ID = 0
	created, err := h.store.CreateServicePricing(&req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create pricing",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Pricing created",
		"pricing": created,
	})
}

// UpdatePricing patches a pricing row (admin).
func (h *ContentHandler) UpdatePricing(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id",
			"code":  "validation",
		})
	}

	var req struct {
		Name  *string  `json:"name"`
		Slug  *string  `json:"slug"`
		Price *float64 `json:"price"`
		Unit  *string  `json:"unit"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "validation",
		})
	}

	target, err := h.store.GetServicePricing(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Pricing not found",
			"code":  "not_found",
		})
	}

	if req.Name != nil {
		target.Name = *req.Name
	}
	if req.Slug != nil {
		target.Slug = *req.Slug
	}
	if req.Price != nil {
		target.Price = *req.Price
	}
	if req.Unit != nil {
		target.Unit = *req.Unit
	}

	if err := h.store.UpdateServicePricing(target); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update pricing",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Pricing updated",
		"pricing": target,
	})
}

// DeletePricing removes a pricing row (admin).
func (h *ContentHandler) DeletePricing(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id",
			"code":  "validation",
		})
	}

	if err := h.store.DeleteServicePricing(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Pricing not found",
			"code":  "not_found",
		})
	}

	return c.JSON(fiber.Map{"message": "Pricing deleted"})
}

// GetPage returns one content page by slug.
func (h *ContentHandler) GetPage(c *fiber.Ctx) error {
	page, err := h.store.GetContentPage(c.Params("slug"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Page not found",
			"code":  "not_found",
		})
	}

	return c.JSON(fiber.Map{"page": page})
}

// UpsertPage creates or replaces a content page (admin).
func (h *ContentHandler) UpsertPage(c *fiber.Ctx) error {
	var req models.ContentPage
	if err := c.BodyParser(&req); err != nil || req.Slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Slug is required",
			"code":  "validation",
		})
	}

	req.ID = 0
	page, err := h.store.UpsertContentPage(&req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save page",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Page saved",
		"page":    page,
	})
}

// ListSettings returns all website settings.
func (h *ContentHandler) ListSettings(c *fiber.Ctx) error {
	settings, err := h.store.ListWebsiteSettings()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve settings",
		})
	}

	return c.JSON(fiber.Map{"settings": settings})
}

// UpsertSetting creates or replaces one setting (admin).
func (h *ContentHandler) UpsertSetting(c *fiber.Ctx) error {
	var req struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil || req.Key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Key is required",
			"code":  "validation",
		})
	}

	setting, err := h.store.UpsertWebsiteSetting(req.Key, req.Value)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save setting",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Setting saved",
		"setting": setting,
	})
}
