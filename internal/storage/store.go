package storage

import (
	"errors"

	"github.com/Kallolx/appointment-backend/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned on unique-constraint conflicts (phone, email,
	// date, slug) so callers can answer 409 instead of a generic failure.
	ErrDuplicate = errors.New("duplicate record")
)

// CategoryScope selects how a listing is filtered by service category.
type CategoryScope int

const (
	// AllCategories applies no category predicate.
	AllCategories CategoryScope = iota
	// UncategorizedOnly matches rows with a null category only.
	UncategorizedOnly
	// SpecificCategory matches rows for exactly one category id.
	SpecificCategory
)

// CategoryFilter is the explicit form of the category query parameter:
// absent, "null"/"" or a real id. Handlers translate the sentinels once;
// everything below works with this type.
type CategoryFilter struct {
	Scope CategoryScope
	ID    uint
}

func FilterAll() CategoryFilter           { return CategoryFilter{Scope: AllCategories} }
func FilterUncategorized() CategoryFilter { return CategoryFilter{Scope: UncategorizedOnly} }
func FilterCategory(id uint) CategoryFilter {
	return CategoryFilter{Scope: SpecificCategory, ID: id}
}

// Store defines the interface for storage operations.
type Store interface {
	// User operations
	CreateUser(user *models.User) (*models.User, error)
	GetUser(id uint) (*models.User, error)
	GetUserByPhone(phone string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(user *models.User) error

	// Available date operations
	ListAvailableDates(fromDate string, filter CategoryFilter) ([]*models.AvailableDate, error)
	GetAvailableDate(id uint) (*models.AvailableDate, error)
	FindAvailableDate(date string, categoryID *uint) (*models.AvailableDate, error)
	CreateAvailableDate(d *models.AvailableDate) (*models.AvailableDate, error)
	UpdateAvailableDate(d *models.AvailableDate) error
	DeleteAvailableDate(id uint) error

	// Time slot operations
	ListAvailableTimeSlots(date string, filter CategoryFilter) ([]*models.AvailableTimeSlot, error)
	ListTimeSlotsInScope(date string, categoryID *uint) ([]*models.AvailableTimeSlot, error)
	GetTimeSlot(id uint) (*models.AvailableTimeSlot, error)
	CreateTimeSlot(slot *models.AvailableTimeSlot) (*models.AvailableTimeSlot, error)
	UpdateTimeSlot(slot *models.AvailableTimeSlot) error
	DeleteTimeSlot(id uint) error

	// Appointment operations
	CreateAppointment(a *models.Appointment) (*models.Appointment, error)
	GetAppointment(id uint) (*models.Appointment, error)
	GetAppointmentsByUser(userID uint) ([]*models.Appointment, error)
	GetAllAppointments() ([]*models.Appointment, error)
	GetAppointmentsOnDate(date string, statuses []string) ([]*models.Appointment, error)
	UpdateAppointment(a *models.Appointment) error

	// Payment operations
	CreatePayment(p *models.Payment) (*models.Payment, error)
	GetPaymentByOrderID(orderID string) (*models.Payment, error)
	UpdatePayment(p *models.Payment) error

	// Support operations
	CreateSupportTicket(t *models.SupportTicket) (*models.SupportTicket, error)
	GetSupportTicket(id uint) (*models.SupportTicket, error)
	GetTicketsByUser(userID uint) ([]*models.SupportTicket, error)
	GetAllTickets() ([]*models.SupportTicket, error)
	UpdateSupportTicket(t *models.SupportTicket) error

	// Catalog operations
	ListServiceCategories(activeOnly bool) ([]*models.ServiceCategory, error)
	GetServiceCategory(id uint) (*models.ServiceCategory, error)
	CreateServiceCategory(c *models.ServiceCategory) (*models.ServiceCategory, error)
	UpdateServiceCategory(c *models.ServiceCategory) error
	DeleteServiceCategory(id uint) error
	ListPropertyTypes(categoryID uint) ([]*models.PropertyType, error)
	ReplacePropertyTypes(categoryID uint, types []models.PropertyType) error
	ListRoomTypes(categoryID uint) ([]*models.RoomType, error)
	ReplaceRoomTypes(categoryID uint, types []models.RoomType) error
	ListServicePricing(categoryID uint) ([]*models.ServicePricing, error)
	GetServicePricing(id uint) (*models.ServicePricing, error)
	CreateServicePricing(p *models.ServicePricing) (*models.ServicePricing, error)
	UpdateServicePricing(p *models.ServicePricing) error
	DeleteServicePricing(id uint) error

	// Content operations
	GetContentPage(slug string) (*models.ContentPage, error)
	ListContentPages() ([]*models.ContentPage, error)
	UpsertContentPage(p *models.ContentPage) (*models.ContentPage, error)
	ListWebsiteSettings() ([]*models.WebsiteSetting, error)
	UpsertWebsiteSetting(key, value string) (*models.WebsiteSetting, error)
}
