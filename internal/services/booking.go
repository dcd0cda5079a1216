package services

import (
	"errors"
	"fmt"

	"github.com/Kallolx/appointment-backend/internal/models"
	"github.com/Kallolx/appointment-backend/internal/storage"
	"github.com/Kallolx/appointment-backend/internal/utils"
)

var (
	ErrNotFoundOrForbidden = errors.New("appointment not found or not yours")
	ErrInvalidStatus       = errors.New("invalid appointment status")
	ErrSlotNotBookable     = errors.New("requested time is not an available slot")
)

// ValidationError marks missing or malformed booking input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AppointmentInput is the caller-supplied booking request. Service, date,
// time, location and price are required; the rest pass through.
type AppointmentInput struct {
	Service             string   `json:"service"`
	ServiceSlug         string   `json:"service_slug"`
	AppointmentDate     string   `json:"appointment_date"`
	AppointmentTime     string   `json:"appointment_time"`
	Location            string   `json:"location"`
	Price               *float64 `json:"price"`
	Status              string   `json:"status"`
	RoomType            string   `json:"room_type"`
	RoomTypeSlug        string   `json:"room_type_slug"`
	PropertyType        string   `json:"property_type"`
	PropertyTypeSlug    string   `json:"property_type_slug"`
	Quantity            int      `json:"quantity"`
	ServiceCategory     string   `json:"service_category"`
	ServiceCategorySlug string   `json:"service_category_slug"`
	ServiceCategoryID   *uint    `json:"service_category_id"`
	ExtraPrice          float64  `json:"extra_price"`
	CodFee              float64  `json:"cod_fee"`
	PaymentMethod       string   `json:"payment_method"`
	Notes               string   `json:"notes"`
}

// BookingService validates and persists appointments. Availability listings
// are advisory: bookings are not checked against slots unless strict mode is
// on, in which case the single SlotBookable seam decides.
type BookingService struct {
	store        storage.Store
	availability *AvailabilityService
	strictSlots  bool
}

func NewBookingService(store storage.Store, availability *AvailabilityService, strictSlots bool) *BookingService {
	return &BookingService{
		store:        store,
		availability: availability,
		strictSlots:  strictSlots,
	}
}

// Create validates the input and persists a new appointment for userID.
func (s *BookingService) Create(userID uint, in AppointmentInput) (*models.Appointment, error) {
	if in.Service == "" {
		return nil, &ValidationError{Field: "service", Reason: "required"}
	}
	if in.AppointmentDate == "" {
		return nil, &ValidationError{Field: "appointment_date", Reason: "required"}
	}
	if in.AppointmentTime == "" {
		return nil, &ValidationError{Field: "appointment_time", Reason: "required"}
	}
	if in.Location == "" {
		return nil, &ValidationError{Field: "location", Reason: "required"}
	}
	if in.Price == nil {
		return nil, &ValidationError{Field: "price", Reason: "required"}
	}

	normalizedTime, err := utils.NormalizeAppointmentTime(in.AppointmentTime)
	if err != nil {
		return nil, &ValidationError{Field: "appointment_time", Reason: err.Error()}
	}

	normalizedDate, err := utils.NormalizeDate(in.AppointmentDate)
	if err != nil {
		return nil, &ValidationError{Field: "appointment_date", Reason: err.Error()}
	}

	status := models.AppointmentStatusPending
	if models.ValidAppointmentStatus(in.Status) {
		status = in.Status
	}

	quantity := in.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	if s.strictSlots {
		ok, err := s.availability.SlotBookable(normalizedDate, normalizedTime[:5], in.ServiceCategoryID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrSlotNotBookable
		}
	}

	appointment := &models.Appointment{
		UserID:              userID,
		Service:             in.Service,
		ServiceSlug:         in.ServiceSlug,
		AppointmentDate:     normalizedDate,
		AppointmentTime:     normalizedTime,
		Status:              status,
		Location:            in.Location,
		Price:               *in.Price,
		RoomType:            in.RoomType,
		RoomTypeSlug:        in.RoomTypeSlug,
		PropertyType:        in.PropertyType,
		PropertyTypeSlug:    in.PropertyTypeSlug,
		Quantity:            quantity,
		ServiceCategory:     in.ServiceCategory,
		ServiceCategorySlug: in.ServiceCategorySlug,
		ExtraPrice:          in.ExtraPrice,
		CodFee:              in.CodFee,
		PaymentMethod:       in.PaymentMethod,
		Notes:               in.Notes,
	}

	return s.store.CreateAppointment(appointment)
}

// ListByUser returns the caller's appointments, newest first.
func (s *BookingService) ListByUser(userID uint) ([]*models.Appointment, error) {
	return s.store.GetAppointmentsByUser(userID)
}

// ListAll returns every appointment (admin).
func (s *BookingService) ListAll() ([]*models.Appointment, error) {
	return s.store.GetAllAppointments()
}

// AppointmentPatch is the owner-facing sparse update: reschedule or change
// status. Unknown ids and other users' appointments are indistinguishable.
type AppointmentPatch struct {
	Status          *string `json:"status"`
	AppointmentDate *string `json:"appointment_date"`
	AppointmentTime *string `json:"appointment_time"`
}

// Update applies the patch if the appointment belongs to ownerID.
func (s *BookingService) Update(id, ownerID uint, patch AppointmentPatch) (*models.Appointment, error) {
	appointment, err := s.store.GetAppointment(id)
	if err != nil || appointment.UserID != ownerID {
		return nil, ErrNotFoundOrForbidden
	}

	if patch.Status != nil {
		if !models.ValidAppointmentStatus(*patch.Status) {
			return nil, ErrInvalidStatus
		}
		appointment.Status = *patch.Status
	}
	if patch.AppointmentDate != nil {
		normalized, err := utils.NormalizeDate(*patch.AppointmentDate)
		if err != nil {
			return nil, &ValidationError{Field: "appointment_date", Reason: err.Error()}
		}
		appointment.AppointmentDate = normalized
	}
	if patch.AppointmentTime != nil {
		normalized, err := utils.NormalizeAppointmentTime(*patch.AppointmentTime)
		if err != nil {
			return nil, &ValidationError{Field: "appointment_time", Reason: err.Error()}
		}
		appointment.AppointmentTime = normalized
	}

	if err := s.store.UpdateAppointment(appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// Cancel sets the owner's appointment to cancelled.
func (s *BookingService) Cancel(id, ownerID uint) (*models.Appointment, error) {
	cancelled := models.AppointmentStatusCancelled
	return s.Update(id, ownerID, AppointmentPatch{Status: &cancelled})
}

// SetStatus is the administrative transition. Any of the five statuses may
// be set from any other; only membership is validated.
func (s *BookingService) SetStatus(id uint, status string) (*models.Appointment, error) {
	if !models.ValidAppointmentStatus(status) {
		return nil, ErrInvalidStatus
	}

	appointment, err := s.store.GetAppointment(id)
	if err != nil {
		return nil, err
	}

	appointment.Status = status
	if err := s.store.UpdateAppointment(appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}
