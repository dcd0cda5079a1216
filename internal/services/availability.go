package services

import (
	"errors"
	"fmt"

	"github.com/Kallolx/appointment-backend/internal/models"
	"github.com/Kallolx/appointment-backend/internal/storage"
	"github.com/Kallolx/appointment-backend/internal/utils"
)

var (
	ErrInvalidTimeFormat = errors.New("time must be in 24-hour HH:MM format")
	ErrInvalidTimeRange  = errors.New("start time must be before end time")
	ErrSlotOverlap       = errors.New("time slot overlaps an existing available slot")
	ErrDuplicateDate     = errors.New("date already exists for this category scope")
)

// AvailabilityService owns the bookable dates and time slots.
type AvailabilityService struct {
	store storage.Store
}

func NewAvailabilityService(store storage.Store) *AvailabilityService {
	return &AvailabilityService{store: store}
}

// ListDates returns available dates from today onward under the given
// category filter.
func (s *AvailabilityService) ListDates(filter storage.CategoryFilter) ([]*models.AvailableDate, error) {
	return s.store.ListAvailableDates(utils.Today(), filter)
}

// ListSlots returns available slots on one date, ordered by start time.
func (s *AvailabilityService) ListSlots(date string, filter storage.CategoryFilter) ([]*models.AvailableTimeSlot, error) {
	normalized, err := utils.NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	return s.store.ListAvailableTimeSlots(normalized, filter)
}

// CreateDate adds a bookable date. A second row for the same date and
// category scope is a conflict, not a generic failure.
func (s *AvailabilityService) CreateDate(d *models.AvailableDate) (*models.AvailableDate, error) {
	normalized, err := utils.NormalizeDate(d.Date)
	if err != nil {
		return nil, err
	}
	d.Date = normalized

	if _, err := s.store.FindAvailableDate(d.Date, d.ServiceCategoryID); err == nil {
		return nil, ErrDuplicateDate
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	return s.store.CreateAvailableDate(d)
}

// DatePatch is a sparse update for an available date.
type DatePatch struct {
	Date            *string `json:"date"`
	IsAvailable     *bool   `json:"is_available"`
	MaxAppointments *int    `json:"max_appointments"`
}

func (s *AvailabilityService) UpdateDate(id uint, patch DatePatch) (*models.AvailableDate, error) {
	d, err := s.store.GetAvailableDate(id)
	if err != nil {
		return nil, err
	}

	if patch.Date != nil {
		normalized, err := utils.NormalizeDate(*patch.Date)
		if err != nil {
			return nil, err
		}
		d.Date = normalized
	}
	if patch.IsAvailable != nil {
		d.IsAvailable = *patch.IsAvailable
	}
	if patch.MaxAppointments != nil {
		d.MaxAppointments = *patch.MaxAppointments
	}

	if err := s.store.UpdateAvailableDate(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *AvailabilityService) DeleteDate(id uint) error {
	return s.store.DeleteAvailableDate(id)
}

// overlaps tests two half-open intervals [s1,e1) and [s2,e2). Times are
// zero-padded HH:MM strings, so string comparison is time comparison.
// Touching endpoints do not overlap.
func overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && s2 < e1
}

// CreateSlot validates and persists a new time slot. The new interval must
// not overlap any existing available slot on the same date and category
// scope.
func (s *AvailabilityService) CreateSlot(slot *models.AvailableTimeSlot) (*models.AvailableTimeSlot, error) {
	normalized, err := utils.NormalizeDate(slot.Date)
	if err != nil {
		return nil, err
	}
	slot.Date = normalized

	if err := validateSlotTimes(slot.StartTime, slot.EndTime); err != nil {
		return nil, err
	}

	// Only available slots participate in the overlap rule.
	if slot.IsAvailable {
		if err := s.checkOverlap(slot, 0); err != nil {
			return nil, err
		}
	}

	return s.store.CreateTimeSlot(slot)
}

// SlotPatch is a sparse update for a time slot; category scope is fixed at
// creation.
type SlotPatch struct {
	Date        *string  `json:"date"`
	StartTime   *string  `json:"start_time"`
	EndTime     *string  `json:"end_time"`
	IsAvailable *bool    `json:"is_available"`
	ExtraPrice  *float64 `json:"extra_price"`
}

// UpdateSlot applies the provided fields, re-validating times whenever a
// time field changes and the overlap rule whenever the updated slot is
// available with changed times or was just re-activated.
func (s *AvailabilityService) UpdateSlot(id uint, patch SlotPatch) (*models.AvailableTimeSlot, error) {
	slot, err := s.store.GetTimeSlot(id)
	if err != nil {
		return nil, err
	}

	timeChanged := false
	wasAvailable := slot.IsAvailable
	if patch.Date != nil {
		normalized, err := utils.NormalizeDate(*patch.Date)
		if err != nil {
			return nil, err
		}
		slot.Date = normalized
		timeChanged = true
	}
	if patch.StartTime != nil {
		slot.StartTime = *patch.StartTime
		timeChanged = true
	}
	if patch.EndTime != nil {
		slot.EndTime = *patch.EndTime
		timeChanged = true
	}
	if patch.IsAvailable != nil {
		slot.IsAvailable = *patch.IsAvailable
	}
	if patch.ExtraPrice != nil {
		slot.ExtraPrice = *patch.ExtraPrice
	}

	if timeChanged {
		if err := validateSlotTimes(slot.StartTime, slot.EndTime); err != nil {
			return nil, err
		}
	}
	// Re-activating a slot puts it back under the overlap rule, so the check
	// also runs when IsAvailable flips from false to true.
	if slot.IsAvailable && (timeChanged || !wasAvailable) {
		if err := s.checkOverlap(slot, slot.ID); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateTimeSlot(slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *AvailabilityService) DeleteSlot(id uint) error {
	return s.store.DeleteTimeSlot(id)
}

// SlotBookable reports whether an available slot starting at startHHMM exists
// on date in the given scope. This is the single seam for a stricter booking
// policy; the booking path only consults it when strict checking is enabled.
func (s *AvailabilityService) SlotBookable(date, startHHMM string, categoryID *uint) (bool, error) {
	slots, err := s.store.ListTimeSlotsInScope(date, categoryID)
	if err != nil {
		return false, err
	}
	for _, slot := range slots {
		if slot.StartTime == startHHMM {
			return true, nil
		}
	}
	return false, nil
}

func validateSlotTimes(start, end string) error {
	if !utils.ValidHHMM(start) || !utils.ValidHHMM(end) {
		return ErrInvalidTimeFormat
	}
	if start >= end {
		return ErrInvalidTimeRange
	}
	return nil
}

func (s *AvailabilityService) checkOverlap(slot *models.AvailableTimeSlot, excludeID uint) error {
	existing, err := s.store.ListTimeSlotsInScope(slot.Date, slot.ServiceCategoryID)
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.ID == excludeID {
			continue
		}
		if overlaps(slot.StartTime, slot.EndTime, other.StartTime, other.EndTime) {
			return fmt.Errorf("%w: [%s, %s) conflicts with [%s, %s)",
				ErrSlotOverlap, slot.StartTime, slot.EndTime, other.StartTime, other.EndTime)
		}
	}
	return nil
}
