package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kallolx/appointment-backend/internal/models"
	"github.com/Kallolx/appointment-backend/internal/storage"
)

func newAvailabilityFixture(t *testing.T) (*AvailabilityService, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewAvailabilityService(store), store
}

func uintPtr(v uint) *uint        { return &v }
func strPtr(v string) *string     { return &v }
func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestCreateDateNormalizesAndRejectsDuplicates(t *testing.T) {
	svc, _ := newAvailabilityFixture(t)

	d, err := svc.CreateDate(&models.AvailableDate{Date: "June 15, 2031", IsAvailable: true})
	require.NoError(t, err)
	assert.Equal(t, "2031-06-15", d.Date)

	_, err = svc.CreateDate(&models.AvailableDate{Date: "2031-06-15", IsAvailable: true})
	assert.ErrorIs(t, err, ErrDuplicateDate)
}

func TestCreateDateSameDayDifferentScope(t *testing.T) {
	svc, _ := newAvailabilityFixture(t)

	_, err := svc.CreateDate(&models.AvailableDate{Date: "2031-06-15", IsAvailable: true})
	require.NoError(t, err)

	// Same calendar day under a specific category is a different scope,
	// not a duplicate.
	_, err = svc.CreateDate(&models.AvailableDate{
		Date:              "2031-06-15",
		ServiceCategoryID: uintPtr(3),
		IsAvailable:       true,
	})
	assert.NoError(t, err)
}

func TestListDatesFiltersByCategory(t *testing.T) {
	svc, _ := newAvailabilityFixture(t)

	_, err := svc.CreateDate(&models.AvailableDate{Date: "2031-06-15", IsAvailable: true})
	require.NoError(t, err)
	_, err = svc.CreateDate(&models.AvailableDate{Date: "2031-06-16", ServiceCategoryID: uintPtr(2), IsAvailable: true})
	require.NoError(t, err)

	all, err := svc.ListDates(storage.FilterAll())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	uncategorized, err := svc.ListDates(storage.FilterUncategorized())
	require.NoError(t, err)
	require.Len(t, uncategorized, 1)
	assert.Equal(t, "2031-06-15", uncategorized[0].Date)

	scoped, err := svc.ListDates(storage.FilterCategory(2))
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "2031-06-16", scoped[0].Date)
}

func TestCreateSlotValidation(t *testing.T) {
	svc, _ := newAvailabilityFixture(t)

	_, err := svc.CreateSlot(&models.AvailableTimeSlot{
		Date: "2031-06-15", StartTime: "9:00", EndTime: "09:30", IsAvailable: true,
	})
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	_, err = svc.CreateSlot(&models.AvailableTimeSlot{
		Date: "2031-06-15", StartTime: "10:00", EndTime: "09:30", IsAvailable: true,
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.CreateSlot(&models.AvailableTimeSlot{
		Date: "2031-06-15", StartTime: "09:00", EndTime: "09:00", IsAvailable: true,
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestCreateSlotOverlapRule(t *testing.T) {
	svc, _ := newAvailabilityFixture(t)

	_, err := svc.CreateSlot(&models.AvailableTimeSlot{
		Date: "2031-06-15", StartTime: "09:00", EndTime: "09:30", IsAvailable: true,
	})
	require.NoError(t, err)

	// [09:15, 09:45) overlaps [09:00, 09:30).
	_, err = svc.CreateSlot(&models.AvailableTimeSlot{
		Date: "2031-06-15", StartTime: "09:15", EndTime: "09:45", IsAvailable: true,
	})
	assert.ErrorIs(t, err, ErrSlotOverlap)

	// Touching endpoints do not overlap.
	_, err = svc.CreateSlot(&models.AvailableTimeSlot{
		Date: "2031-06-15", StartTime: "09:30", EndTime: "10:00", IsAvailable: true,
	})
	assert.NoError(t, err)

	// Same interval on another date is fine.
	_, err = svc.CreateSlot(&models.AvailableTimeSlot{
		Date: "2031-06-16", StartTime: "09:00", EndTime: "09:30", IsAvailable: true,
	})
	assert.NoError(t, err)

	// Same interval in a different category scope is fine.
	_, err = svc.CreateSlot(&models.AvailableTimeSlot{
		Date: "2031-06-15", StartTime: "09:00", EndTime: "09:30",
		ServiceCategoryID: uintPtr(4), IsAvailable: true,
	})
	assert.NoError(t, err)
}

func TestCreateSlotUnavailableSkipsOverlapRule(t *testing.T) {
	svc, _ := newAvailabilityFixture(t)

	_, err := svc.CreateSlot(&models.AvailableTimeSlot{
		Date: "2031-06-15", StartTime: "09:00", EndTime: "09:30", IsAvailable: true,
	})
	require.NoError(t, err)

	// Unavailable slots do not participate in the overlap rule.
	_, err = svc.CreateSlot(&models.AvailableTimeSlot{
		Date: "2031-06-15", StartTime: "09:00", EndTime: "09:30", IsAvailable: false,
	})
	assert.NoError(t, err)
}

func TestUpdateSlotRevalidatesOnTimeChange(t *testing.T) {
	svc, _ := newAvailabilityFixture(t)

	first, err := svc.CreateSlot(&models.AvailableTimeSlot{
		Date: "2031-06-15", StartTime: "09:00", EndTime: "09:30", IsAvailable: true,
	})
	require.NoError(t, err)
	second, err := svc.CreateSlot(&models.AvailableTimeSlot{
		Date: "2031-06-15", StartTime: "10:00", EndTime: "10:30", IsAvailable: true,
	})
	require.NoError(t, err)

	// Moving the second slot onto the first is rejected.
	_, err = svc.UpdateSlot(second.ID, SlotPatch{StartTime: strPtr("09:15"), EndTime: strPtr("09:45")})
	assert.ErrorIs(t, err, ErrSlotOverlap)

	// A slot never conflicts with itself.
	updated, err := svc.UpdateSlot(first.ID, SlotPatch{EndTime: strPtr("09:45")})
	require.NoError(t, err)
	assert.Equal(t, "09:45", updated.EndTime)

	// Non-time fields skip revalidation.
	updated, err = svc.UpdateSlot(first.ID, SlotPatch{ExtraPrice: floatPtr(25)})
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.ExtraPrice)
}

func TestUpdateSlotReactivationChecksOverlap(t *testing.T) {
	svc, _ := newAvailabilityFixture(t)

	_, err := svc.CreateSlot(&models.AvailableTimeSlot{
		Date: "2031-06-15", StartTime: "09:00", EndTime: "09:30", IsAvailable: true,
	})
	require.NoError(t, err)

	// Created unavailable over an existing interval, which is allowed.
	shadow, err := svc.CreateSlot(&models.AvailableTimeSlot{
		Date: "2031-06-15", StartTime: "09:00", EndTime: "09:30", IsAvailable: false,
	})
	require.NoError(t, err)

	// Turning it available would introduce an overlap.
	_, err = svc.UpdateSlot(shadow.ID, SlotPatch{IsAvailable: boolPtr(true)})
	assert.ErrorIs(t, err, ErrSlotOverlap)

	// Re-activating onto a free interval in the same patch is fine.
	updated, err := svc.UpdateSlot(shadow.ID, SlotPatch{
		StartTime: strPtr("10:00"), EndTime: strPtr("10:30"), IsAvailable: boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, updated.IsAvailable)

	// Toggling an already-available slot off and on without moving it does
	// not conflict with itself.
	_, err = svc.UpdateSlot(shadow.ID, SlotPatch{IsAvailable: boolPtr(false)})
	require.NoError(t, err)
	reactivated, err := svc.UpdateSlot(shadow.ID, SlotPatch{IsAvailable: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, reactivated.IsAvailable)
}

func TestSlotBookable(t *testing.T) {
	svc, _ := newAvailabilityFixture(t)

	_, err := svc.CreateSlot(&models.AvailableTimeSlot{
		Date: "2031-06-15", StartTime: "14:00", EndTime: "14:30", IsAvailable: true,
	})
	require.NoError(t, err)
	_, err = svc.CreateSlot(&models.AvailableTimeSlot{
		Date: "2031-06-15", StartTime: "15:00", EndTime: "15:30", IsAvailable: false,
	})
	require.NoError(t, err)

	ok, err := svc.SlotBookable("2031-06-15", "14:00", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	// Unavailable slots are not bookable.
	ok, err = svc.SlotBookable("2031-06-15", "15:00", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.SlotBookable("2031-06-15", "16:00", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}
