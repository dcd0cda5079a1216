package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kallolx/appointment-backend/internal/models"
	"github.com/Kallolx/appointment-backend/internal/storage"
)

func newBookingFixture(t *testing.T, strict bool) (*BookingService, *AvailabilityService, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	availability := NewAvailabilityService(store)
	return NewBookingService(store, availability, strict), availability, store
}

func validInput() AppointmentInput {
	return AppointmentInput{
		Service:         "Deep Cleaning",
		AppointmentDate: "2031-06-15",
		AppointmentTime: "2:00 PM - 2:30 PM",
		Location:        `{"emirate":"Dubai","area":"Marina"}`,
		Price:           floatPtr(150),
	}
}

func TestBookingCreateRequiredFields(t *testing.T) {
	svc, _, _ := newBookingFixture(t, false)

	cases := []struct {
		field  string
		mutate func(*AppointmentInput)
	}{
		{"service", func(in *AppointmentInput) { in.Service = "" }},
		{"appointment_date", func(in *AppointmentInput) { in.AppointmentDate = "" }},
		{"appointment_time", func(in *AppointmentInput) { in.AppointmentTime = "" }},
		{"location", func(in *AppointmentInput) { in.Location = "" }},
		{"price", func(in *AppointmentInput) { in.Price = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Create(1, in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestBookingCreateNormalizesInput(t *testing.T) {
	svc, _, _ := newBookingFixture(t, false)

	in := validInput()
	in.AppointmentDate = "June 15, 2031"
	in.Status = "whatever" // unknown status falls back to pending
	in.Quantity = 0

	a, err := svc.Create(7, in)
	require.NoError(t, err)
	assert.Equal(t, uint(7), a.UserID)
	assert.Equal(t, "2031-06-15", a.AppointmentDate)
	assert.Equal(t, "14:00:00", a.AppointmentTime)
	assert.Equal(t, models.AppointmentStatusPending, a.Status)
	assert.Equal(t, 1, a.Quantity)
	assert.Equal(t, 150.0, a.Price)
}

func TestBookingCreateKeepsValidStatus(t *testing.T) {
	svc, _, _ := newBookingFixture(t, false)

	in := validInput()
	in.Status = models.AppointmentStatusConfirmed

	a, err := svc.Create(1, in)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusConfirmed, a.Status)
}

func TestBookingCreateRejectsBadTimeAndDate(t *testing.T) {
	svc, _, _ := newBookingFixture(t, false)

	in := validInput()
	in.AppointmentTime = "half past two"
	_, err := svc.Create(1, in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "appointment_time", verr.Field)

	in = validInput()
	in.AppointmentDate = "15/06/2031"
	_, err = svc.Create(1, in)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "appointment_date", verr.Field)
}

func TestBookingStrictModeRequiresSlot(t *testing.T) {
	svc, availability, _ := newBookingFixture(t, true)

	_, err := svc.Create(1, validInput())
	assert.ErrorIs(t, err, ErrSlotNotBookable)

	_, err = availability.CreateSlot(&models.AvailableTimeSlot{
		Date: "2031-06-15", StartTime: "14:00", EndTime: "14:30", IsAvailable: true,
	})
	require.NoError(t, err)

	a, err := svc.Create(1, validInput())
	require.NoError(t, err)
	assert.Equal(t, "14:00:00", a.AppointmentTime)
}

func TestBookingUpdateOwnerOnly(t *testing.T) {
	svc, _, _ := newBookingFixture(t, false)

	a, err := svc.Create(1, validInput())
	require.NoError(t, err)

	// Another user's id gets the same answer as a missing appointment.
	_, err = svc.Update(a.ID, 2, AppointmentPatch{AppointmentDate: strPtr("2031-06-20")})
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
	_, err = svc.Update(9999, 1, AppointmentPatch{AppointmentDate: strPtr("2031-06-20")})
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)

	updated, err := svc.Update(a.ID, 1, AppointmentPatch{
		AppointmentDate: strPtr("June 20, 2031"),
		AppointmentTime: strPtr("15:30"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2031-06-20", updated.AppointmentDate)
	assert.Equal(t, "15:30:00", updated.AppointmentTime)
}

func TestBookingUpdateRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newBookingFixture(t, false)

	a, err := svc.Create(1, validInput())
	require.NoError(t, err)

	_, err = svc.Update(a.ID, 1, AppointmentPatch{Status: strPtr("archived")})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestBookingCancel(t *testing.T) {
	svc, _, _ := newBookingFixture(t, false)

	a, err := svc.Create(1, validInput())
	require.NoError(t, err)

	cancelled, err := svc.Cancel(a.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusCancelled, cancelled.Status)

	_, err = svc.Cancel(a.ID, 2)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
}

func TestBookingAdminSetStatusIgnoresOwnership(t *testing.T) {
	svc, _, store := newBookingFixture(t, false)

	a, err := svc.Create(1, validInput())
	require.NoError(t, err)

	// Any of the five statuses may follow any other.
	for _, status := range []string{
		models.AppointmentStatusCompleted,
		models.AppointmentStatusPending,
		models.AppointmentStatusInProgress,
	} {
		updated, err := svc.SetStatus(a.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	_, err = svc.SetStatus(a.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	stored, err := store.GetAppointment(a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusInProgress, stored.Status)
}

func TestBookingListByUser(t *testing.T) {
	svc, _, _ := newBookingFixture(t, false)

	_, err := svc.Create(1, validInput())
	require.NoError(t, err)
	later := validInput()
	later.AppointmentDate = "2031-07-01"
	_, err = svc.Create(1, later)
	require.NoError(t, err)
	_, err = svc.Create(2, validInput())
	require.NoError(t, err)

	mine, err := svc.ListByUser(1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	// Newest first.
	assert.Equal(t, "2031-07-01", mine[0].AppointmentDate)

	all, err := svc.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
