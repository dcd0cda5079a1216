package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kallolx/appointment-backend/internal/config"
	"github.com/Kallolx/appointment-backend/internal/models"
	"github.com/Kallolx/appointment-backend/internal/storage"
)

type fakeGateway struct {
	err        error
	nextID     int
	lastAmount int64
	intents    map[string]*PaymentIntent
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{intents: make(map[string]*PaymentIntent)}
}

func (f *fakeGateway) CreateIntent(amountMinor int64, currency, successURL, cancelURL string) (*PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	f.lastAmount = amountMinor
	intent := &PaymentIntent{
		ID:          fmt.Sprintf("pi_%d", f.nextID),
		Status:      "created",
		Amount:      amountMinor,
		Currency:    currency,
		RedirectURL: "https://gateway.test/pay/" + fmt.Sprintf("pi_%d", f.nextID),
	}
	f.intents[intent.ID] = intent
	return intent, nil
}

func (f *fakeGateway) GetIntent(id string) (*PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	intent, ok := f.intents[id]
	if !ok {
		return nil, errors.New("intent not found")
	}
	return intent, nil
}

func newPaymentFixture(t *testing.T) (*PaymentService, *fakeGateway, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	gateway := newFakeGateway()
	cfg := config.PaymentConfig{
		Currency:   "AED",
		SuccessURL: "https://example.com/success",
		CancelURL:  "https://example.com/cancel",
	}
	return NewPaymentService(store, gateway, cfg), gateway, store
}

func seedAppointment(t *testing.T, store *storage.MemoryStore, userID uint) *models.Appointment {
	t.Helper()
	a, err := store.CreateAppointment(&models.Appointment{
		UserID:          userID,
		Service:         "Deep Cleaning",
		AppointmentDate: "2031-06-15",
		AppointmentTime: "14:00:00",
		Status:          models.AppointmentStatusPending,
		Price:           150,
		ExtraPrice:      25,
		CodFee:          5,
	})
	require.NoError(t, err)
	return a
}

func TestCreateAppointmentIntent(t *testing.T) {
	svc, gateway, store := newPaymentFixture(t)
	a := seedAppointment(t, store, 1)

	payment, redirect, err := svc.CreateAppointmentIntent(1, a.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("appointment_%d", a.ID), payment.OrderID)
	assert.Equal(t, "pi_1", payment.PaymentID)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, 180.0, payment.Amount)
	assert.Contains(t, redirect, "pi_1")

	// Gateway speaks minor units.
	assert.Equal(t, int64(18000), gateway.lastAmount)
}

func TestCreateAppointmentIntentOwnerOnly(t *testing.T) {
	svc, _, store := newPaymentFixture(t)
	a := seedAppointment(t, store, 1)

	_, _, err := svc.CreateAppointmentIntent(2, a.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
	_, _, err = svc.CreateAppointmentIntent(1, 9999)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
}

func TestCreateAppointmentIntentReusesExistingRow(t *testing.T) {
	svc, _, store := newPaymentFixture(t)
	a := seedAppointment(t, store, 1)

	first, _, err := svc.CreateAppointmentIntent(1, a.ID)
	require.NoError(t, err)

	// A second intent for the same appointment refreshes the same row
	// instead of violating the order id uniqueness.
	second, redirect, err := svc.CreateAppointmentIntent(1, a.ID)
	require.NoError(t, err)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "pi_2", second.PaymentID)
	assert.Contains(t, redirect, "pi_2")
}

func TestCreateAppointmentIntentGatewayFailure(t *testing.T) {
	svc, gateway, store := newPaymentFixture(t)
	a := seedAppointment(t, store, 1)
	gateway.err = errors.New("gateway down")

	_, _, err := svc.CreateAppointmentIntent(1, a.ID)
	require.Error(t, err)

	_, err = store.GetPaymentByOrderID(fmt.Sprintf("appointment_%d", a.ID))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestProcessWebhookCompletedConfirmsAppointment(t *testing.T) {
	svc, _, store := newPaymentFixture(t)
	a := seedAppointment(t, store, 1)
	_, _, err := svc.CreateAppointmentIntent(1, a.ID)
	require.NoError(t, err)

	body := []byte(fmt.Sprintf(`{
		"status": "paid",
		"order_id": "appointment_%d",
		"payment_id": "pi_1",
		"amount": 18000,
		"currency_code": "AED",
		"payment_method": "card"
	}`, a.ID))
	require.NoError(t, svc.ProcessWebhook(body))

	payment, err := store.GetPaymentByOrderID(fmt.Sprintf("appointment_%d", a.ID))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, 180.0, payment.Amount)
	assert.Equal(t, "card", payment.PaymentMethod)

	confirmed, err := store.GetAppointment(a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusConfirmed, confirmed.Status)
}

func TestProcessWebhookOverridesAnyStatus(t *testing.T) {
	svc, _, store := newPaymentFixture(t)
	a := seedAppointment(t, store, 1)
	a.Status = models.AppointmentStatusCancelled
	require.NoError(t, store.UpdateAppointment(a))

	// Completion forces confirmed even from cancelled, and is idempotent.
	body := []byte(fmt.Sprintf(`{"status": "completed", "order_id": "appointment_%d"}`, a.ID))
	require.NoError(t, svc.ProcessWebhook(body))
	require.NoError(t, svc.ProcessWebhook(body))

	got, err := store.GetAppointment(a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusConfirmed, got.Status)
}

func TestProcessWebhookFailedLeavesAppointmentAlone(t *testing.T) {
	svc, _, store := newPaymentFixture(t)
	a := seedAppointment(t, store, 1)
	_, _, err := svc.CreateAppointmentIntent(1, a.ID)
	require.NoError(t, err)

	body := []byte(fmt.Sprintf(`{"status": "declined", "order_id": "appointment_%d"}`, a.ID))
	require.NoError(t, svc.ProcessWebhook(body))

	payment, err := store.GetPaymentByOrderID(fmt.Sprintf("appointment_%d", a.ID))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, payment.Status)

	got, err := store.GetAppointment(a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusPending, got.Status)
}

func TestProcessWebhookRejectsBadPayloads(t *testing.T) {
	svc, _, _ := newPaymentFixture(t)

	assert.Error(t, svc.ProcessWebhook([]byte("not json")))
	assert.Error(t, svc.ProcessWebhook([]byte(`{"status": "paid"}`)))
}

func TestProcessWebhookUnknownOrderIsAccepted(t *testing.T) {
	svc, _, _ := newPaymentFixture(t)

	// No local payment row and no such appointment; the webhook is still
	// acknowledged so the gateway stops retrying.
	err := svc.ProcessWebhook([]byte(`{"status": "paid", "order_id": "appointment_9999"}`))
	assert.NoError(t, err)
}

func TestRefreshStatusSyncsFromGateway(t *testing.T) {
	svc, gateway, store := newPaymentFixture(t)
	a := seedAppointment(t, store, 1)
	payment, _, err := svc.CreateAppointmentIntent(1, a.ID)
	require.NoError(t, err)

	gateway.intents[payment.PaymentID].Status = "captured"

	refreshed, err := svc.RefreshStatus(payment.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, refreshed.Status)

	confirmed, err := store.GetAppointment(a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusConfirmed, confirmed.Status)
}

func TestNormalizeGatewayStatus(t *testing.T) {
	cases := map[string]string{
		"paid":      models.PaymentStatusCompleted,
		"COMPLETED": models.PaymentStatusCompleted,
		"captured":  models.PaymentStatusCompleted,
		"declined":  models.PaymentStatusFailed,
		"voided":    models.PaymentStatusCancelled,
		"canceled":  models.PaymentStatusCancelled,
		"created":   models.PaymentStatusPending,
		"unknown":   models.PaymentStatusPending,
	}
	for raw, want := range cases {
		assert.Equal(t, want, normalizeGatewayStatus(raw), "input %q", raw)
	}
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(18000), toMinorUnits(180))
	assert.Equal(t, int64(18050), toMinorUnits(180.50))
	// Float noise rounds instead of truncating.
	assert.Equal(t, int64(1010), toMinorUnits(10.1))
}
