package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kallolx/appointment-backend/internal/otp"
)

type fakeTemplateSender struct {
	err      error
	lastTo   string
	lastVars map[string]string
	calls    int
}

func (f *fakeTemplateSender) SendWhatsAppTemplate(to, templateSID string, variables map[string]string) (string, error) {
	f.calls++
	f.lastTo = to
	f.lastVars = variables
	if f.err != nil {
		return "", f.err
	}
	return "WA123", nil
}

type fakePlainSender struct {
	err      error
	lastTo   string
	lastBody string
	calls    int
}

func (f *fakePlainSender) SendSMS(to, body string) (string, error) {
	f.calls++
	f.lastTo = to
	f.lastBody = body
	if f.err != nil {
		return "", f.err
	}
	return "SM456", nil
}

func newOTPFixture(t *testing.T) (*OTPService, *otp.MemoryStore, *fakeTemplateSender, *fakePlainSender) {
	t.Helper()
	store := otp.NewMemoryStore(time.Hour)
	t.Cleanup(store.Close)
	wa := &fakeTemplateSender{}
	sms := &fakePlainSender{}
	return NewOTPService(store, wa, sms, "HX123"), store, wa, sms
}

func TestOTPSendPrefersWhatsApp(t *testing.T) {
	svc, store, wa, sms := newOTPFixture(t)

	outcome, err := svc.Send("971 50 123 4567")
	require.NoError(t, err)
	assert.Equal(t, "whatsapp", outcome.Channel)
	assert.Equal(t, "WA123", outcome.MessageSID)
	assert.Equal(t, "+971501234567", wa.lastTo)
	assert.Zero(t, sms.calls)

	entry, ok := store.Get("+971501234567")
	require.True(t, ok)
	assert.Equal(t, entry.Code, wa.lastVars["1"])
	assert.Len(t, entry.Code, 6)
}

func TestOTPSendFallsBackToSMS(t *testing.T) {
	svc, store, wa, sms := newOTPFixture(t)
	wa.err = errors.New("whatsapp down")

	outcome, err := svc.Send("+971501234567")
	require.NoError(t, err)
	assert.Equal(t, "sms", outcome.Channel)
	assert.Equal(t, "SM456", outcome.MessageSID)
	assert.Equal(t, 1, wa.calls)
	assert.Equal(t, 1, sms.calls)

	entry, ok := store.Get("+971501234567")
	require.True(t, ok)
	assert.Contains(t, sms.lastBody, entry.Code)
}

func TestOTPSendStoresCodeEvenWhenBothChannelsFail(t *testing.T) {
	svc, store, wa, sms := newOTPFixture(t)
	wa.err = errors.New("whatsapp down")
	sms.err = errors.New("sms down")

	_, err := svc.Send("+971501234567")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whatsapp down")
	assert.Contains(t, err.Error(), "sms down")

	// The store write precedes delivery, so the code is still verifiable.
	_, ok := store.Get("+971501234567")
	assert.True(t, ok)
}

func TestOTPVerifyConsumesCodeOnce(t *testing.T) {
	svc, store, _, _ := newOTPFixture(t)
	store.Set("+971501234567", &otp.Entry{Code: "123456", ExpiresAt: time.Now().Add(time.Minute)})

	require.NoError(t, svc.Verify("+971501234567", "123456"))
	assert.ErrorIs(t, svc.Verify("+971501234567", "123456"), ErrOTPNotFound)
}

func TestOTPVerifyWrongCodeCountsAttempts(t *testing.T) {
	svc, store, _, _ := newOTPFixture(t)
	store.Set("+971501234567", &otp.Entry{Code: "123456", ExpiresAt: time.Now().Add(time.Minute)})

	for want := 2; want >= 0; want-- {
		err := svc.Verify("+971501234567", "999999")
		var mismatch *OTPMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, want, mismatch.Remaining)
	}

	// Attempt limit reached: even the right code is refused and the entry
	// is gone.
	assert.ErrorIs(t, svc.Verify("+971501234567", "123456"), ErrOTPAttemptsExceeded)
	assert.ErrorIs(t, svc.Verify("+971501234567", "123456"), ErrOTPNotFound)
}

func TestOTPVerifyExpired(t *testing.T) {
	svc, store, _, _ := newOTPFixture(t)
	store.Set("+971501234567", &otp.Entry{Code: "123456", ExpiresAt: time.Now().Add(-time.Second)})

	assert.ErrorIs(t, svc.Verify("+971501234567", "123456"), ErrOTPExpired)
	assert.ErrorIs(t, svc.Verify("+971501234567", "123456"), ErrOTPNotFound)
}

func TestOTPVerifyNormalizesPhone(t *testing.T) {
	svc, store, _, _ := newOTPFixture(t)
	store.Set("+971501234567", &otp.Entry{Code: "123456", ExpiresAt: time.Now().Add(time.Minute)})

	require.NoError(t, svc.Verify("00971 50 123 4567", "123456"))
}
