package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signBody(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func newWebhookApp(secret string) *fiber.App {
	app := fiber.New()
	app.Post("/webhook/payment", ValidatePaymentSignature(secret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"received": true})
	})
	return app
}

func TestValidatePaymentSignature(t *testing.T) {
	const secret = "whsec_test"
	const body = `{"status":"paid","order_id":"appointment_7"}`
	app := newWebhookApp(secret)

	req := httptest.NewRequest(http.MethodPost, "/webhook/payment", strings.NewReader(body))
	req.Header.Set("X-Webhook-Signature", signBody(secret, body))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestValidatePaymentSignatureRejects(t *testing.T) {
	const secret = "whsec_test"
	const body = `{"status":"paid","order_id":"appointment_7"}`
	app := newWebhookApp(secret)

	// Missing signature.
	req := httptest.NewRequest(http.MethodPost, "/webhook/payment", strings.NewReader(body))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Wrong secret.
	req = httptest.NewRequest(http.MethodPost, "/webhook/payment", strings.NewReader(body))
	req.Header.Set("X-Webhook-Signature", signBody("other-secret", body))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Signature over a different body.
	req = httptest.NewRequest(http.MethodPost, "/webhook/payment", strings.NewReader(body))
	req.Header.Set("X-Webhook-Signature", signBody(secret, body+" "))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
