package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kallolx/appointment-backend/internal/models"
	"github.com/Kallolx/appointment-backend/internal/services"
	"github.com/Kallolx/appointment-backend/internal/storage"
)

func newAuthApp(t *testing.T) (*fiber.App, *services.AuthService, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	auth := services.NewAuthService(store, nil, "test-secret", time.Hour)

	app := fiber.New()
	app.Get("/me", Protected(auth), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": UserID(c)})
	})
	app.Get("/admin", Protected(auth), AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app, auth, store
}

func issueToken(t *testing.T, auth *services.AuthService, store *storage.MemoryStore, phone, role string) string {
	t.Helper()
	user, err := auth.Register("Test", phone, "", "supersecret")
	require.NoError(t, err)
	if role != models.RoleUser {
		user.Role = role
		require.NoError(t, store.UpdateUser(user))
	}
	token, _, err := auth.LoginPassword(phone, "supersecret")
	require.NoError(t, err)
	return token
}

func TestProtectedRejectsMissingOrBadTokens(t *testing.T) {
	app, _, _ := newAuthApp(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic something")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedAcceptsValidToken(t *testing.T) {
	app, auth, store := newAuthApp(t)
	token := issueToken(t, auth, store, "+971501234567", models.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminOnly(t *testing.T) {
	app, auth, store := newAuthApp(t)
	userToken := issueToken(t, auth, store, "+971501234567", models.RoleUser)
	adminToken := issueToken(t, auth, store, "+971509999999", models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
