package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Kallolx/appointment-backend/internal/services"
)

// AuthHandler handles registration, login and the OTP flow.
type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates an account with phone + password.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "validation",
		})
	}
	if req.Phone == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone and password are required",
			"code":  "validation",
		})
	}

	user, err := h.auth.Register(req.Name, req.Phone, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrPhoneTaken) || errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
				"code":  "conflict",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "validation",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created successfully",
		"user":    user,
	})
}

// Login authenticates with phone + password.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "validation",
		})
	}

	token, user, err := h.auth.LoginPassword(req.Phone, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid phone or password",
			"code":  "auth_failed",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// SendOTP dispatches a verification code to the given phone.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil || req.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone is required",
			"code":  "validation",
		})
	}

	outcome, err := h.auth.SendOTP(req.Phone)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to deliver verification code",
			"code":  "delivery_failed",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Verification code sent",
		"channel": outcome.Channel,
	})
}

// VerifyOTP verifies a code and logs the user in, creating the account on
// first use.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil || req.Phone == "" || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone and code are required",
			"code":  "validation",
		})
	}

	token, user, err := h.auth.LoginOTP(req.Phone, req.Code)
	if err != nil {
		var mismatch *services.OTPMismatchError
		switch {
		case errors.As(err, &mismatch):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":              "Incorrect verification code",
				"code":               "otp_mismatch",
				"attempts_remaining": mismatch.Remaining,
			})
		case errors.Is(err, services.ErrOTPNotFound):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No verification code pending for this phone",
				"code":  "otp_not_found",
			})
		case errors.Is(err, services.ErrOTPExpired):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Verification code expired",
				"code":  "otp_expired",
			})
		case errors.Is(err, services.ErrOTPAttemptsExceeded):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Too many failed attempts, request a new code",
				"code":  "otp_attempts_exceeded",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "validation",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}
