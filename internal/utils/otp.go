package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// GenerateOTPCode generates a cryptographically secure 6-digit code.
func GenerateOTPCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// NewOrderReference generates an order reference for payments not tied to an
// appointment (appointment payments use "appointment_<id>" instead).
func NewOrderReference() string {
	return fmt.Sprintf("order_%s", uuid.NewString())
}
