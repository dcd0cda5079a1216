package utils

import (
	"fmt"
	"strings"
)

// NormalizePhone converts a phone number to a canonical leading-+ form:
// spaces, dashes and parentheses are stripped, a 00 international prefix
// becomes +, and a bare digit string gets + prepended. The remainder must be
// 7-15 digits.
func NormalizePhone(phone string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))

	if cleaned == "" {
		return "", fmt.Errorf("phone number is empty")
	}

	switch {
	case strings.HasPrefix(cleaned, "+"):
		cleaned = cleaned[1:]
	case strings.HasPrefix(cleaned, "00"):
		cleaned = cleaned[2:]
	}

	if len(cleaned) < 7 || len(cleaned) > 15 {
		return "", fmt.Errorf("invalid phone number length")
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("phone number contains non-digit characters")
		}
	}

	return "+" + cleaned, nil
}
