package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	hhmmRe      = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	canonicalRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9](:[0-5][0-9])?$`)
	displayRe   = regexp.MustCompile(`^(\d{1,2}):([0-5][0-9])\s*(AM|PM|am|pm)`)
)

// ValidHHMM reports whether s is a zero-padded 24-hour HH:MM string.
// Zero-padding matters: it makes lexicographic comparison time comparison.
func ValidHHMM(s string) bool {
	return hhmmRe.MatchString(s)
}

// ExtractStartTime converts a display range like "2:00 PM - 2:30 PM" to the
// 24-hour start time "14:00:00". Only the start of the range is kept.
// 12 AM maps to 00, 12 PM stays 12.
func ExtractStartTime(display string) (string, error) {
	start := display
	if idx := strings.Index(display, "-"); idx >= 0 {
		start = display[:idx]
	}
	start = strings.TrimSpace(start)

	m := displayRe.FindStringSubmatch(start)
	if m == nil {
		return "", fmt.Errorf("unrecognized time format: %q", display)
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 1 || hour > 12 {
		return "", fmt.Errorf("invalid hour in time: %q", display)
	}

	meridiem := strings.ToUpper(m[3])
	if meridiem == "AM" {
		if hour == 12 {
			hour = 0
		}
	} else if hour != 12 {
		hour += 12
	}

	return fmt.Sprintf("%02d:%s:00", hour, m[2]), nil
}

// NormalizeAppointmentTime accepts either a canonical 24-hour HH:MM[:SS]
// string or a human display range and returns HH:MM:SS.
func NormalizeAppointmentTime(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if canonicalRe.MatchString(trimmed) {
		if len(trimmed) == 5 {
			return trimmed + ":00", nil
		}
		return trimmed, nil
	}
	return ExtractStartTime(trimmed)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"January 2, 2006",
	"2 January 2006",
}

// NormalizeDate parses a caller-supplied date and returns it as YYYY-MM-DD.
// Parsing is timezone-free so the calendar day survives round trips
// regardless of server timezone.
func NormalizeDate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date format: %q", raw)
}

// Today returns the current calendar date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format("2006-01-02")
}
