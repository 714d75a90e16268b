// Package time contains time related helpers
package time

import (
	"strings"
	"time"
)

// InstantLayout is the wire format for UTC instants. Slot starts, health
// timestamps, and review audit fields all use it
const InstantLayout = "2006-01-02T15:04:05Z"

// FormatInstant renders t as a UTC instant string
func FormatInstant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}

// ParseInstant parses a UTC instant. The literal Z suffix is required;
// offset forms like +00:00 are rejected even though they name the same moment
func ParseInstant(s string) (time.Time, bool) {
	if !strings.HasSuffix(s, "Z") {
		return time.Time{}, false
	}
	t, err := time.Parse(InstantLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Midnight truncates t to the start of its UTC day
func Midnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
