package models

import (
	"fmt"
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var dayLayouts = []string{
	DayLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// ParseDay parses a calendar date. Timestamps keep their calendar day as written,
// so "2025-06-01T23:00:00+02:00" is June 1st.
func ParseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Day(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
}

func FormatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return Day(t).Format(DayLayout)
}
