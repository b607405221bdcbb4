package event

import "time"

// WireTimeLayout is the backend's date-time shape: space separator,
// zero-padded components, no zone suffix.
const WireTimeLayout = "2006-01-02 15:04:05"

// DayKeyLayout is the calendar-day key shape (date only).
const DayKeyLayout = "2006-01-02"

// ParseWireTime attempts to parse a backend date string into a time.Time
// in the local zone. Returns time.Time{} (zero value) if parsing fails.
// Supports formats: "2026-04-04 18:30:00", "2026-04-04T18:30:00",
// RFC 3339, and bare dates like "2026-04-04".
func ParseWireTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	// Canonical backend format
	t, err := time.ParseInLocation(WireTimeLayout, s, time.Local)
	if err == nil {
		return t
	}

	// HTML datetime-local inputs use a "T" separator
	t, err = time.ParseInLocation("2006-01-02T15:04:05", s, time.Local)
	if err == nil {
		return t
	}

	// Same, without seconds
	t, err = time.ParseInLocation("2006-01-02T15:04", s, time.Local)
	if err == nil {
		return t
	}

	// Full RFC 3339 with zone
	t, err = time.Parse(time.RFC3339, s)
	if err == nil {
		return t.Local()
	}

	// Bare date
	t, err = time.ParseInLocation(DayKeyLayout, s, time.Local)
	if err == nil {
		return t
	}

	return time.Time{}
}

// FormatWireTime converts a timestamp into the backend's expected shape.
// All components are zero-padded by the layout.
func FormatWireTime(t time.Time) string {
	return t.Format(WireTimeLayout)
}

// DayKey returns the local calendar-day key for a timestamp.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// StartOfDay truncates a timestamp to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
