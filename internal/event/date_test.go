package event

import (
	"testing"
	"time"
)

func TestParseWireTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{
			name:     "canonical backend format",
			input:    "2026-04-04 18:30:00",
			expected: time.Date(2026, 4, 4, 18, 30, 0, 0, time.Local),
		},
		{
			name:     "T separator",
			input:    "2026-04-04T18:30:00",
			expected: time.Date(2026, 4, 4, 18, 30, 0, 0, time.Local),
		},
		{
			name:     "T separator without seconds",
			input:    "2026-04-04T18:30",
			expected: time.Date(2026, 4, 4, 18, 30, 0, 0, time.Local),
		},
		{
			name:     "bare date",
			input:    "2026-04-04",
			expected: time.Date(2026, 4, 4, 0, 0, 0, 0, time.Local),
		},
		{
			name:     "empty string",
			input:    "",
			expected: time.Time{},
		},
		{
			name:     "garbage",
			input:    "next tuesday",
			expected: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseWireTime(tt.input)
			if !got.Equal(tt.expected) {
				t.Errorf("ParseWireTime(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatWireTime_ZeroPadding(t *testing.T) {
	// Single-digit components must come out zero-padded.
	in := time.Date(2026, 1, 5, 9, 3, 7, 0, time.Local)
	got := FormatWireTime(in)
	want := "2026-01-05 09:03:07"
	if got != want {
		t.Errorf("FormatWireTime() = %q, want %q", got, want)
	}
}

func TestWireTimeRoundTrip(t *testing.T) {
	// Converting to the wire shape and back must not drift.
	orig := time.Date(2026, 12, 31, 23, 59, 59, 0, time.Local)
	back := ParseWireTime(FormatWireTime(orig))
	if !back.Equal(orig) {
		t.Errorf("round trip drifted: %v -> %v", orig, back)
	}
}

func TestDayKey(t *testing.T) {
	in := time.Date(2025, 1, 5, 18, 0, 0, 0, time.Local)
	if got := DayKey(in); got != "2025-01-05" {
		t.Errorf("DayKey() = %q, want %q", got, "2025-01-05")
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2025, 1, 5, 18, 42, 13, 500, time.Local)
	got := StartOfDay(in)
	want := time.Date(2025, 1, 5, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("StartOfDay() = %v, want %v", got, want)
	}
}
