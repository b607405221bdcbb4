package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogger_Log(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool // should log
	}{
		{
			name:    "info message",
			level:   LevelInfo,
			message: "test message",
			fields:  Fields{"key": "value"},
			want:    true,
		},
		{
			name:    "debug below threshold",
			level:   LevelDebug,
			message: "debug message",
			want:    false, // won't log (below INFO)
		},
		{
			name:    "error with err",
			level:   LevelError,
			message: "error occurred",
			err:     errors.New("test error"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(LevelInfo, &buf)

			logger.log(tt.level, tt.message, tt.fields, tt.err)

			logged := buf.Len() > 0
			if logged != tt.want {
				t.Errorf("log() logged = %v, want %v", logged, tt.want)
			}
			if !logged {
				return
			}

			var entry LogEntry
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("output is not a JSON entry: %v", err)
			}
			if entry.Message != tt.message {
				t.Errorf("Message = %v, want %v", entry.Message, tt.message)
			}
			if tt.err != nil && entry.Error != tt.err.Error() {
				t.Errorf("Error = %v, want %v", entry.Error, tt.err)
			}
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug logs at debug", LevelDebug, LevelDebug, true},
		{"info logs at debug", LevelDebug, LevelInfo, true},
		{"debug doesn't log at info", LevelInfo, LevelDebug, false},
		{"warn doesn't log at error", LevelError, LevelWarn, false},
		{"error always logs", LevelDebug, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(tt.minLevel, &buf)

			logger.log(tt.logLevel, "test", nil, nil)

			if logged := buf.Len() > 0; logged != tt.shouldLog {
				t.Errorf("shouldLog = %v, want %v", logged, tt.shouldLog)
			}
		})
	}
}

func TestLogger_OneLinePerEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelDebug, &buf)

	logger.Info("first", nil)
	logger.Info("second", Fields{"n": 2})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, line := range lines {
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Errorf("line is not valid JSON: %v", err)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"DEBUG", LevelDebug},
		{"WARN", LevelWarn},
		{"ERROR", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("test_counter")
	m.IncrCounter("test_counter")
	m.IncrCounter("test_counter")

	if got := m.Counter("test_counter"); got != 3 {
		t.Errorf("Counter = %v, want 3", got)
	}

	snapshot := m.GetSnapshot()
	counters := snapshot["counters"].(map[string]int64)
	if counters["test_counter"] != 3 {
		t.Errorf("snapshot counter = %v, want 3", counters["test_counter"])
	}
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming("api_call", 100*time.Millisecond)
	m.RecordTiming("api_call", 200*time.Millisecond)
	m.RecordTiming("api_call", 150*time.Millisecond)

	snapshot := m.GetSnapshot()
	timings := snapshot["timings"].(map[string]map[string]interface{})

	apiTiming := timings["api_call"]
	if apiTiming["count"].(int) != 3 {
		t.Errorf("Timing count = %v, want 3", apiTiming["count"])
	}
	if apiTiming["min"].(string) != "100ms" {
		t.Errorf("Min timing = %v, want 100ms", apiTiming["min"])
	}
	if apiTiming["max"].(string) != "200ms" {
		t.Errorf("Max timing = %v, want 200ms", apiTiming["max"])
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	// Test that package-level functions don't panic
	Info("test info", Fields{"key": "value"})
	Warn("test warning", nil)
	Error("test error", Fields{"component": "test"}, errors.New("test"))

	IncrCounter("test")
	RecordTiming("test", time.Second)

	if snapshot := MetricsSnapshot(); snapshot == nil {
		t.Error("MetricsSnapshot() returned nil")
	}
}
