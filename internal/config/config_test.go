package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CAMPUS_API_URL", "")
	t.Setenv("CAMPUS_USER_ID", "")
	t.Setenv("CAMPUS_HTTP_TIMEOUT", "")
	t.Setenv("CAMPUS_LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8000" {
		t.Errorf("expected default base URL, got %q", cfg.APIBaseURL)
	}
	if cfg.ViewerID != "" {
		t.Errorf("expected anonymous default, got %q", cfg.ViewerID)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("expected default timeout 10s, got %v", cfg.HTTPTimeout)
	}
	if cfg.LogLevel != "INFO" {
		t.Errorf("expected default log level INFO, got %q", cfg.LogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CAMPUS_API_URL", "https://events.example.edu")
	t.Setenv("CAMPUS_USER_ID", "42")
	t.Setenv("CAMPUS_HTTP_TIMEOUT", "3s")
	t.Setenv("CAMPUS_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIBaseURL != "https://events.example.edu" {
		t.Errorf("unexpected base URL %q", cfg.APIBaseURL)
	}
	if cfg.ViewerID != "42" {
		t.Errorf("unexpected viewer id %q", cfg.ViewerID)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("unexpected timeout %v", cfg.HTTPTimeout)
	}
	if cfg.LogLevel != "DEBUG" {
		t.Errorf("unexpected log level %q", cfg.LogLevel)
	}
}

func TestLoadBadTimeout(t *testing.T) {
	t.Setenv("CAMPUS_API_URL", "http://localhost:8000")
	t.Setenv("CAMPUS_HTTP_TIMEOUT", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Error("expected an error for an unparseable timeout")
	}
}
