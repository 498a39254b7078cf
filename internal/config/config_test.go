package config

import (
	"testing"

	"github.com/hospreg/hospreg/internal/platform/fallback"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8080" {
		t.Errorf("unexpected default base URL: %s", cfg.APIBaseURL)
	}
	if !cfg.IsDev() {
		t.Error("expected development default")
	}
	if cfg.Fallback() != fallback.ModeAuto {
		t.Errorf("development should default to auto fallback, got %s", cfg.Fallback())
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://hospital.example.com")
	t.Setenv("FALLBACK_MODE", "never")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBaseURL != "http://hospital.example.com" {
		t.Errorf("env override ignored: %s", cfg.APIBaseURL)
	}
	if cfg.Fallback() != fallback.ModeNever {
		t.Errorf("expected never, got %s", cfg.Fallback())
	}
}

func TestValidate_BadFallbackMode(t *testing.T) {
	cfg := &Config{Env: "development", FallbackMode: "sometimes"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown fallback mode")
	}
}

func TestValidate_ProductionSecret(t *testing.T) {
	cfg := &Config{Env: "production", JWTSecret: "dev-secret"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for default secret outside development")
	}

	cfg.JWTSecret = "something-else"
	cfg.FallbackMode = "never"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFallback_ProductionDefaultsToNever(t *testing.T) {
	cfg := &Config{Env: "production"}
	if cfg.Fallback() != fallback.ModeNever {
		t.Errorf("production should never degrade by default, got %s", cfg.Fallback())
	}
}

func TestTimeout(t *testing.T) {
	cfg := &Config{HTTPTimeout: 30}
	if cfg.Timeout().Seconds() != 30 {
		t.Errorf("unexpected timeout: %v", cfg.Timeout())
	}
	cfg.HTTPTimeout = 0
	if cfg.Timeout().Seconds() != 10 {
		t.Errorf("expected 10s default, got %v", cfg.Timeout())
	}
}
