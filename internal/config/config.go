package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/hospreg/hospreg/internal/platform/fallback"
)

type Config struct {
	APIBaseURL   string `mapstructure:"API_BASE_URL"`
	Env          string `mapstructure:"ENV"`
	HTTPTimeout  int    `mapstructure:"HTTP_TIMEOUT"`
	SessionFile  string `mapstructure:"SESSION_FILE"`
	FallbackMode string `mapstructure:"FALLBACK_MODE"`
	MockPort     string `mapstructure:"MOCK_PORT"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("HTTP_TIMEOUT", 10)
	v.SetDefault("SESSION_FILE", defaultSessionFile())
	v.SetDefault("FALLBACK_MODE", "")
	v.SetDefault("MOCK_PORT", "8080")
	v.SetDefault("JWT_SECRET", "dev-secret")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("API_BASE_URL")
	v.BindEnv("ENV")
	v.BindEnv("HTTP_TIMEOUT")
	v.BindEnv("SESSION_FILE")
	v.BindEnv("FALLBACK_MODE")
	v.BindEnv("MOCK_PORT")
	v.BindEnv("JWT_SECRET")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}

	return cfg, nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hospreg/user.json"
	}
	return filepath.Join(home, ".hospreg", "user.json")
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Timeout returns the HTTP client timeout.
func (c *Config) Timeout() time.Duration {
	if c.HTTPTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.HTTPTimeout) * time.Second
}

// Fallback returns the effective degradation mode. If FALLBACK_MODE is
// explicitly set, it is returned. Otherwise development degrades to fixture
// data and every other environment surfaces failures.
func (c *Config) Fallback() fallback.Mode {
	if c.FallbackMode != "" {
		return fallback.Mode(c.FallbackMode)
	}
	if c.IsDev() {
		return fallback.ModeAuto
	}
	return fallback.ModeNever
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	if !c.Fallback().Valid() {
		return fmt.Errorf("FALLBACK_MODE must be \"auto\" or \"never\", got %q", c.FallbackMode)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("HTTP_TIMEOUT must not be negative, got %d", c.HTTPTimeout)
	}
	if !c.IsDev() && c.JWTSecret == "dev-secret" {
		return fmt.Errorf("JWT_SECRET must be changed outside development")
	}
	return nil
}
