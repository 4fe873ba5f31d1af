// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all server configuration.
type Config struct {
	Addr      string `env:"PORTAL_ADDR" envDefault:":8090"`
	DataDir   string `env:"PORTAL_DATA_DIR" envDefault:"./data"`
	StaticDir string `env:"PORTAL_STATIC_DIR" envDefault:"./static"`

	// FixedDatesPath optionally overrides the built-in commemorative date
	// table with a YAML file.
	FixedDatesPath string `env:"PORTAL_FIXED_DATES"`

	// ReminderSpec is the cron spec (seconds-first) for the overdue sweep.
	ReminderSpec string `env:"PORTAL_REMINDER_SPEC" envDefault:"0 0 8 * * *"`

	// WeekStart is the first day of the calendar week: monday or sunday.
	WeekStart string `env:"PORTAL_WEEK_START" envDefault:"monday"`
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.WeekStart != "monday" && cfg.WeekStart != "sunday" {
		return nil, fmt.Errorf("PORTAL_WEEK_START must be monday or sunday, got %q", cfg.WeekStart)
	}

	return &cfg, nil
}

// WeekStartDay maps the configured week start onto time.Weekday.
func (c *Config) WeekStartDay() time.Weekday {
	if c.WeekStart == "sunday" {
		return time.Sunday
	}
	return time.Monday
}
