package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HttpPort           uint16 `envconfig:"ADHERENCE_HTTP_PORT" default:"8080" required:"true"`
	Timezone           string `envconfig:"ADHERENCE_TIMEZONE" default:"Europe/Rome"`
	EvaluationSchedule string `envconfig:"ADHERENCE_EVALUATION_SCHEDULE" default:"@every 5m"`
	WatcherEnabled     bool   `envconfig:"ADHERENCE_WATCHER_ENABLED" default:"true"`
}

func New() *Config {
	return &Config{}
}

func (c *Config) LoadFromEnv() error {
	return envconfig.Process("", c)
}

// Location returns the time zone used for day boundaries
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func NewConfig() (*Config, error) {
	cfg := New()
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}
