package app

import (
	"errors"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PlanPath string // path to a .hcl plan file or a directory of them
	Input    map[string]any

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	StepTimeout  time.Duration // default per-step bound, 0 disables
	GroupTimeout time.Duration // default per-group bound, 0 disables
	AbortOnError bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.PlanPath == "" {
		return nil, errors.New("PlanPath is a required configuration field and cannot be empty")
	}
	if cfg.StepTimeout < 0 || cfg.GroupTimeout < 0 {
		return nil, errors.New("timeouts cannot be negative")
	}

	return &cfg, nil
}
