package app

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	UsecasePath string // .hcl/.yaml file or directory
	KindsPath   string // optional extra kind manifests

	OutDir      string
	WriteScript bool
	WriteDOT    bool
	WriteHTML   bool

	// SettleDelay overrides the use-case file when SettleDelaySet is true.
	SettleDelay    time.Duration
	SettleDelaySet bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.UsecasePath == "" {
		return nil, errors.New("UsecasePath is a required configuration field and cannot be empty")
	}
	if cfg.SettleDelay < 0 {
		return nil, fmt.Errorf("settle delay must not be negative, got %s", cfg.SettleDelay)
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	return &cfg, nil
}
