package app

import (
	"errors"
	"fmt"
)

// Spec type selectors accepted by Config.SpecType.
const (
	SpecTypeOpts       = "opts"
	SpecTypeCompositor = "compositor"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Line is the specification line to parse.
	Line string
	// SpecType selects the parser: SpecTypeOpts or SpecTypeCompositor.
	SpecType string
	// Strict aborts the parse on keyword evaluation failures instead of
	// skipping the failing keyword with a warning.
	Strict bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it, filling in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Line == "" {
		return nil, errors.New("Line is a required configuration field and cannot be empty")
	}
	if cfg.SpecType == "" {
		cfg.SpecType = SpecTypeOpts
	}
	if cfg.SpecType != SpecTypeOpts && cfg.SpecType != SpecTypeCompositor {
		return nil, fmt.Errorf("SpecType must be %q or %q, got %q", SpecTypeOpts, SpecTypeCompositor, cfg.SpecType)
	}
	return &cfg, nil
}
