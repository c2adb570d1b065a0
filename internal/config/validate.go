package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateInput(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateInput() error {
	if c.Input.Column == "" {
		return errors.New("input.column must be set")
	}
	if c.Input.MinLength <= 0 {
		return errors.New("input.min_length must be positive")
	}
	if c.Input.Workers <= 0 {
		return errors.New("input.workers must be positive")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	// The upper bound depends on how many files load successfully, so only
	// the fixed lower bound is checked here.
	if c.Analysis.Threshold < 2 {
		return fmt.Errorf("analysis.threshold must be at least 2, got %d", c.Analysis.Threshold)
	}
	switch c.Analysis.ThresholdPolicy {
	case ThresholdPolicyReject, ThresholdPolicyClamp:
		return nil
	default:
		return fmt.Errorf("analysis.threshold_policy must be %q or %q, got %q", ThresholdPolicyReject, ThresholdPolicyClamp, c.Analysis.ThresholdPolicy)
	}
}

func (c *Config) validateOutput() error {
	switch c.Output.Format {
	case OutputFormatTable, OutputFormatJSON:
		return nil
	default:
		return fmt.Errorf("output.format must be %q or %q, got %q", OutputFormatTable, OutputFormatJSON, c.Output.Format)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
