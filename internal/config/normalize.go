package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeInput()
	c.normalizeAnalysis()
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeInput() {
	c.Input.Column = strings.TrimSpace(c.Input.Column)
	if c.Input.Column == "" {
		c.Input.Column = defaultColumn
	}
	if c.Input.MinLength <= 0 {
		c.Input.MinLength = defaultMinLength
	}
	sentinels := make([]string, 0, len(c.Input.NullSentinels))
	seen := make(map[string]struct{}, len(c.Input.NullSentinels))
	for _, value := range c.Input.NullSentinels {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		sentinels = append(sentinels, value)
	}
	if len(sentinels) == 0 {
		sentinels = []string{defaultNullSentinel}
	}
	c.Input.NullSentinels = sentinels
	if c.Input.Workers <= 0 {
		c.Input.Workers = defaultWorkers
	}
}

func (c *Config) normalizeAnalysis() {
	c.Analysis.ThresholdPolicy = strings.ToLower(strings.TrimSpace(c.Analysis.ThresholdPolicy))
	if c.Analysis.ThresholdPolicy == "" {
		c.Analysis.ThresholdPolicy = defaultThresholdPolicy
	}
}

func (c *Config) normalizeOutput() error {
	c.Output.Dir = strings.TrimSpace(c.Output.Dir)
	if c.Output.Dir == "" {
		if value, ok := os.LookupEnv("WALLETOVERLAP_OUTPUT_DIR"); ok {
			c.Output.Dir = strings.TrimSpace(value)
		}
	}
	if c.Output.Dir != "" {
		var err error
		if c.Output.Dir, err = expandPath(c.Output.Dir); err != nil {
			return fmt.Errorf("output.dir: %w", err)
		}
	}
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = defaultOutputFormat
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		if value, ok := os.LookupEnv("WALLETOVERLAP_LOG_LEVEL"); ok {
			c.Logging.Level = strings.ToLower(strings.TrimSpace(value))
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
