package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only and does not mutate cfg.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if cfg.Serial.Baud < 0 {
		return fmt.Errorf("serial: baud must not be negative, got %d", cfg.Serial.Baud)
	}
	if cfg.Serial.ReadTimeoutMs < 0 {
		return fmt.Errorf("serial: read_timeout_ms must not be negative, got %d", cfg.Serial.ReadTimeoutMs)
	}

	if cfg.Bus.SpeedHz < 0 {
		return fmt.Errorf("bus: speed_hz must not be negative, got %d", cfg.Bus.SpeedHz)
	}
	if cfg.Bus.PollIntervalMs < 0 {
		return fmt.Errorf("bus: poll_interval_ms must not be negative, got %d", cfg.Bus.PollIntervalMs)
	}
	if cfg.Bus.ResponseTimeoutMs < 0 {
		return fmt.Errorf("bus: response_timeout_ms must not be negative, got %d", cfg.Bus.ResponseTimeoutMs)
	}
	if cfg.Bus.ResponseTimeoutMs > 0 && cfg.Bus.PollIntervalMs > cfg.Bus.ResponseTimeoutMs {
		return fmt.Errorf(
			"bus: poll_interval_ms (%d) exceeds response_timeout_ms (%d)",
			cfg.Bus.PollIntervalMs,
			cfg.Bus.ResponseTimeoutMs,
		)
	}

	// The board matches the prefix as the first token of the line
	if strings.ContainsAny(cfg.Console.Prefix, " \t\r\n") {
		return fmt.Errorf("console: prefix %q must be a single token", cfg.Console.Prefix)
	}
	if strings.HasPrefix(cfg.Console.Prefix, "-") {
		return fmt.Errorf("console: prefix %q must not start with '-'", cfg.Console.Prefix)
	}
	if cfg.Console.QuietMs < 0 {
		return fmt.Errorf("console: quiet_ms must not be negative, got %d", cfg.Console.QuietMs)
	}

	return nil
}
