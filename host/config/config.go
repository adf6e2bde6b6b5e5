// Package config loads the lockbox host tool configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Bus     BusConfig     `yaml:"bus"`
	Console ConsoleConfig `yaml:"console"`
}

// ---- OPERATOR SERIAL ----

type SerialConfig struct {
	Device        string `yaml:"device"`
	Baud          int    `yaml:"baud"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
}

// ---- HOST BUS ----

type BusConfig struct {
	SPI               string `yaml:"spi"`       // periph port name, empty = first
	ReadyPin          string `yaml:"ready_pin"` // periph GPIO name
	SpeedHz           int64  `yaml:"speed_hz"`
	PollIntervalMs    int    `yaml:"poll_interval_ms"`
	ResponseTimeoutMs int    `yaml:"response_timeout_ms"`
}

// ---- CONSOLE ----

type ConsoleConfig struct {
	Prefix  string `yaml:"prefix"`
	QuietMs int    `yaml:"quiet_ms"`
}

// Defaults
const (
	DefaultDevice            = "/dev/ttyUSB0"
	DefaultBaud              = 9600
	DefaultReadTimeoutMs     = 100
	DefaultReadyPin          = "GPIO69" // BeagleBone P8_9
	DefaultSpeedHz           = 1000000
	DefaultPollIntervalMs    = 10
	DefaultResponseTimeoutMs = 2000
	DefaultPrefix            = "CMD"
	DefaultQuietMs           = 300
)

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and validates a YAML file. A missing path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, validates it, then fills unset fields
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults fills zero fields. Must be called only after Validate.
func applyDefaults(cfg *Config) {
	if cfg.Serial.Device == "" {
		cfg.Serial.Device = DefaultDevice
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = DefaultBaud
	}
	if cfg.Serial.ReadTimeoutMs == 0 {
		cfg.Serial.ReadTimeoutMs = DefaultReadTimeoutMs
	}
	if cfg.Bus.ReadyPin == "" {
		cfg.Bus.ReadyPin = DefaultReadyPin
	}
	if cfg.Bus.SpeedHz == 0 {
		cfg.Bus.SpeedHz = DefaultSpeedHz
	}
	if cfg.Bus.PollIntervalMs == 0 {
		cfg.Bus.PollIntervalMs = DefaultPollIntervalMs
	}
	if cfg.Bus.ResponseTimeoutMs == 0 {
		cfg.Bus.ResponseTimeoutMs = DefaultResponseTimeoutMs
	}
	if cfg.Console.Prefix == "" {
		cfg.Console.Prefix = DefaultPrefix
	}
	if cfg.Console.QuietMs == 0 {
		cfg.Console.QuietMs = DefaultQuietMs
	}
}

// PollInterval returns the bus poll interval as a duration
func (b BusConfig) PollInterval() time.Duration {
	return time.Duration(b.PollIntervalMs) * time.Millisecond
}

// ResponseTimeout returns the status response bound as a duration
func (b BusConfig) ResponseTimeout() time.Duration {
	return time.Duration(b.ResponseTimeoutMs) * time.Millisecond
}

// Quiet returns the console reply quiet period as a duration
func (c ConsoleConfig) Quiet() time.Duration {
	return time.Duration(c.QuietMs) * time.Millisecond
}
