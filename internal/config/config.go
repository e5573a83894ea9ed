package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default tariff rates per kWh for the low and high periods
const (
	DefaultLowRate  = 0.1
	DefaultHighRate = 0.3
)

// Config holds the application configuration
type Config struct {
	Timezone      string       `yaml:"timezone,omitempty"` // IANA name, e.g. "America/New_York" (default: Local)
	Tariff        TariffConfig `yaml:"tariff,omitempty"`
	Log           LogConfig    `yaml:"log,omitempty"`
	MQTT          MQTTConfig   `yaml:"mqtt,omitempty"`
	HomeAssistant HAConfig     `yaml:"home_assistant,omitempty"`
}

// TariffConfig overrides the per-period rates
type TariffConfig struct {
	LowRate  float64 `yaml:"low_rate,omitempty"`
	HighRate float64 `yaml:"high_rate,omitempty"`
}

// LogConfig controls the process logger
type LogConfig struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error
	File  string `yaml:"file,omitempty"`
}

// MQTTConfig holds MQTT broker settings
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://homeassistant.local:8123"
	Token    string `yaml:"token"`     // Long-lived access token
	EntityID string `yaml:"entity_id"` // e.g., "sensor.customer_tariffs"
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetLowRate returns the low period rate, falling back to the default for
// zero, negative and infinite values
func (c *Config) GetLowRate() float64 {
	if c.Tariff.LowRate > 0 && !math.IsInf(c.Tariff.LowRate, 0) {
		return c.Tariff.LowRate
	}
	return DefaultLowRate
}

// GetHighRate returns the high period rate, falling back to the default
func (c *Config) GetHighRate() float64 {
	if c.Tariff.HighRate > 0 && !math.IsInf(c.Tariff.HighRate, 0) {
		return c.Tariff.HighRate
	}
	return DefaultHighRate
}

// GetLocation resolves the configured timezone
func (c *Config) GetLocation() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// GetLogLevel returns the log level with a default of info
func (c *Config) GetLogLevel() string {
	if c.Log.Level == "" {
		return "info"
	}
	return c.Log.Level
}

// GetTopicPrefix returns the MQTT topic prefix with a default of "gridtariff"
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return "gridtariff"
	}
	return c.MQTT.TopicPrefix
}
