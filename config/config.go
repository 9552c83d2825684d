// Package config provides configuration loading and management for semcue.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semcue/cuephrase"
	"github.com/c360studio/semcue/transition"
)

// Config represents the complete semcue configuration
type Config struct {
	Language LanguageConfig `yaml:"language" envPrefix:"LANGUAGE_"`
	Tables   TablesConfig   `yaml:"tables" envPrefix:"TABLES_"`
	Scan     ScanConfig     `yaml:"scan" envPrefix:"SCAN_"`
	HTTP     HTTPConfig     `yaml:"http" envPrefix:"HTTP_"`
	NATS     NATSConfig     `yaml:"nats" envPrefix:"NATS_"`
	Fetch    FetchConfig    `yaml:"fetch" envPrefix:"FETCH_"`
	Watch    WatchConfig    `yaml:"watch" envPrefix:"WATCH_"`
}

// LanguageConfig selects the language used when none is given
type LanguageConfig struct {
	// Default is a BCP 47 code such as "en" or "he"
	Default string `yaml:"default" env:"DEFAULT"`
}

// TablesConfig points at cue phrase tables on disk that extend or override
// the built-in ones
type TablesConfig struct {
	// Dir is the directory holding extra tables (empty = built-in tables only)
	Dir string `yaml:"dir" env:"DIR"`
	// Pattern selects table files below Dir (doublestar syntax)
	Pattern string `yaml:"pattern" env:"PATTERN"`
}

// ScanConfig configures transition word assessment
type ScanConfig struct {
	// MinWords is the shortest text that gets a rating
	MinWords int `yaml:"min_words" env:"MIN_WORDS"`
	// GoodPercentage is the share of transition sentences rated good
	GoodPercentage float64 `yaml:"good_percentage" env:"GOOD_PERCENTAGE"`
	// OKPercentage is the share of transition sentences rated ok
	OKPercentage float64 `yaml:"ok_percentage" env:"OK_PERCENTAGE"`
}

// HTTPConfig configures the HTTP API
type HTTPConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Addr    string `yaml:"addr" env:"ADDR"`
}

// NATSConfig configures the NATS request/reply responder
type NATSConfig struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	// Embedded starts an in-process NATS server instead of dialing URL
	Embedded bool   `yaml:"embedded" env:"EMBEDDED"`
	URL      string `yaml:"url" env:"URL"`
	Subject  string `yaml:"subject" env:"SUBJECT"`
	// Queue is the queue group shared by responder replicas
	Queue string `yaml:"queue" env:"QUEUE"`
}

// FetchConfig configures web page fetching
type FetchConfig struct {
	Timeout        time.Duration `yaml:"timeout" env:"TIMEOUT"`
	MaxContentSize int64         `yaml:"max_content_size" env:"MAX_CONTENT_SIZE"`
	UserAgent      string        `yaml:"user_agent" env:"USER_AGENT"`
}

// WatchConfig configures scan --watch
type WatchConfig struct {
	DebounceDelay time.Duration `yaml:"debounce_delay" env:"DEBOUNCE_DELAY"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	th := transition.DefaultThresholds()
	return &Config{
		Language: LanguageConfig{
			Default: "en",
		},
		Tables: TablesConfig{
			Pattern: cuephrase.DefaultPattern,
		},
		Scan: ScanConfig{
			MinWords:       th.MinWords,
			GoodPercentage: th.Good,
			OKPercentage:   th.OK,
		},
		HTTP: HTTPConfig{
			Enabled: true,
			Addr:    ":8480",
		},
		NATS: NATSConfig{
			Enabled: false,
			URL:     "nats://localhost:4222",
			Subject: "semcue.phrases",
			Queue:   "semcue",
		},
		Fetch: FetchConfig{
			Timeout:        30 * time.Second,
			MaxContentSize: 5 << 20,
			UserAgent:      "semcue/1.0",
		},
		Watch: WatchConfig{
			DebounceDelay: 500 * time.Millisecond,
		},
	}
}

// Thresholds returns the assessment thresholds
func (c *Config) Thresholds() transition.Thresholds {
	return transition.Thresholds{
		MinWords: c.Scan.MinWords,
		Good:     c.Scan.GoodPercentage,
		OK:       c.Scan.OKPercentage,
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := cuephrase.NormalizeLanguage(c.Language.Default); err != nil {
		return fmt.Errorf("language.default: %w", err)
	}
	if err := c.Thresholds().Validate(); err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	if c.HTTP.Enabled && c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is required when http is enabled")
	}
	if c.NATS.Enabled {
		if c.NATS.URL == "" && !c.NATS.Embedded {
			return fmt.Errorf("nats.url is required when nats is enabled")
		}
		if c.NATS.Subject == "" {
			return fmt.Errorf("nats.subject is required when nats is enabled")
		}
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch.timeout must not be negative")
	}
	if c.Fetch.MaxContentSize < 0 {
		return fmt.Errorf("fetch.max_content_size must not be negative")
	}
	if c.Watch.DebounceDelay < 0 {
		return fmt.Errorf("watch.debounce_delay must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := config.ApplyFile(path); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyFile overlays the settings present in a YAML file onto c. Keys missing
// from the file keep their current values.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
