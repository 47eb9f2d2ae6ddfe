// Package config provides configuration loading and management for coachstream.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/procwise/coachstream/extract"
)

// Config represents the complete coachstream configuration.
type Config struct {
	NATS    NATSConfig    `yaml:"nats"`
	Relay   RelayConfig   `yaml:"relay"`
	Metrics MetricsConfig `yaml:"metrics"`
	Extract ExtractConfig `yaml:"extract"`
}

// NATSConfig configures the NATS connection.
type NATSConfig struct {
	// URL is the NATS server URL.
	URL string `yaml:"url"`
	// SubjectPrefix is the root of the chat subject hierarchy
	// (default: "coach.chat").
	SubjectPrefix string `yaml:"subject_prefix"`
}

// RelayConfig configures the chunk relay.
type RelayConfig struct {
	// IdleTTL is how long an in-flight message may go without a chunk
	// before its accumulator is evicted.
	IdleTTL time.Duration `yaml:"idle_ttl"`
}

// UnmarshalYAML accepts Go duration strings ("90s", "5m") as well as bare
// integer nanoseconds for idle_ttl.
func (r *RelayConfig) UnmarshalYAML(value *yaml.Node) error {
	var aux struct {
		IdleTTL yaml.Node `yaml:"idle_ttl"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	raw := strings.TrimSpace(aux.IdleTTL.Value)
	if raw == "" {
		return nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		r.IdleTTL = d
		return nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		r.IdleTTL = time.Duration(n)
		return nil
	}
	return fmt.Errorf("relay.idle_ttl: cannot parse %q as a duration", raw)
}

// MarshalYAML writes idle_ttl as a duration string.
func (r RelayConfig) MarshalYAML() (any, error) {
	return map[string]string{"idle_ttl": r.IdleTTL.String()}, nil
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	// Addr is the HTTP listen address for /metrics (empty disables it).
	Addr string `yaml:"addr"`
}

// ExtractConfig configures the payload extractor. The zero value matches
// production behavior: legacy tag and bare-object fallback both accepted.
type ExtractConfig struct {
	// DisableLegacyTag rejects the retired single-object suggestion fence.
	DisableLegacyTag bool `yaml:"disable_legacy_tag"`
	// DisableBareFallback skips the unfenced suggestion-object scan.
	DisableBareFallback bool `yaml:"disable_bare_fallback"`
}

// Options converts the section into extractor options.
func (c ExtractConfig) Options() extract.Options {
	return extract.Options{
		LegacySuggestionTag:    !c.DisableLegacyTag,
		BareSuggestionFallback: !c.DisableBareFallback,
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		NATS: NATSConfig{
			URL:           "nats://127.0.0.1:4222",
			SubjectPrefix: "coach.chat",
		},
		Relay: RelayConfig{
			IdleTTL: 5 * time.Minute,
		},
		Metrics: MetricsConfig{
			Addr: ":9110",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required")
	}
	if c.NATS.SubjectPrefix == "" {
		return fmt.Errorf("nats.subject_prefix is required")
	}
	if strings.HasSuffix(c.NATS.SubjectPrefix, ".") {
		return fmt.Errorf("nats.subject_prefix must not end with '.'")
	}
	if c.Relay.IdleTTL <= 0 {
		return fmt.Errorf("relay.idle_ttl must be positive")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
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

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.SubjectPrefix != "" {
		c.NATS.SubjectPrefix = other.NATS.SubjectPrefix
	}
	if other.Relay.IdleTTL != 0 {
		c.Relay.IdleTTL = other.Relay.IdleTTL
	}
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
	if other.Extract.DisableLegacyTag {
		c.Extract.DisableLegacyTag = true
	}
	if other.Extract.DisableBareFallback {
		c.Extract.DisableBareFallback = true
	}
}
