package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.NATS.SubjectPrefix != "coach.chat" {
		t.Errorf("unexpected default subject prefix: %q", cfg.NATS.SubjectPrefix)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing NATS URL",
			mutate:  func(c *Config) { c.NATS.URL = "" },
			wantErr: true,
		},
		{
			name:    "missing subject prefix",
			mutate:  func(c *Config) { c.NATS.SubjectPrefix = "" },
			wantErr: true,
		},
		{
			name:    "subject prefix with trailing dot",
			mutate:  func(c *Config) { c.NATS.SubjectPrefix = "coach.chat." },
			wantErr: true,
		},
		{
			name:    "non-positive idle TTL",
			mutate:  func(c *Config) { c.Relay.IdleTTL = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coachstream.yaml")

	content := `
nats:
  url: nats://nats.internal:4222
  subject_prefix: coach.dev
relay:
  idle_ttl: 90s
extract:
  disable_bare_fallback: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.NATS.URL != "nats://nats.internal:4222" {
		t.Errorf("NATS URL = %q", cfg.NATS.URL)
	}
	if cfg.NATS.SubjectPrefix != "coach.dev" {
		t.Errorf("subject prefix = %q", cfg.NATS.SubjectPrefix)
	}
	if cfg.Relay.IdleTTL != 90*time.Second {
		t.Errorf("idle TTL = %v", cfg.Relay.IdleTTL)
	}
	// Unset sections keep their defaults.
	if cfg.Metrics.Addr != ":9110" {
		t.Errorf("metrics addr = %q", cfg.Metrics.Addr)
	}

	opts := cfg.Extract.Options()
	if opts.BareSuggestionFallback {
		t.Error("bare fallback should be disabled")
	}
	if !opts.LegacySuggestionTag {
		t.Error("legacy tag should stay enabled")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	other := &Config{}
	other.NATS.SubjectPrefix = "coach.staging"
	other.Relay.IdleTTL = time.Minute
	other.Extract.DisableLegacyTag = true

	base.Merge(other)

	if base.NATS.SubjectPrefix != "coach.staging" {
		t.Errorf("subject prefix = %q", base.NATS.SubjectPrefix)
	}
	if base.NATS.URL != "nats://127.0.0.1:4222" {
		t.Errorf("URL should keep default, got %q", base.NATS.URL)
	}
	if base.Relay.IdleTTL != time.Minute {
		t.Errorf("idle TTL = %v", base.Relay.IdleTTL)
	}
	if !base.Extract.DisableLegacyTag {
		t.Error("legacy tag disable flag should merge")
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.NATS.SubjectPrefix = "coach.test"
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if loaded.NATS.SubjectPrefix != "coach.test" {
		t.Errorf("round-trip subject prefix = %q", loaded.NATS.SubjectPrefix)
	}
}
