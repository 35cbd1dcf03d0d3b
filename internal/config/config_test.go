package config

import (
	"os"
	"path/filepath"
	"testing"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	return configPath
}

const partialConfigYAML = `
listen: "0.0.0.0:9000"
log_level: DEBUG
weather:
  latitude: 1.3030
  longitude: 103.9127
crew:
  owner: "  Captain  "
events:
  - id: 7
    name: "Changi Sweep"
    date: "2025-12-28"
    time: "07:30 AM"
    location: "Changi Beach"
    participants: 5
    description: "Dawn sweep"
    recurrence: "FREQ=MONTHLY;COUNT=3"
`

func TestLoad_FirstRunCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Listen != DefaultListen {
		t.Errorf("Expected listen %q, got %q", DefaultListen, cfg.Listen)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected config file to be created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("Expected 0600 permissions, got %o", perm)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if again.Weather.Refresh != DefaultRefresh {
		t.Errorf("Expected refresh %q after reload, got %q", DefaultRefresh, again.Weather.Refresh)
	}
}

func TestLoad_PartialConfigIsNormalized(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, partialConfigYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Listen != "0.0.0.0:9000" {
		t.Errorf("Expected listen override, got %q", cfg.Listen)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level to be lowercased, got %q", cfg.LogLevel)
	}
	if cfg.Timezone != DefaultTimezone {
		t.Errorf("Expected default timezone, got %q", cfg.Timezone)
	}
	if cfg.Weather.BaseURL != DefaultWeatherURL {
		t.Errorf("Expected default base URL, got %q", cfg.Weather.BaseURL)
	}
	if cfg.Weather.Latitude != 1.3030 {
		t.Errorf("Expected configured latitude, got %v", cfg.Weather.Latitude)
	}
	if cfg.Weather.TimeoutSeconds != DefaultTimeoutSec {
		t.Errorf("Expected default timeout, got %d", cfg.Weather.TimeoutSeconds)
	}
	if cfg.Crew.Owner != "Captain" {
		t.Errorf("Expected trimmed owner, got %q", cfg.Crew.Owner)
	}
	if len(cfg.Events) != 1 || cfg.Events[0].Recurrence != "FREQ=MONTHLY;COUNT=3" {
		t.Errorf("Expected one recurring event, got %+v", cfg.Events)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := Load(createTempConfigFile(t, "invalid: yaml: content: [}")); err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("Expected error for empty path")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}, wantErr: false},
		{name: "duplicate ids", mutate: func(c *Config) {
			c.Events = []EventConfig{{ID: 1}, {ID: 1}}
		}, wantErr: true},
		{name: "zero id", mutate: func(c *Config) {
			c.Events = []EventConfig{{ID: 0}}
		}, wantErr: true},
		{name: "negative participants", mutate: func(c *Config) {
			c.Events = []EventConfig{{ID: 2, Participants: -1}}
		}, wantErr: true},
		{name: "wall-clock cron refresh", mutate: func(c *Config) {
			c.Weather.Refresh = "*/30 * * * *"
		}, wantErr: true},
		{name: "zero interval refresh", mutate: func(c *Config) {
			c.Weather.Refresh = "@every 0s"
		}, wantErr: true},
		{name: "custom interval refresh", mutate: func(c *Config) {
			c.Weather.Refresh = "@every 15m"
		}, wantErr: false},
		{name: "empty feed url", mutate: func(c *Config) {
			c.Feeds = []FeedConfig{{ID: "partners", URL: "  "}}
		}, wantErr: true},
		{name: "latitude out of range", mutate: func(c *Config) {
			c.Weather.Latitude = 120
		}, wantErr: true},
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

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("SHORESQUAD_LOG_LEVEL=warn\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("SHORESQUAD_LISTEN", "127.0.0.1:9999")
	t.Cleanup(func() { os.Unsetenv("SHORESQUAD_LOG_LEVEL") })

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(envFile); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.Listen != "127.0.0.1:9999" {
		t.Errorf("Expected listen from env, got %q", cfg.Listen)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected log level from .env, got %q", cfg.LogLevel)
	}

	if err := DefaultConfig().ApplyEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("Missing .env should not be an error: %v", err)
	}
}
