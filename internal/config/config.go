package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults for the fixed cleanup location (Pasir Ris Beach).
const (
	DefaultListen        = "127.0.0.1:8080"
	DefaultTimezone      = "Asia/Singapore"
	DefaultWeatherURL    = "https://api.open-meteo.com/v1/forecast"
	DefaultLatitude      = 1.381497
	DefaultLongitude     = 103.955574
	DefaultRefresh       = "@every 30m"
	DefaultTimeoutSec    = 15
	DefaultCooldownSec   = 10
	DefaultOwner         = "You"
	DefaultPreviewOutput = "./cache/preview.png"
)

// WeatherConfig describes the forecast source and refresh cadence.
type WeatherConfig struct {
	// BaseURL is the forecast endpoint (Open-Meteo compatible).
	BaseURL   string  `yaml:"base_url" json:"base_url"`
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`

	// Refresh must be an "@every <duration>" schedule. It is measured
	// from process start, not from the last successful fetch.
	Refresh string `yaml:"refresh" json:"refresh"`

	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`

	// RefreshCooldownSeconds caps manual refreshes from the Web UI.
	RefreshCooldownSeconds int `yaml:"refresh_cooldown_seconds" json:"refresh_cooldown_seconds"`
}

// CrewConfig holds the crew roster settings.
type CrewConfig struct {
	// Owner is the permanent, non-removable roster entry for the current user.
	Owner string `yaml:"owner" json:"owner"`
}

// EventConfig describes a seed event. Date is "YYYY-MM-DD".
type EventConfig struct {
	ID           int     `yaml:"id" json:"id"`
	Name         string  `yaml:"name" json:"name"`
	Date         string  `yaml:"date" json:"date"`
	Time         string  `yaml:"time" json:"time"`
	Location     string  `yaml:"location" json:"location"`
	Participants int     `yaml:"participants" json:"participants"`
	Description  string  `yaml:"description" json:"description"`
	Latitude     float64 `yaml:"latitude" json:"latitude"`
	Longitude    float64 `yaml:"longitude" json:"longitude"`
	Recurrence   string  `yaml:"recurrence,omitempty" json:"recurrence,omitempty"`
}

// FeedConfig is an extra calendar of cleanups merged into the events list.
// URL is an http(s) endpoint or a local .ics path.
type FeedConfig struct {
	ID  string `yaml:"id" json:"id"`
	URL string `yaml:"url" json:"url"`
}

// PreviewConfig controls the optional headless screenshot of the page.
type PreviewConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Output  string `yaml:"output" json:"output"`
	Width   int    `yaml:"width" json:"width"`
	Height  int    `yaml:"height" json:"height"`
	// BaseURL is what Chromium navigates to. Empty means http://<listen>/.
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone sent to the forecast API and used for dates.
	Timezone string `yaml:"timezone" json:"timezone"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	Weather WeatherConfig `yaml:"weather" json:"weather"`
	Crew    CrewConfig    `yaml:"crew" json:"crew"`

	// Events overrides the built-in sample events when non-empty.
	Events []EventConfig `yaml:"events" json:"events"`
	Feeds  []FeedConfig  `yaml:"feeds" json:"feeds"`

	Preview PreviewConfig `yaml:"preview" json:"preview"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:   DefaultListen,
		Timezone: DefaultTimezone,
		LogLevel: "info",
		Weather: WeatherConfig{
			BaseURL:                DefaultWeatherURL,
			Latitude:               DefaultLatitude,
			Longitude:              DefaultLongitude,
			Refresh:                DefaultRefresh,
			TimeoutSeconds:         DefaultTimeoutSec,
			RefreshCooldownSeconds: DefaultCooldownSec,
		},
		Crew:   CrewConfig{Owner: DefaultOwner},
		Events: []EventConfig{},
		Preview: PreviewConfig{
			Enabled: false,
			Output:  DefaultPreviewOutput,
			Width:   1280,
			Height:  1600,
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		c.LogLevel = "info"
	}

	w := &c.Weather
	if w.BaseURL == "" {
		w.BaseURL = DefaultWeatherURL
	}
	// 0,0 is in the Gulf of Guinea; treat it as "not configured".
	if w.Latitude == 0 && w.Longitude == 0 {
		w.Latitude = DefaultLatitude
		w.Longitude = DefaultLongitude
	}
	if w.Refresh == "" {
		w.Refresh = DefaultRefresh
	}
	if w.TimeoutSeconds <= 0 {
		w.TimeoutSeconds = DefaultTimeoutSec
	}
	if w.RefreshCooldownSeconds <= 0 {
		w.RefreshCooldownSeconds = DefaultCooldownSec
	}

	c.Crew.Owner = strings.TrimSpace(c.Crew.Owner)
	if c.Crew.Owner == "" {
		c.Crew.Owner = DefaultOwner
	}
	if c.Events == nil {
		c.Events = []EventConfig{}
	}

	if c.Preview.Output == "" {
		c.Preview.Output = DefaultPreviewOutput
	}
	if c.Preview.Width <= 0 {
		c.Preview.Width = 1280
	}
	if c.Preview.Height <= 0 {
		c.Preview.Height = 1600
	}
}

// Validate reports configuration values that cannot be defaulted.
func (c *Config) Validate() error {
	seen := make(map[int]bool, len(c.Events))
	for _, ev := range c.Events {
		if ev.ID <= 0 {
			return errors.New("config: event id must be positive")
		}
		if seen[ev.ID] {
			return errors.New("config: duplicate event id")
		}
		seen[ev.ID] = true
		if ev.Participants < 0 {
			return errors.New("config: event participants must not be negative")
		}
	}
	for _, f := range c.Feeds {
		if strings.TrimSpace(f.URL) == "" {
			return errors.New("config: feed url is empty")
		}
	}
	if err := validateRefresh(c.Weather.Refresh); err != nil {
		return err
	}
	if c.Weather.Latitude < -90 || c.Weather.Latitude > 90 {
		return errors.New("config: weather latitude out of range")
	}
	if c.Weather.Longitude < -180 || c.Weather.Longitude > 180 {
		return errors.New("config: weather longitude out of range")
	}
	return nil
}

// validateRefresh accepts only interval schedules; wall-clock cron
// expressions would not be measured from start.
func validateRefresh(spec string) error {
	rest, ok := strings.CutPrefix(strings.TrimSpace(spec), "@every ")
	if !ok {
		return fmt.Errorf("config: weather refresh %q must be of the form \"@every <duration>\"", spec)
	}
	d, err := time.ParseDuration(strings.TrimSpace(rest))
	if err != nil || d <= 0 {
		return fmt.Errorf("config: weather refresh %q has an invalid duration", spec)
	}
	return nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults and validate
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyEnv loads a .env file from the working directory (if any) and lets
// SHORESQUAD_LISTEN and SHORESQUAD_LOG_LEVEL override file values.
// A missing .env file is not an error.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if v := strings.TrimSpace(os.Getenv("SHORESQUAD_LISTEN")); v != "" {
		c.Listen = v
	}
	if v := strings.TrimSpace(os.Getenv("SHORESQUAD_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
	c.Normalize()
	return nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".shoresquad-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
