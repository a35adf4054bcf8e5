// Package config provides configuration management for the application.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amaumene/episodebot/internal/constants"
	"github.com/amaumene/episodebot/pkg/logger"
	"github.com/amaumene/episodebot/pkg/security"
)

const (
	// Default configuration file name
	defaultConfigFile = "config.json"
)

// Duration is a time.Duration that reads "30s"-style strings from JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config holds the application configuration.
// It is built once at startup and handed to every component that needs it.
type Config struct {
	// Credentials
	TMDBAccessToken string `json:"TMDB_ACCESS_TOKEN"`
	GitHubToken     string `json:"GITHUB_TOKEN"`

	// Catalog
	ListID           string `json:"TMDB_LIST_ID"`
	TMDBBaseURL      string `json:"TMDB_BASE_URL"`
	TMDBImageBaseURL string `json:"TMDB_IMAGE_BASE_URL"`
	Language         string `json:"TMDB_LANGUAGE"`
	WatchRegion      string `json:"WATCH_REGION"`

	// Publishing
	DispatchURL string `json:"DISPATCH_URL"`

	// Scheduling and server
	Schedule string `json:"SCHEDULE"`
	Timezone string `json:"TIMEZONE"`
	Port     string `json:"PORT"`
	// TriggerToken protects the manual trigger endpoints when set.
	TriggerToken string `json:"TRIGGER_TOKEN"`

	// Misc
	ServiceMapFile string   `json:"SERVICE_MAP_FILE"`
	LogLevel       string   `json:"LOG_LEVEL"`
	LogFile        string   `json:"LOG_FILE"`
	HTTPTimeout    Duration `json:"HTTP_TIMEOUT"`

	location *time.Location
}

// Load reads configuration from an optional JSON file and environment
// variables. Environment variables take precedence over file values.
// Returns an error if the configuration is invalid.
func Load() (*Config, error) {
	cfg := Default()

	// Load from config file if exists
	configFile := getEnvOrDefault("CONFIG_FILE", defaultConfigFile)
	if err := cfg.loadFromFile(configFile); err != nil {
		// Ignore file not found errors
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Default returns a config holding only built-in defaults.
func Default() *Config {
	return &Config{
		TMDBBaseURL:      constants.DefaultTMDBBaseURL,
		TMDBImageBaseURL: constants.DefaultTMDBImageBaseURL,
		Language:         constants.DefaultTMDBLanguage,
		WatchRegion:      constants.DefaultWatchRegion,
		DispatchURL:      constants.DefaultDispatchURL,
		Schedule:         constants.DefaultSchedule,
		Timezone:         constants.DefaultTimezone,
		Port:             constants.DefaultPort,
		LogLevel:         constants.DefaultLogLevel,
		HTTPTimeout:      Duration(constants.HTTPTimeout),
	}
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() error {
	overrides := map[string]*string{
		"TMDB_ACCESS_TOKEN":   &c.TMDBAccessToken,
		"GITHUB_TOKEN":        &c.GitHubToken,
		"TMDB_LIST_ID":        &c.ListID,
		"TMDB_BASE_URL":       &c.TMDBBaseURL,
		"TMDB_IMAGE_BASE_URL": &c.TMDBImageBaseURL,
		"TMDB_LANGUAGE":       &c.Language,
		"WATCH_REGION":        &c.WatchRegion,
		"DISPATCH_URL":        &c.DispatchURL,
		"SCHEDULE":            &c.Schedule,
		"TIMEZONE":            &c.Timezone,
		"PORT":                &c.Port,
		"TRIGGER_TOKEN":       &c.TriggerToken,
		"SERVICE_MAP_FILE":    &c.ServiceMapFile,
		"LOG_LEVEL":           &c.LogLevel,
		"LOG_FILE":            &c.LogFile,
	}
	for key, field := range overrides {
		if value := os.Getenv(key); value != "" {
			*field = value
		}
	}

	if raw := os.Getenv("HTTP_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("HTTP_TIMEOUT: %w", err)
		}
		c.HTTPTimeout = Duration(d)
	}
	return nil
}

// loadFromFile loads configuration from a JSON file.
func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, c)
}

// Validate checks if the configuration is valid and normalizes it.
func (c *Config) Validate() error {
	validator := security.NewTokenValidator()
	c.TMDBAccessToken = validator.SanitizeToken(c.TMDBAccessToken)
	c.GitHubToken = validator.SanitizeToken(c.GitHubToken)
	c.ListID = strings.TrimSpace(c.ListID)
	c.TMDBBaseURL = strings.TrimRight(c.TMDBBaseURL, "/")
	c.TMDBImageBaseURL = strings.TrimRight(c.TMDBImageBaseURL, "/")
	c.WatchRegion = strings.ToUpper(strings.TrimSpace(c.WatchRegion))

	if !validator.ValidateToken(c.TMDBAccessToken) {
		return fmt.Errorf("TMDB_ACCESS_TOKEN is missing or malformed (got %s)", security.MaskToken(c.TMDBAccessToken))
	}
	if !validator.ValidateToken(c.GitHubToken) {
		return fmt.Errorf("GITHUB_TOKEN is missing or malformed (got %s)", security.MaskToken(c.GitHubToken))
	}
	c.TriggerToken = validator.SanitizeToken(c.TriggerToken)
	if c.TriggerToken != "" && !validator.ValidateToken(c.TriggerToken) {
		return fmt.Errorf("TRIGGER_TOKEN is malformed (got %s)", security.MaskToken(c.TriggerToken))
	}
	if c.ListID == "" {
		return fmt.Errorf("TMDB_LIST_ID is required")
	}
	if c.WatchRegion == "" {
		return fmt.Errorf("WATCH_REGION must not be empty")
	}
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("unknown LOG_LEVEL %q", c.LogLevel)
	}
	if time.Duration(c.HTTPTimeout) <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return fmt.Errorf("SCHEDULE %q: %w", c.Schedule, err)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc

	return nil
}

// Location returns the time zone used for schedules and page timestamps.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// Timeout returns the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTPTimeout)
}

// getEnvOrDefault returns environment variable value or default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
