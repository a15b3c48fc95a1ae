package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Threshold profiles shipped with the monitor
const (
	ProfileStandard = "standard"
	ProfileStressed = "stressed"
)

// Thresholds holds the operator-configured alert boundaries, in percent
type Thresholds struct {
	Delinquency float64 `toml:"delinquency"`
	Decline     float64 `toml:"decline"`
}

var profiles = map[string]Thresholds{
	ProfileStandard: {Delinquency: 3.0, Decline: 1.5},
	ProfileStressed: {Delinquency: 7.0, Decline: 3.0},
}

// ProfileThresholds returns the thresholds of a named profile
func ProfileThresholds(name string) (Thresholds, bool) {
	th, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	return th, ok
}

// Validate rejects negative thresholds
func (t Thresholds) Validate() error {
	if t.Delinquency < 0 {
		return fmt.Errorf("delinquency threshold must be non-negative, got %v", t.Delinquency)
	}
	if t.Decline < 0 {
		return fmt.Errorf("decline threshold must be non-negative, got %v", t.Decline)
	}
	return nil
}

// Config holds all application configuration
type Config struct {
	FREDAPIKey          string     `toml:"-"`
	FREDBaseURL         string     `toml:"fred_base_url"`
	DelinquencySeriesID string     `toml:"delinquency_series_id"`
	VehicleSeriesID     string     `toml:"vehicle_series_id"`
	Profile             string     `toml:"profile"`
	Thresholds          Thresholds `toml:"thresholds"`
	LogLevel            string     `toml:"log_level"`
	LogPretty           bool       `toml:"log_pretty"`
	RequestTimeout      int        `toml:"request_timeout"`  // seconds
	RequestsPerSec      int        `toml:"requests_per_sec"` // 0 means unlimited
	MaxRetries          int        `toml:"max_retries"`
	RefreshInterval     int        `toml:"refresh_interval"` // seconds, 0 runs a single pass
	ChartPoints         int        `toml:"chart_points"`
	MetricsAddr         string     `toml:"metrics_addr"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		FREDBaseURL:         "https://api.stlouisfed.org/fred",
		DelinquencySeriesID: "DRCLACBS",
		VehicleSeriesID:     "CUSR0000SETA02",
		Profile:             ProfileStandard,
		Thresholds:          profiles[ProfileStandard],
		LogLevel:            "info",
		LogPretty:           true,
		RequestTimeout:      30,
		ChartPoints:         48,
	}
}

// Load initializes configuration from an optional TOML file, a .env file and
// environment variables. Precedence: defaults < CONFIG_FILE < .env < environment.
// The .env file is read on every call and never copied into the process environment,
// so edits to it are seen by later loads.
func Load() (*Config, error) {
	env := readEnv()

	cfg := Default()

	if path := env.get("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	env.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	before := cfg.Profile
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("decoding config file %s: %w", path, err)
	}
	if cfg.Profile == before {
		return nil
	}

	// A profile chosen in the file resets both thresholds; keys pinned in the file win
	th, ok := ProfileThresholds(cfg.Profile)
	if !ok {
		return fmt.Errorf("unknown threshold profile %q", cfg.Profile)
	}
	if md.IsDefined("thresholds", "delinquency") {
		th.Delinquency = cfg.Thresholds.Delinquency
	}
	if md.IsDefined("thresholds", "decline") {
		th.Decline = cfg.Thresholds.Decline
	}
	cfg.Thresholds = th
	return nil
}

func (e envSource) apply(cfg *Config) {
	cfg.FREDAPIKey = e.get("FRED_API_KEY")
	cfg.FREDBaseURL = e.getWithDefault("FRED_BASE_URL", cfg.FREDBaseURL)
	cfg.DelinquencySeriesID = e.getWithDefault("DELINQUENCY_SERIES_ID", cfg.DelinquencySeriesID)
	cfg.VehicleSeriesID = e.getWithDefault("VEHICLE_SERIES_ID", cfg.VehicleSeriesID)

	if profile := e.get("THRESHOLD_PROFILE"); profile != "" {
		cfg.Profile = profile
		if th, ok := ProfileThresholds(profile); ok {
			cfg.Thresholds = th
		}
	}
	cfg.Thresholds.Delinquency = e.getFloatWithDefault("DELINQUENCY_THRESHOLD", cfg.Thresholds.Delinquency)
	cfg.Thresholds.Decline = e.getFloatWithDefault("DECLINE_THRESHOLD", cfg.Thresholds.Decline)

	cfg.LogLevel = e.getWithDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogPretty = e.getBoolWithDefault("LOG_PRETTY", cfg.LogPretty)
	cfg.RequestTimeout = e.getIntWithDefault("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.RequestsPerSec = e.getIntWithDefault("REQUESTS_PER_SEC", cfg.RequestsPerSec)
	cfg.MaxRetries = e.getIntWithDefault("MAX_RETRIES", cfg.MaxRetries)
	cfg.RefreshInterval = e.getIntWithDefault("REFRESH_INTERVAL", cfg.RefreshInterval)
	cfg.ChartPoints = e.getIntWithDefault("CHART_POINTS", cfg.ChartPoints)
	cfg.MetricsAddr = e.getWithDefault("METRICS_ADDR", cfg.MetricsAddr)
}

// Validate checks the loaded configuration for values the monitor cannot run with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.FREDAPIKey) == "" {
		return errors.New("FRED_API_KEY is not set")
	}
	if _, ok := ProfileThresholds(c.Profile); !ok {
		return fmt.Errorf("unknown threshold profile %q", c.Profile)
	}
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if c.DelinquencySeriesID == "" || c.VehicleSeriesID == "" {
		return errors.New("series identifiers must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %d", c.RequestTimeout)
	}
	if c.RequestsPerSec < 0 || c.MaxRetries < 0 || c.RefreshInterval < 0 {
		return errors.New("requests per second, max retries and refresh interval must be non-negative")
	}
	return nil
}

// envSource resolves keys from the process environment first, then from the .env file
type envSource struct {
	dotenv map[string]string
}

func readEnv() envSource {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	values, err := godotenv.Read(path)
	if err != nil {
		log.Debug().Str("path", path).Msg(".env file not found, relying on actual environment variables")
		values = map[string]string{}
	}
	return envSource{dotenv: values}
}

// Helper functions for environment variable handling
func (e envSource) get(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return e.dotenv[key]
}

func (e envSource) getWithDefault(key, defaultValue string) string {
	if value := e.get(key); value != "" {
		return value
	}
	return defaultValue
}

func (e envSource) getIntWithDefault(key string, defaultValue int) int {
	if value := e.get(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer environment value")
	}
	return defaultValue
}

func (e envSource) getFloatWithDefault(key string, defaultValue float64) float64 {
	if value := e.get(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric environment value")
	}
	return defaultValue
}

func (e envSource) getBoolWithDefault(key string, defaultValue bool) bool {
	if value := e.get(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
