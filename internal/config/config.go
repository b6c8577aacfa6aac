package config

import (
	"os"
	"strconv"
	"time"

	"fieldlens/internal/errors"
)

// Config represents the complete application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Geocoder  GeocoderConfig
	Analytics AnalyticsConfig
}

// ServerConfig holds web server settings.
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds the optional Postgres connection. An empty URL
// disables the Postgres response source; the server then serves the
// built-in demo dataset.
type DatabaseConfig struct {
	URL string
}

// GeocoderConfig holds the reverse-geocoding provider settings. Delay is
// the minimum pause between consecutive provider calls; the provider
// enforces roughly one request per second server-side, so the default
// stays above that.
type GeocoderConfig struct {
	BaseURL   string
	Language  string
	Delay     time.Duration
	Timeout   time.Duration
	BatchCap  int
	CacheSize int
	TopZones  int
}

// AnalyticsConfig overrides the insight threshold defaults. Zero values
// mean "use the documented default".
type AnalyticsConfig struct {
	ConcentrationPct  float64
	BalancedSpreadPts float64
	RatingPositivePct float64
	RatingNeutralPct  float64
	TextVolumeMin     int
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Geocoder: GeocoderConfig{
			BaseURL:   getEnvOrDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
			Language:  getEnvOrDefault("GEOCODER_LANGUAGE", "fr"),
			Delay:     getEnvDurationOrDefault("GEOCODER_DELAY", 1100*time.Millisecond),
			Timeout:   getEnvDurationOrDefault("GEOCODER_TIMEOUT", 5*time.Second),
			BatchCap:  getEnvIntOrDefault("GEOCODER_BATCH_CAP", 25),
			CacheSize: getEnvIntOrDefault("GEOCODER_CACHE_SIZE", 1000),
			TopZones:  getEnvIntOrDefault("GEOCODER_TOP_ZONES", 20),
		},
		Analytics: AnalyticsConfig{
			ConcentrationPct:  getEnvFloatOrDefault("INSIGHT_CONCENTRATION_PCT", 0),
			BalancedSpreadPts: getEnvFloatOrDefault("INSIGHT_BALANCED_SPREAD_PTS", 0),
			RatingPositivePct: getEnvFloatOrDefault("INSIGHT_RATING_POSITIVE_PCT", 0),
			RatingNeutralPct:  getEnvFloatOrDefault("INSIGHT_RATING_NEUTRAL_PCT", 0),
			TextVolumeMin:     getEnvIntOrDefault("INSIGHT_TEXT_VOLUME_MIN", 0),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if cfg.Geocoder.BaseURL == "" {
		return errors.ConfigInvalid("GEOCODER_BASE_URL must not be empty")
	}
	if cfg.Geocoder.Delay < 0 {
		return errors.ConfigInvalid("GEOCODER_DELAY must not be negative")
	}
	if cfg.Geocoder.BatchCap <= 0 {
		return errors.ConfigInvalid("GEOCODER_BATCH_CAP must be positive")
	}
	if cfg.Geocoder.CacheSize <= 0 {
		return errors.ConfigInvalid("GEOCODER_CACHE_SIZE must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
