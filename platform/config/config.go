// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// GeocodeConfig provides settings for the geocoding provider client.
type GeocodeConfig interface {
	GetGeocodeAPIKey() string
	GetGeocodeBaseURL() string
	GetGeocodeLimit() int
	GetGeocodeCountryCodes() []string
	GetGeocodeTimeout() time.Duration
	IsGeocodeEnabled() bool
}

// CacheConfig provides settings for the provider response cache.
type CacheConfig interface {
	GetGeocodeCacheTTL() time.Duration
	GetRedisURL() string
}

// CaptureConfig provides settings for address capture sessions.
type CaptureConfig interface {
	GetDebounceInterval() time.Duration
	GetMinQueryLength() int
	GetCaptureSessionTTL() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	CORSAllowAll        bool
	CORSOrigins         []string
	CORSAllowCreds      bool
	GeocodeAPIKey       string
	GeocodeBaseURL      string
	GeocodeLimit        int
	GeocodeCountryCodes []string
	GeocodeTimeout      time.Duration
	GeocodeCacheTTL     time.Duration
	RedisURL            string
	DebounceInterval    time.Duration
	MinQueryLength      int
	CaptureSessionTTL   time.Duration
}

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// GeocodeConfig implementation
func (c *Config) GetGeocodeAPIKey() string         { return c.GeocodeAPIKey }
func (c *Config) GetGeocodeBaseURL() string        { return c.GeocodeBaseURL }
func (c *Config) GetGeocodeLimit() int             { return c.GeocodeLimit }
func (c *Config) GetGeocodeCountryCodes() []string { return c.GeocodeCountryCodes }
func (c *Config) GetGeocodeTimeout() time.Duration { return c.GeocodeTimeout }
func (c *Config) IsGeocodeEnabled() bool           { return c.GeocodeAPIKey != "" }

// CacheConfig implementation
func (c *Config) GetGeocodeCacheTTL() time.Duration { return c.GeocodeCacheTTL }
func (c *Config) GetRedisURL() string               { return c.RedisURL }

// CaptureConfig implementation
func (c *Config) GetDebounceInterval() time.Duration  { return c.DebounceInterval }
func (c *Config) GetMinQueryLength() int              { return c.MinQueryLength }
func (c *Config) GetCaptureSessionTTL() time.Duration { return c.CaptureSessionTTL }

// Load reads configuration from environment variables.
// A missing GEOCODE_API_KEY is not an error: the lookup feature degrades to
// empty suggestion lists instead of failing the surrounding forms.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		CORSAllowCreds:      strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		GeocodeAPIKey:       getEnv("GEOCODE_API_KEY", ""),
		GeocodeBaseURL:      strings.TrimRight(getEnv("GEOCODE_BASE_URL", "https://api.locationiq.com/v1"), "/"),
		GeocodeLimit:        mustInt(getEnv("GEOCODE_LIMIT", "5")),
		GeocodeCountryCodes: splitCSV(getEnv("GEOCODE_COUNTRY_CODES", "ro")),
		GeocodeTimeout:      mustDuration(getEnv("GEOCODE_TIMEOUT", "5s")),
		GeocodeCacheTTL:     mustDuration(getEnv("GEOCODE_CACHE_TTL", "5m")),
		RedisURL:            getEnv("REDIS_URL", ""),
		DebounceInterval:    mustDuration(getEnv("CAPTURE_DEBOUNCE_INTERVAL", "500ms")),
		MinQueryLength:      mustInt(getEnv("CAPTURE_MIN_QUERY_LENGTH", "3")),
		CaptureSessionTTL:   mustDuration(getEnv("CAPTURE_SESSION_TTL", "30m")),
	}

	if cfg.GeocodeLimit < 1 || cfg.GeocodeLimit > 20 {
		return nil, fmt.Errorf("GEOCODE_LIMIT must be between 1 and 20")
	}
	if cfg.MinQueryLength < 1 {
		return nil, fmt.Errorf("CAPTURE_MIN_QUERY_LENGTH must be at least 1")
	}
	if cfg.DebounceInterval <= 0 {
		return nil, fmt.Errorf("CAPTURE_DEBOUNCE_INTERVAL must be a positive duration")
	}
	if cfg.GeocodeCacheTTL <= 0 {
		return nil, fmt.Errorf("GEOCODE_CACHE_TTL must be a positive duration")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
