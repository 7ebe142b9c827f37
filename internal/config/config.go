package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	OpenWeatherAPIKey string

	// Storage.
	DBDriver string // "sqlite" or "postgres"
	DBDSN    string

	// Outbound provider calls.
	HTTPTimeout        time.Duration
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration

	// GeocodeCacheTTL is how long place searches are remembered (0 = no cache).
	GeocodeCacheTTL time.Duration

	// MaintenanceInterval controls how often the store maintenance job runs (0 = disabled).
	MaintenanceInterval time.Duration

	CORSOrigins string
	LogLevel    string
	Port        string
}

// Load reads configuration from environment with sensible defaults.
// The caller is expected to have loaded any .env file beforehand.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")

	cfg.DBDriver = strings.ToLower(getenvDefault("DB_DRIVER", "sqlite"))
	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("invalid DB_DRIVER %q: want sqlite or postgres", cfg.DBDriver)
	}
	cfg.DBDSN = getenvDefault("DB_DSN", "data.sqlite")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.BreakerOpenTimeout, err = getenvDuration("BREAKER_OPEN_TIMEOUT", "1m"); err != nil {
		return nil, err
	}
	cfg.BreakerMaxFailures = uint32(getenvInt("BREAKER_MAX_FAILURES", 5))

	if cfg.GeocodeCacheTTL, err = getenvDuration("GEOCODE_CACHE_TTL", "24h"); err != nil {
		return nil, err
	}

	// Maintenance: default hourly.
	if cfg.MaintenanceInterval, err = getenvDuration("MAINTENANCE_INTERVAL", "60m"); err != nil {
		return nil, err
	}

	cfg.CORSOrigins = getenvDefault("CORS_ORIGINS", "*")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
