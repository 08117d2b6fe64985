/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment variables,
including the running environment, port, CORS allowed origins, the session store
backend, and the timeout policy applied by the eviction monitor.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string
	JWTSecret      string
	AdminSecret    string

	// Session Store Settings. An empty RedisAddr selects the in-process
	// store, which is only valid for a single-instance deployment.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Eviction Policy Settings
	SweepInterval time.Duration
	UserTimeout   time.Duration
	RoomTimeout   time.Duration
	MarkerTTL     time.Duration
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type
// conversions and validation. It returns a pointer to the AppConfig struct and any
// error encountered.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if cfg.Environment == "development" {
		if jwtSecret == "" {
			jwtSecret = "your_default_insecure_secret_key_change_me"
		}
	} else {
		if jwtSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required in %s environment for security", cfg.Environment)
		}
	}
	cfg.JWTSecret = jwtSecret

	adminSecret := os.Getenv("ADMIN_SECRET")
	if cfg.Environment == "development" {
		if adminSecret == "" {
			adminSecret = "admin_default_insecure_change_me"
		}
	} else {
		if adminSecret == "" {
			return nil, fmt.Errorf("ADMIN_SECRET environment variable is required in %s environment for the admin API", cfg.Environment)
		}
	}
	cfg.AdminSecret = adminSecret

	// --- Session Store Settings ---
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	if cfg.RedisAddr == "" && cfg.Environment != "development" {
		return nil, fmt.Errorf("REDIS_ADDR environment variable is required in %s environment (the in-memory store is single-instance only)", cfg.Environment)
	}
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	redisDBStr := os.Getenv("REDIS_DB")
	if redisDBStr != "" {
		redisDB, err := strconv.Atoi(redisDBStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB environment variable: %w", err)
		}
		cfg.RedisDB = redisDB
	}

	// --- Eviction Policy Settings ---
	cfg.SweepInterval, err = durationFromEnv("SWEEP_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg.UserTimeout, err = durationFromEnv("USER_TIMEOUT", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg.RoomTimeout, err = durationFromEnv("ROOM_TIMEOUT", 2*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg.MarkerTTL, err = durationFromEnv("MARKER_TTL", 60*time.Second)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// durationFromEnv parses a Go duration string (e.g. "5m", "2h") from the named
// environment variable, falling back to the given default when unset.
// The parsed value must be positive.
func durationFromEnv(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}

	if d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %s", name, d)
	}

	return d, nil
}
