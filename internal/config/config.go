package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	DBPath   string
	LogLevel string

	// Learning parameters. Injected into the selector and updater at
	// construction so tests can exercise alternate regimes.
	Alpha               float64
	Gamma               float64
	BaseEpsilon         float64
	MaxEpsilon          float64
	ColdStartAttempts   int
	ConfidenceAttempts  int
	ConfidenceAccuracy  float64
	FallbackWrongStreak int
	WindowSize          int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:adaptquiz.db"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		Alpha:               envFloatOr("ALPHA", 0.1),
		Gamma:               envFloatOr("GAMMA", 0.9),
		BaseEpsilon:         envFloatOr("BASE_EPSILON", 0.15),
		MaxEpsilon:          envFloatOr("MAX_EPSILON", 0.4),
		ColdStartAttempts:   envIntOr("COLD_START_ATTEMPTS", 3),
		ConfidenceAttempts:  envIntOr("CONFIDENCE_ATTEMPTS", 9),
		ConfidenceAccuracy:  envFloatOr("CONFIDENCE_ACCURACY", 0.6),
		FallbackWrongStreak: envIntOr("FALLBACK_WRONG_STREAK", 5),
		WindowSize:          envIntOr("WINDOW_SIZE", 10),
	}
}

// Validate checks the configuration for values that would make the server
// misbehave at runtime.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("ALPHA must be in (0, 1], got %g", c.Alpha)
	}
	if c.Gamma < 0 || c.Gamma >= 1 {
		return fmt.Errorf("GAMMA must be in [0, 1), got %g", c.Gamma)
	}
	if c.BaseEpsilon < 0 || c.BaseEpsilon > c.MaxEpsilon {
		return fmt.Errorf("BASE_EPSILON must be in [0, MAX_EPSILON], got %g", c.BaseEpsilon)
	}
	if c.MaxEpsilon <= 0 || c.MaxEpsilon > 1 {
		return fmt.Errorf("MAX_EPSILON must be in (0, 1], got %g", c.MaxEpsilon)
	}
	if c.ColdStartAttempts < 0 {
		return fmt.Errorf("COLD_START_ATTEMPTS cannot be negative")
	}
	if c.ConfidenceAttempts < c.ColdStartAttempts {
		return fmt.Errorf("CONFIDENCE_ATTEMPTS must be at least COLD_START_ATTEMPTS")
	}
	if c.WindowSize <= 0 {
		return fmt.Errorf("WINDOW_SIZE must be positive, got %d", c.WindowSize)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}
