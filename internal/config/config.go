package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Config holds server configuration loaded from the environment.
type Config struct {
	// HTTP listen port
	Port string

	// Postgres DSN
	DatabaseURL string

	// Origins allowed by the CORS middleware
	AllowedOrigins []string

	// Compass submission rate limiting
	SubmitRatePerMin float64
	SubmitBurst      int
}

var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

const defaultOrigins = "http://localhost:5173,https://compass.votecompass.app"

// LoadFromEnv loads configuration from environment variables.
//
// Environment variables:
//   - PORT: HTTP listen port (default: 5050)
//   - DATABASE_URL: Postgres DSN (required)
//   - CORS_ORIGINS: comma-separated allowed origins
//   - SUBMIT_RATE_PER_MIN: compass submissions allowed per client per minute (default: 30)
//   - SUBMIT_BURST: burst size for the submission limiter (default: 10)
func LoadFromEnv() Config {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "5050"
	}

	originsStr := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if originsStr == "" {
		originsStr = defaultOrigins
	}
	var origins []string
	for _, o := range strings.Split(originsStr, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	rate := 30.0
	if v := os.Getenv("SUBMIT_RATE_PER_MIN"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			rate = parsed
		}
	}

	burst := 10
	if v := os.Getenv("SUBMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			burst = parsed
		}
	}

	return Config{
		Port:             port,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		AllowedOrigins:   origins,
		SubmitRatePerMin: rate,
		SubmitBurst:      burst,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}
