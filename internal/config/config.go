// Package config loads environment-driven settings for the e-library client.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment-driven settings for the client.
type Config struct {
	APIBaseURL      string        // e-library backend base URL (…/api/v1)
	FeedbackURL     string        // feedback relay endpoint
	StateDir        string        // durable tier directory
	HTTPTimeout     time.Duration // per-request timeout for API calls
	EmailDomain     string        // required institutional email domain
	MaxAttachment   int64         // feedback attachment cap in bytes
	ActivityLogSize int           // activity log capacity
}

const (
	defaultAPIBaseURL  = "https://focbackend.emmanuelngoka.work/api/v1"
	defaultFeedbackURL = "https://formsubmit.co/ajax/7dcd6f293b856a29d8866ab98c707aeb"
	defaultEmailDomain = "@uniport.edu.ng"
	defaultTimeout     = 30 * time.Second
	defaultLogSize     = 20
)

// Load reads .env files (OS env takes precedence) and produces a Config.
func Load() (Config, error) {
	// godotenv.Load does not override already-set variables.
	for _, f := range []string{".env", ".env.local"} {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", f, err)
			}
		}
	}

	cfg := Config{
		APIBaseURL:      getEnv("ELIB_API_URL", defaultAPIBaseURL),
		FeedbackURL:     getEnv("ELIB_FEEDBACK_URL", defaultFeedbackURL),
		EmailDomain:     getEnv("ELIB_EMAIL_DOMAIN", defaultEmailDomain),
		HTTPTimeout:     defaultTimeout,
		MaxAttachment:   10 << 20,
		ActivityLogSize: defaultLogSize,
	}

	if v, ok := os.LookupEnv("ELIB_HTTP_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("ELIB_HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if v, ok := os.LookupEnv("ELIB_MAX_ATTACHMENT"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("ELIB_MAX_ATTACHMENT: %w", err)
		}
		cfg.MaxAttachment = n
	}
	if v, ok := os.LookupEnv("ELIB_ACTIVITY_LOG_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("ELIB_ACTIVITY_LOG_SIZE: invalid value %q", v)
		}
		cfg.ActivityLogSize = n
	}

	if v, ok := os.LookupEnv("ELIB_STATE_DIR"); ok {
		cfg.StateDir = v
	} else {
		cfg.StateDir = defaultStateDir()
	}

	return cfg, nil
}

func defaultStateDir() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return filepath.Join(v, "elibrary")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "elibrary")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
