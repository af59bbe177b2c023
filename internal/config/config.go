package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// BulkDeleteMode decides how a partial bulk-delete failure is handled.
// best-effort clears the selection and reloads even if some deletes
// failed; strict keeps the failed ids selected so they can be retried.
const (
	BulkDeleteBestEffort = "best-effort"
	BulkDeleteStrict     = "strict"
)

type Config struct {
	// Payments API
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Ledger behaviour
	BulkDeleteMode    string
	CompanyCacheTTL   time.Duration
	NotificationLimit int

	// Recurring worker
	RecurringSchedule string
}

func Load() *Config {
	return &Config{
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:8000/api"),
		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 15*time.Second),

		BulkDeleteMode:    getEnv("BULK_DELETE_MODE", BulkDeleteBestEffort),
		CompanyCacheTTL:   getEnvDuration("COMPANY_CACHE_TTL", 5*time.Minute),
		NotificationLimit: getEnvInt("NOTIFICATION_LIMIT", 20),

		RecurringSchedule: getEnv("RECURRING_SCHEDULE", "0 9 * * *"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if parsed, err := url.Parse(c.APIBaseURL); err != nil {
		errs = append(errs, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errs = append(errs, fmt.Sprintf("invalid API base URL scheme '%s': must be http or https", parsed.Scheme))
	}

	if c.HTTPTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid HTTP timeout %v: must be at least 1 second", c.HTTPTimeout))
	} else if c.HTTPTimeout > 5*time.Minute {
		errs = append(errs, fmt.Sprintf("invalid HTTP timeout %v: must be at most 5 minutes", c.HTTPTimeout))
	}

	if c.BulkDeleteMode != BulkDeleteBestEffort && c.BulkDeleteMode != BulkDeleteStrict {
		errs = append(errs, fmt.Sprintf("invalid bulk delete mode '%s': must be '%s' or '%s'",
			c.BulkDeleteMode, BulkDeleteBestEffort, BulkDeleteStrict))
	}

	if c.CompanyCacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("invalid company cache TTL %v: must not be negative", c.CompanyCacheTTL))
	}

	if c.NotificationLimit < 1 {
		errs = append(errs, fmt.Sprintf("invalid notification limit %d: must be at least 1", c.NotificationLimit))
	} else if c.NotificationLimit > 500 {
		errs = append(errs, fmt.Sprintf("invalid notification limit %d: must be at most 500", c.NotificationLimit))
	}

	if strings.TrimSpace(c.RecurringSchedule) == "" {
		errs = append(errs, "recurring schedule cannot be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
