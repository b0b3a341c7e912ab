package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Quote source configuration
	QuotesAPIKey   string // API Ninjas key for the primary source
	QuotesAPIURL   string
	FallbackAPIURL string

	// Author lookup configuration
	WikiSummaryURL string
	WikiSearchURL  string
	WikiRateLimit  float64 // requests per second against the Wikipedia APIs
	RequestTimeout int     // seconds, applied to every outbound HTTP client
	FetchOnStartup bool    // fetch the first quote as soon as the daemon is up

	// Storage configuration
	DatabasePath string

	// Schedule configuration
	QuoteSchedule string // "daily" or "off"
	TimeZone      string

	// Notification configuration
	WebhookURL        string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		QuotesAPIKey:   getEnv("QUOTES_API_KEY", ""),
		QuotesAPIURL:   getEnv("QUOTES_API_URL", "https://api.api-ninjas.com/v1/quotes"),
		FallbackAPIURL: getEnv("FALLBACK_API_URL", "https://api.quotable.io/random"),

		WikiSummaryURL: getEnv("WIKI_SUMMARY_URL", "https://en.wikipedia.org/api/rest_v1/page/summary"),
		WikiSearchURL:  getEnv("WIKI_SEARCH_URL", "https://en.wikipedia.org/w/api.php"),
		WikiRateLimit:  getFloatEnv("WIKI_RATE_LIMIT", 2.0),
		RequestTimeout: getIntEnv("REQUEST_TIMEOUT", 30),
		FetchOnStartup: getBoolEnv("FETCH_ON_STARTUP", true),

		DatabasePath: getEnv("DATABASE_PATH", "quotify.db"),

		QuoteSchedule: getEnv("QUOTE_SCHEDULE", "daily"),
		TimeZone:      getEnv("TIMEZONE", "UTC"),

		WebhookURL:        getEnv("WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.QuoteSchedule != "daily" && c.QuoteSchedule != "off" {
		return fmt.Errorf("QUOTE_SCHEDULE must be 'daily' or 'off'")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	if c.WikiRateLimit <= 0 {
		return fmt.Errorf("WIKI_RATE_LIMIT must be positive")
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
