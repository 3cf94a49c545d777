package hubspot

import (
	"os"
	"time"
)

// DefaultBaseURL is the production HubSpot API host.
const DefaultBaseURL = "https://api.hubapi.com"

// Config holds client configuration.
type Config struct {
	APIKey  string        // HUBSPOT_API_KEY
	BaseURL string        // HUBSPOT_BASE_URL, default DefaultBaseURL
	Timeout time.Duration // HUBSPOT_TIMEOUT, default 30s
}

// LoadConfig reads configuration from environment variables with sensible
// defaults.
func LoadConfig() Config {
	timeout := 30 * time.Second
	if v := os.Getenv("HUBSPOT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}
	return Config{
		APIKey:  os.Getenv("HUBSPOT_API_KEY"),
		BaseURL: envOr("HUBSPOT_BASE_URL", DefaultBaseURL),
		Timeout: timeout,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
