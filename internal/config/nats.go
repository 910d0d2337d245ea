package config

import "time"

// NATSConfig holds configuration for run notifications
type NATSConfig struct {
	URL            string
	Subject        string
	ConnectTimeout time.Duration
}

// LoadNATSConfig loads NATS configuration from environment variables.
// It returns nil when NATS_URL is unset, which disables notifications.
func LoadNATSConfig(getenv func(string) string) *NATSConfig {
	url := getenv("NATS_URL")
	if url == "" {
		return nil
	}

	return &NATSConfig{
		URL:            url,
		Subject:        getenvOrDefault(getenv, "NATS_SUBJECT", "ghostshopper.runs"),
		ConnectTimeout: 5 * time.Second,
	}
}
