package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultBaseURL is the demo store the scenario targets
const DefaultBaseURL = "https://www.saucedemo.com"

// DefaultEvidenceDir is where screenshots are written
const DefaultEvidenceDir = "static/evidence"

// DefaultPageTimeout bounds the wait for a page URL or marker element
const DefaultPageTimeout = 15 * time.Second

// NavigationPolicy controls the direct-URL navigation issued after a
// click-driven page transition.
type NavigationPolicy string

// Navigation policies
const (
	// NavigateAlways re-issues the navigation after every checkout transition
	NavigateAlways NavigationPolicy = "always"
	// NavigateFallback re-issues it only when the click did not reach the page
	NavigateFallback NavigationPolicy = "fallback"
	// NavigateNever relies on the transition wait alone
	NavigateNever NavigationPolicy = "never"
)

// ScenarioConfig holds the inputs of the purchase scenario
type ScenarioConfig struct {
	BaseURL             string
	EvidenceDir         string
	Username            string
	Password            string
	FirstName           string
	LastName            string
	PostalCode          string
	NavigationPolicy    NavigationPolicy
	PageTimeout         time.Duration
	// CaptureIntermediate adds a "captured" record before the shipping form
	// is filled, so a passing run has seven records instead of six and an
	// abort after it is no longer only completed records plus the sentinel.
	CaptureIntermediate bool
}

// LoadScenarioConfig loads scenario configuration from environment variables
func LoadScenarioConfig(getenv func(string) string) (*ScenarioConfig, error) {
	config := &ScenarioConfig{
		BaseURL:             strings.TrimRight(getenvOrDefault(getenv, "TARGET_URL", DefaultBaseURL), "/"),
		EvidenceDir:         getenvOrDefault(getenv, "EVIDENCE_DIR", DefaultEvidenceDir),
		Username:            getenvOrDefault(getenv, "SHOPPER_USERNAME", "standard_user"),
		Password:            getenvOrDefault(getenv, "SHOPPER_PASSWORD", "secret_sauce"),
		FirstName:           getenvOrDefault(getenv, "SHOPPER_FIRST_NAME", "Test"),
		LastName:            getenvOrDefault(getenv, "SHOPPER_LAST_NAME", "User"),
		PostalCode:          getenvOrDefault(getenv, "SHOPPER_POSTAL_CODE", "12345"),
		NavigationPolicy:    NavigationPolicy(getenvOrDefault(getenv, "NAVIGATION_POLICY", string(NavigateAlways))),
		PageTimeout:         DefaultPageTimeout,
		CaptureIntermediate: parseBool(getenv("CAPTURE_INTERMEDIATE"), false),
	}

	if v := getenv("PAGE_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf("PAGE_TIMEOUT must be a positive duration, got %q", v)
		}
		config.PageTimeout = timeout
	}

	switch config.NavigationPolicy {
	case NavigateAlways, NavigateFallback, NavigateNever:
	default:
		return nil, fmt.Errorf("NAVIGATION_POLICY must be one of always, fallback, never; got %q", config.NavigationPolicy)
	}

	return config, nil
}

// WithBaseURL returns a copy targeting a different site. An empty URL keeps the current one.
func (c ScenarioConfig) WithBaseURL(baseURL string) ScenarioConfig {
	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
		c.BaseURL = baseURL
	}
	return c
}

func getenvOrDefault(getenv func(string) string, key, defaultValue string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return defaultValue
}
