package config

import (
	"os"
	"strings"
	"time"
)

// DefaultUserAgent is the fixed user agent used on server-class hosts
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Safari/537.36"

// commonChromiumPaths are probed when PLAYWRIGHT_EXECUTABLE_PATH is unset
var commonChromiumPaths = []string{
	"/usr/bin/chromium",
	"/usr/bin/google-chrome",
	"/bin/google-chrome",
	"/usr/bin/chromium-browser",
}

// BrowserConfig is the launch profile for one browser session. It is resolved
// once at startup and never branched on again.
type BrowserConfig struct {
	Headless                  bool
	SandboxDisabled           bool
	AutomationSignatureHidden bool
	FixedUserAgent            string
	WindowWidth               int
	WindowHeight              int
	ExecutablePath            string
	PageLoadTimeout           time.Duration
	ImplicitWait              time.Duration
	Flags                     []string
}

// ResolveBrowserConfig builds the launch profile for the given GOOS.
// Linux is treated as a server host: always headless, sandbox disabled and
// the automation signature hidden. Other hosts honour HEADLESS.
func ResolveBrowserConfig(goos string, getenv func(string) string) BrowserConfig {
	cfg := BrowserConfig{
		Headless:        parseBool(getenv("HEADLESS"), true),
		WindowWidth:     1920,
		WindowHeight:    1080,
		ExecutablePath:  resolveExecutablePath(getenv("PLAYWRIGHT_EXECUTABLE_PATH")),
		PageLoadTimeout: 60 * time.Second,
		ImplicitWait:    10 * time.Second,
		Flags:           []string{"--disable-notifications", "--disable-popup-blocking"},
	}

	if goos == "linux" {
		cfg.Headless = true
		cfg.SandboxDisabled = true
		cfg.AutomationSignatureHidden = true
		cfg.FixedUserAgent = DefaultUserAgent
		cfg.Flags = append(cfg.Flags,
			"--disable-blink-features=AutomationControlled",
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
		)
		return cfg
	}

	if !cfg.Headless {
		cfg.Flags = append(cfg.Flags, "--start-maximized")
	}
	return cfg
}

func resolveExecutablePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, p := range commonChromiumPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// parseBool accepts 1/true/yes and 0/false/no, case-insensitively
func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}
