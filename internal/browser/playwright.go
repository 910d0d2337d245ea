package browser

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/ghostshopper/ghostshopper/internal/config"
	"github.com/ghostshopper/ghostshopper/internal/models"
	"github.com/playwright-community/playwright-go"
)

const hideWebdriverScript = `Object.defineProperty(navigator, 'webdriver', {get: () => false})`

// PlaywrightLauncher opens Chromium sessions through Playwright
type PlaywrightLauncher struct {
	run     func(options ...*playwright.RunOptions) (*playwright.Playwright, error)
	install func(options ...*playwright.RunOptions) error
}

// NewPlaywrightLauncher creates a launcher that installs the Playwright
// driver and Chromium on demand when the first start fails.
func NewPlaywrightLauncher() *PlaywrightLauncher {
	return &PlaywrightLauncher{
		run:     playwright.Run,
		install: playwright.Install,
	}
}

// Open starts Playwright, launches Chromium with the given profile and opens
// one page. Every exhausted failure is reported as models.ErrSessionInit.
func (l *PlaywrightLauncher) Open(cfg config.BrowserConfig) (Session, error) {
	pw, err := l.startDriver()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrSessionInit, err)
	}

	browser, err := launchBrowser(pw, cfg)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("%w: %w", models.ErrSessionInit, err)
	}

	pageOptions := playwright.BrowserNewPageOptions{}
	if cfg.Headless {
		pageOptions.Viewport = &playwright.Size{Width: cfg.WindowWidth, Height: cfg.WindowHeight}
	} else {
		pageOptions.NoViewport = playwright.Bool(true)
	}
	if cfg.FixedUserAgent != "" {
		pageOptions.UserAgent = playwright.String(cfg.FixedUserAgent)
	}

	page, err := browser.NewPage(pageOptions)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("%w: failed to open page: %w", models.ErrSessionInit, err)
	}

	page.SetDefaultNavigationTimeout(milliseconds(cfg.PageLoadTimeout))
	page.SetDefaultTimeout(milliseconds(cfg.ImplicitWait))

	if cfg.AutomationSignatureHidden {
		if err := page.AddInitScript(playwright.Script{Content: playwright.String(hideWebdriverScript)}); err != nil {
			log.Printf("[browser] could not install webdriver mask: %v", err)
		}
	}

	log.Printf("[browser] chromium started (headless=%v)", cfg.Headless)
	return &playwrightSession{pw: pw, browser: browser, page: page}, nil
}

func (l *PlaywrightLauncher) startDriver() (*playwright.Playwright, error) {
	pw, err := l.run()
	if err == nil {
		return pw, nil
	}

	log.Printf("[browser] playwright driver not available (%v), installing chromium", err)
	if installErr := l.install(&playwright.RunOptions{Browsers: []string{"chromium"}}); installErr != nil {
		return nil, fmt.Errorf("failed to install playwright driver: %w", installErr)
	}

	pw, err = l.run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	return pw, nil
}

// launchBrowser tries the configured executable first and falls back to
// the Chromium bundled with Playwright.
func launchBrowser(pw *playwright.Playwright, cfg config.BrowserConfig) (playwright.Browser, error) {
	options := playwright.BrowserTypeLaunchOptions{
		Headless:        playwright.Bool(cfg.Headless),
		Args:            cfg.Flags,
		ChromiumSandbox: playwright.Bool(!cfg.SandboxDisabled),
	}
	if cfg.AutomationSignatureHidden {
		options.IgnoreDefaultArgs = []string{"--enable-automation"}
	}

	if cfg.ExecutablePath != "" {
		withPath := options
		withPath.ExecutablePath = playwright.String(cfg.ExecutablePath)
		browser, err := pw.Chromium.Launch(withPath)
		if err == nil {
			log.Printf("[browser] using browser executable: %s", cfg.ExecutablePath)
			return browser, nil
		}
		log.Printf("[browser] failed to launch %s (%v), falling back to bundled chromium", cfg.ExecutablePath, err)
	}

	browser, err := pw.Chromium.Launch(options)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	return browser, nil
}

type playwrightSession struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page

	mu     sync.Mutex
	closed bool
}

func (s *playwrightSession) Navigate(url string) error {
	if _, err := s.page.Goto(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (s *playwrightSession) CurrentURL() string {
	return s.page.URL()
}

func (s *playwrightSession) WaitForPresence(locator Locator, timeout time.Duration) (Element, error) {
	loc := s.page.Locator(locator.Selector()).First()
	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(milliseconds(timeout)),
	})
	if err != nil {
		return nil, fmt.Errorf("%s not present after %v: %w", locator, timeout, err)
	}
	return &playwrightElement{locator: loc}, nil
}

func (s *playwrightSession) WaitForURL(fragment string, timeout time.Duration) error {
	err := s.page.WaitForURL(regexp.MustCompile(regexp.QuoteMeta(fragment)), playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(milliseconds(timeout)),
	})
	if err != nil {
		return fmt.Errorf("url did not contain %q after %v (at %s): %w", fragment, timeout, s.page.URL(), err)
	}
	return nil
}

func (s *playwrightSession) Screenshot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create evidence directory: %w", err)
	}
	if _, err := s.page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(path)}); err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return nil
}

func (s *playwrightSession) Execute(script string) error {
	if _, err := s.page.Evaluate(script); err != nil {
		return fmt.Errorf("script failed: %w", err)
	}
	return nil
}

// Close shuts down the browser and the driver. Later calls are no-ops.
func (s *playwrightSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if err := s.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("browser: %w", err))
	}
	if err := s.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("driver: %w", err))
	}
	return errors.Join(errs...)
}

type playwrightElement struct {
	locator playwright.Locator
}

func (e *playwrightElement) ScrollIntoView() error {
	_, err := e.locator.Evaluate(`el => el.scrollIntoView({block: 'center'})`, nil)
	return err
}

// WaitClickable runs Playwright's actionability checks (visible, stable,
// enabled, receiving events) without clicking.
func (e *playwrightElement) WaitClickable(timeout time.Duration) error {
	return e.locator.Click(playwright.LocatorClickOptions{
		Trial:   playwright.Bool(true),
		Timeout: playwright.Float(milliseconds(timeout)),
	})
}

func (e *playwrightElement) Click() error {
	return e.locator.Click()
}

func (e *playwrightElement) ScriptClick() error {
	_, err := e.locator.Evaluate(`el => el.click()`, nil)
	return err
}

func (e *playwrightElement) Clear() error {
	return e.locator.Clear()
}

func (e *playwrightElement) Type(text string) error {
	return e.locator.PressSequentially(text)
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
