// Package scenario runs the fixed purchase flow against a browser session
// and turns every outcome, including failures, into step records.
package scenario

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ghostshopper/ghostshopper/internal/browser"
	"github.com/ghostshopper/ghostshopper/internal/config"
	"github.com/ghostshopper/ghostshopper/internal/interaction"
	"github.com/ghostshopper/ghostshopper/internal/models"
)

// Runner executes the purchase scenario. A Runner holds no per-run state
// and can serve concurrent runs; each run opens its own session.
type Runner struct {
	launcher      browser.Launcher
	browserConfig config.BrowserConfig
	config        config.ScenarioConfig
	interaction   interaction.Options
	pageTimeout   time.Duration
	graceTimeout  time.Duration
	now           func() time.Time
}

// Option customises a Runner
type Option func(*Runner)

// WithInteractionOptions overrides the retry policy of clicks and fills
func WithInteractionOptions(opts interaction.Options) Option {
	return func(r *Runner) {
		r.interaction = opts
	}
}

// WithClock replaces the clock used for evidence timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner creates a scenario runner
func NewRunner(launcher browser.Launcher, browserConfig config.BrowserConfig, cfg config.ScenarioConfig, opts ...Option) *Runner {
	r := &Runner{
		launcher:      launcher,
		browserConfig: browserConfig,
		config:        cfg,
		interaction:   interaction.DefaultOptions(),
		pageTimeout:   cfg.PageTimeout,
		graceTimeout:  3 * time.Second,
		now:           time.Now,
	}
	if r.pageTimeout <= 0 {
		r.pageTimeout = config.DefaultPageTimeout
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the scenario for one run and returns its records. It never
// panics or returns an error: failures become a trailing sentinel record.
func (r *Runner) Run(runID string) []models.StepResult {
	return r.execute(runID).results
}

func (r *Runner) execute(runID string) *execution {
	return r.executeFlow(runID, steps)
}

func (r *Runner) executeFlow(runID string, flow []step) (exec *execution) {
	exec = &execution{
		runner:   r,
		cfg:      r.config,
		evidence: NewEvidence(r.config.EvidenceDir, runID),
		state:    StateInit,
	}
	exec.evidence.now = r.now

	defer func() {
		if rec := recover(); rec != nil {
			exec.session = nil
			exec.abort(fmt.Errorf("unexpected panic: %v", rec))
		}
	}()

	log.Printf("[scenario] run %s starting against %s", runID, r.config.BaseURL)

	session, err := r.launcher.Open(r.browserConfig)
	if err != nil {
		if !errors.Is(err, models.ErrSessionInit) {
			err = fmt.Errorf("%w: %w", models.ErrSessionInit, err)
		}
		exec.abort(err)
		return exec
	}
	defer browser.Close(session)
	exec.session = session

	for _, s := range flow {
		if err := s.run(exec); err != nil {
			exec.abort(fmt.Errorf("step %d (%s): %w", s.ordinal, s.description, err))
			return exec
		}
		exec.complete(s)
	}
	if !exec.state.IsTerminal() {
		exec.abort(fmt.Errorf("flow stopped in state %s", exec.state))
		return exec
	}

	log.Printf("[scenario] run %s completed successfully", runID)
	return exec
}

// execution is the state of one run
type execution struct {
	runner   *Runner
	cfg      config.ScenarioConfig
	session  browser.Session
	evidence *Evidence
	state    State

	// abortedFrom is the last state reached before an abort
	abortedFrom State
	results     []models.StepResult
}

func (e *execution) complete(s step) {
	path := e.evidence.Capture(e.session, s.label)
	e.results = append(e.results, models.NewStepResult(s.ordinal, s.description, path))
	e.state = s.target
	log.Printf("[scenario] [%d] %s -> %s", s.ordinal, s.description, e.state)
}

func (e *execution) abort(err error) {
	log.Printf("[scenario] run aborted in state %s: %v", e.state, err)
	sentinel := models.NewSentinelResult(err)
	if e.session != nil {
		sentinel = sentinel.WithEvidence(e.evidence.Capture(e.session, "error"))
	}
	e.results = append(e.results, sentinel)
	e.abortedFrom = e.state
	e.state = StateAborted
}

func (e *execution) url(path string) string {
	return e.cfg.BaseURL + path
}

func (e *execution) click(locator browser.Locator, desc string) error {
	return interaction.ClickWithRetry(e.session, locator, desc, e.runner.interaction)
}

func (e *execution) clickWithin(locator browser.Locator, desc string, visibility time.Duration) error {
	return interaction.ClickWithRetry(e.session, locator, desc, e.runner.interaction.WithVisibility(visibility))
}

func (e *execution) fill(locator browser.Locator, text, desc string, visibility time.Duration) error {
	return interaction.FillFieldWithRetry(e.session, locator, text, desc, e.runner.interaction.WithVisibility(visibility))
}

// confirmPage blocks until the URL contains fragment and the marker element
// is present.
func (e *execution) confirmPage(fragment string, marker browser.Locator) error {
	if fragment != "" {
		if err := e.session.WaitForURL(fragment, e.runner.pageTimeout); err != nil {
			return fmt.Errorf("%w: %w", models.ErrNavigationConfirmation, err)
		}
	}
	return e.confirmMarker(marker)
}

func (e *execution) confirmMarker(marker browser.Locator) error {
	if _, err := e.session.WaitForPresence(marker, e.runner.pageTimeout); err != nil {
		return fmt.Errorf("%w: %w", models.ErrNavigationConfirmation, err)
	}
	return nil
}

// transition follows a click-driven page change. Depending on the
// navigation policy it re-issues a direct navigation to the expected page,
// then confirms the page by URL and marker element.
func (e *execution) transition(path, fragment string, marker browser.Locator) error {
	switch e.cfg.NavigationPolicy {
	case config.NavigateFallback:
		if err := e.session.WaitForURL(fragment, e.runner.graceTimeout); err != nil {
			log.Printf("[scenario] click did not reach %s, navigating directly", fragment)
			e.forceNavigate(path)
		}
	case config.NavigateNever:
	default:
		e.forceNavigate(path)
	}

	return e.confirmPage(fragment, marker)
}

// forceNavigate ignores navigation errors; the following confirmation
// decides whether the page was reached.
func (e *execution) forceNavigate(path string) {
	if err := e.session.Navigate(e.url(path)); err != nil {
		log.Printf("[scenario] direct navigation to %s failed: %v", path, err)
	}
}
