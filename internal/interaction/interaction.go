// Package interaction wraps raw browser operations with wait, scroll and
// bounded retry so that scenario steps survive asynchronous rendering,
// scroll-dependent hit testing and overlays that intercept clicks.
package interaction

import (
	"fmt"
	"log"
	"time"

	"github.com/ghostshopper/ghostshopper/internal/browser"
	"github.com/ghostshopper/ghostshopper/internal/models"
)

// Options controls waits and retries of one interaction
type Options struct {
	Attempts          int
	VisibilityTimeout time.Duration
	ClickableTimeout  time.Duration
	Backoff           time.Duration
	Sleep             func(time.Duration)
}

// DefaultOptions returns three attempts two seconds apart
func DefaultOptions() Options {
	return Options{
		Attempts:          3,
		VisibilityTimeout: 15 * time.Second,
		ClickableTimeout:  10 * time.Second,
		Backoff:           2 * time.Second,
		Sleep:             time.Sleep,
	}
}

// WithVisibility returns a copy with a different presence timeout
func (o Options) WithVisibility(timeout time.Duration) Options {
	o.VisibilityTimeout = timeout
	return o
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.Attempts <= 0 {
		o.Attempts = def.Attempts
	}
	if o.VisibilityTimeout <= 0 {
		o.VisibilityTimeout = def.VisibilityTimeout
	}
	if o.ClickableTimeout <= 0 {
		o.ClickableTimeout = def.ClickableTimeout
	}
	if o.Backoff < 0 {
		o.Backoff = 0
	}
	if o.Sleep == nil {
		o.Sleep = def.Sleep
	}
	return o
}

// ClickWithRetry waits for the element, scrolls it to the viewport centre,
// waits until it is clickable and clicks it. A failed native click is
// replaced by a scripted click on the same element, so the element is
// activated once. Any failure restarts the whole sequence until the
// attempts are used up.
func ClickWithRetry(session browser.Session, locator browser.Locator, desc string, opts Options) error {
	opts = opts.normalized()
	return withRetry("click", desc, opts, func() error {
		return clickOnce(session, locator, opts)
	})
}

// FillFieldWithRetry waits for the field, scrolls to it, clears it and
// types text, retrying the whole sequence on failure.
func FillFieldWithRetry(session browser.Session, locator browser.Locator, text, desc string, opts Options) error {
	opts = opts.normalized()
	return withRetry("fill", desc, opts, func() error {
		return fillOnce(session, locator, text, opts)
	})
}

func clickOnce(session browser.Session, locator browser.Locator, opts Options) error {
	el, err := session.WaitForPresence(locator, opts.VisibilityTimeout)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", models.ErrElementNotFound, locator, err)
	}

	scrollIntoView(el, locator)

	if err := el.WaitClickable(opts.ClickableTimeout); err != nil {
		return fmt.Errorf("%w: %s: %w", models.ErrElementNotClickable, locator, err)
	}

	clickErr := el.Click()
	if clickErr == nil {
		return nil
	}

	log.Printf("[interaction] native click on %s failed (%v), using scripted click", locator, clickErr)
	if err := el.ScriptClick(); err != nil {
		return fmt.Errorf("%w: %s: native click: %v: %w", models.ErrScriptClickFallback, locator, clickErr, err)
	}
	return nil
}

func fillOnce(session browser.Session, locator browser.Locator, text string, opts Options) error {
	el, err := session.WaitForPresence(locator, opts.VisibilityTimeout)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", models.ErrElementNotFound, locator, err)
	}

	scrollIntoView(el, locator)

	if err := el.Clear(); err != nil {
		return fmt.Errorf("failed to clear %s: %w", locator, err)
	}
	if err := el.Type(text); err != nil {
		return fmt.Errorf("failed to type into %s: %w", locator, err)
	}
	return nil
}

// scrollIntoView is best effort; hit testing may still succeed without it
func scrollIntoView(el browser.Element, locator browser.Locator) {
	if err := el.ScrollIntoView(); err != nil {
		log.Printf("[interaction] could not scroll %s into view: %v", locator, err)
	}
}

func withRetry(action, desc string, opts Options, attempt func() error) error {
	var lastErr error
	for i := 1; i <= opts.Attempts; i++ {
		lastErr = attempt()
		if lastErr == nil {
			return nil
		}
		if i == opts.Attempts {
			break
		}
		log.Printf("[interaction] retry %d/%d on %s %s: %v", i, opts.Attempts, action, desc, lastErr)
		opts.Sleep(opts.Backoff)
	}

	log.Printf("[interaction] giving up on %s %s: %v", action, desc, lastErr)
	return fmt.Errorf("%w: %s %s after %d attempts: %w", models.ErrRetriesExhausted, action, desc, opts.Attempts, lastErr)
}
