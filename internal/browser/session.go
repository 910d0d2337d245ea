// Package browser manages browser sessions and exposes the small set of
// page operations the purchase scenario needs.
package browser

import (
	"log"
	"time"

	"github.com/ghostshopper/ghostshopper/internal/config"
)

// Session is one live browser instance
type Session interface {
	Navigate(url string) error
	CurrentURL() string
	WaitForPresence(locator Locator, timeout time.Duration) (Element, error)
	WaitForURL(fragment string, timeout time.Duration) error
	Screenshot(path string) error
	Execute(script string) error
	Close() error
}

// Element is a handle to one element found through a Locator
type Element interface {
	ScrollIntoView() error
	WaitClickable(timeout time.Duration) error
	Click() error
	ScriptClick() error
	Clear() error
	Type(text string) error
}

// Launcher opens browser sessions
type Launcher interface {
	Open(cfg config.BrowserConfig) (Session, error)
}

// Close releases the session. It is safe to call with a nil or already
// closed session and never returns an error; failures are only logged.
func Close(session Session) {
	if session == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[browser] close panicked: %v", r)
		}
	}()

	log.Println("[browser] closing browser session")
	if err := session.Close(); err != nil {
		log.Printf("[browser] error closing session: %v", err)
		return
	}
	log.Println("[browser] browser session closed")
}
