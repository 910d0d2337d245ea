// Package browsertest provides an in-memory browser.Session for tests.
package browsertest

import (
	"strings"
	"sync"
	"time"

	"github.com/ghostshopper/ghostshopper/internal/browser"
	"github.com/ghostshopper/ghostshopper/internal/config"
)

// Session is a scriptable browser.Session. Unset function fields fall back
// to a behaviour where every operation succeeds.
type Session struct {
	NavigateFunc        func(url string) error
	WaitForPresenceFunc func(locator browser.Locator, timeout time.Duration) error
	WaitForURLFunc      func(fragment string, timeout time.Duration) error
	ScreenshotFunc      func(path string) error
	ExecuteFunc         func(script string) error
	CloseFunc           func() error

	mu          sync.Mutex
	url         string
	elements    map[browser.Locator]*Element
	Navigations []string
	Lookups     []browser.Locator
	URLWaits    []string
	Screenshots []string
	Scripts     []string
	CloseCalls  int
}

// NewSession creates an empty fake session
func NewSession() *Session {
	return &Session{elements: make(map[browser.Locator]*Element)}
}

// Element returns the fake element bound to the locator, creating it on first use
func (s *Session) Element(locator browser.Locator) *Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elementLocked(locator)
}

func (s *Session) elementLocked(locator browser.Locator) *Element {
	if s.elements == nil {
		s.elements = make(map[browser.Locator]*Element)
	}
	el, ok := s.elements[locator]
	if !ok {
		el = &Element{}
		s.elements[locator] = el
	}
	return el
}

// Navigate implements browser.Session
func (s *Session) Navigate(url string) error {
	s.mu.Lock()
	s.Navigations = append(s.Navigations, url)
	s.mu.Unlock()

	if s.NavigateFunc != nil {
		if err := s.NavigateFunc(url); err != nil {
			return err
		}
	}

	s.SetURL(url)
	return nil
}

// SetURL changes the URL reported by CurrentURL
func (s *Session) SetURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = url
}

// CurrentURL implements browser.Session
func (s *Session) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// WaitForPresence implements browser.Session
func (s *Session) WaitForPresence(locator browser.Locator, timeout time.Duration) (browser.Element, error) {
	s.mu.Lock()
	s.Lookups = append(s.Lookups, locator)
	s.mu.Unlock()

	if s.WaitForPresenceFunc != nil {
		if err := s.WaitForPresenceFunc(locator, timeout); err != nil {
			return nil, err
		}
	}
	return s.Element(locator), nil
}

// WaitForURL implements browser.Session
func (s *Session) WaitForURL(fragment string, timeout time.Duration) error {
	s.mu.Lock()
	s.URLWaits = append(s.URLWaits, fragment)
	s.mu.Unlock()

	if s.WaitForURLFunc != nil {
		return s.WaitForURLFunc(fragment, timeout)
	}
	return nil
}

// Screenshot implements browser.Session
func (s *Session) Screenshot(path string) error {
	if s.ScreenshotFunc != nil {
		if err := s.ScreenshotFunc(path); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Screenshots = append(s.Screenshots, path)
	return nil
}

// Execute implements browser.Session
func (s *Session) Execute(script string) error {
	s.mu.Lock()
	s.Scripts = append(s.Scripts, script)
	s.mu.Unlock()

	if s.ExecuteFunc != nil {
		return s.ExecuteFunc(script)
	}
	return nil
}

// Close implements browser.Session
func (s *Session) Close() error {
	s.mu.Lock()
	s.CloseCalls++
	s.mu.Unlock()

	if s.CloseFunc != nil {
		return s.CloseFunc()
	}
	return nil
}

// NavigatedTo reports whether any navigation URL contained the fragment
func (s *Session) NavigatedTo(fragment string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Navigations {
		if strings.Contains(u, fragment) {
			return true
		}
	}
	return false
}

// Element is a scriptable browser.Element that tracks activations and the
// text content of a field.
type Element struct {
	ScrollFunc        func() error
	WaitClickableFunc func(timeout time.Duration) error
	ClickFunc         func() error
	ScriptClickFunc   func() error
	ClearFunc         func() error
	TypeFunc          func(text string) error

	Value        string
	Scrolls      int
	Clicks       int
	ScriptClicks int
	Activations  int
}

// ScrollIntoView implements browser.Element
func (e *Element) ScrollIntoView() error {
	e.Scrolls++
	if e.ScrollFunc != nil {
		return e.ScrollFunc()
	}
	return nil
}

// WaitClickable implements browser.Element
func (e *Element) WaitClickable(timeout time.Duration) error {
	if e.WaitClickableFunc != nil {
		return e.WaitClickableFunc(timeout)
	}
	return nil
}

// Click implements browser.Element
func (e *Element) Click() error {
	e.Clicks++
	if e.ClickFunc != nil {
		if err := e.ClickFunc(); err != nil {
			return err
		}
	}
	e.Activations++
	return nil
}

// ScriptClick implements browser.Element
func (e *Element) ScriptClick() error {
	e.ScriptClicks++
	if e.ScriptClickFunc != nil {
		if err := e.ScriptClickFunc(); err != nil {
			return err
		}
	}
	e.Activations++
	return nil
}

// Clear implements browser.Element
func (e *Element) Clear() error {
	if e.ClearFunc != nil {
		if err := e.ClearFunc(); err != nil {
			return err
		}
	}
	e.Value = ""
	return nil
}

// Type implements browser.Element
func (e *Element) Type(text string) error {
	if e.TypeFunc != nil {
		if err := e.TypeFunc(text); err != nil {
			return err
		}
	}
	e.Value += text
	return nil
}

// Launcher is a browser.Launcher returning fake sessions. NewSessionFunc,
// when set, builds a fresh session per Open; otherwise Session is reused.
type Launcher struct {
	Session        *Session
	NewSessionFunc func() *Session
	Err            error

	mu    sync.Mutex
	opens int
}

// Open implements browser.Launcher
func (l *Launcher) Open(_ config.BrowserConfig) (browser.Session, error) {
	l.mu.Lock()
	l.opens++
	l.mu.Unlock()

	if l.Err != nil {
		return nil, l.Err
	}
	if l.NewSessionFunc != nil {
		return l.NewSessionFunc(), nil
	}
	return l.Session, nil
}

// Opens returns how many sessions were requested
func (l *Launcher) Opens() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opens
}
