package models

import "errors"

// Automation error kinds. Callers match them with errors.Is; the wrapped
// browser error stays reachable through the same chain.
var (
	ErrSessionInit            = errors.New("browser session could not be created")
	ErrElementNotFound        = errors.New("element not found")
	ErrElementNotClickable    = errors.New("element not clickable")
	ErrScriptClickFallback    = errors.New("native click and scripted click both failed")
	ErrNavigationConfirmation = errors.New("navigation was not confirmed")
	ErrRetriesExhausted       = errors.New("retries exhausted")
)

// Run domain errors
var (
	ErrInvalidStatusTransition = errors.New("invalid run status transition")
	ErrRunNotFound             = errors.New("run not found")
	ErrEmptyTargetURL          = errors.New("target url cannot be empty")
)
