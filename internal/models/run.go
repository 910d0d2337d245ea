package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents valid run states
type RunStatus string

// Run statuses
const (
	RunStatusRunning RunStatus = "running"
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
)

// Run is one execution of the purchase scenario together with its results
type Run struct {
	ID         string       `json:"id"`
	TargetURL  string       `json:"target_url"`
	Status     RunStatus    `json:"status"`
	Results    []StepResult `json:"results"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
}

// NewRun creates a running run with a fresh identifier
func NewRun(targetURL string) (*Run, error) {
	if targetURL == "" {
		return nil, ErrEmptyTargetURL
	}

	return &Run{
		ID:        uuid.New().String(),
		TargetURL: targetURL,
		Status:    RunStatusRunning,
		Results:   []StepResult{},
		StartedAt: time.Now(),
	}, nil
}

// Complete records the results of a finished run. The run passes unless the
// last record is the sentinel.
func (r *Run) Complete(results []StepResult) error {
	if r.Status != RunStatusRunning {
		return fmt.Errorf("%w: cannot complete run with status %s", ErrInvalidStatusTransition, r.Status)
	}

	r.Results = append([]StepResult(nil), results...)
	r.Status = RunStatusPassed
	if aborted(r.Results) {
		r.Status = RunStatusFailed
	}
	now := time.Now()
	r.FinishedAt = &now
	return nil
}

// IsRunning returns true while the scenario is still executing
func (r *Run) IsRunning() bool {
	return r.Status == RunStatusRunning
}

// Aborted returns true if the run ended with the sentinel record
func (r *Run) Aborted() bool {
	return aborted(r.Results)
}

// ExecutionTime returns how long the run took, or how long it has been running
func (r *Run) ExecutionTime() time.Duration {
	if r.FinishedAt == nil {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// CompletedSteps counts the records tagged completed
func (r *Run) CompletedSteps() int {
	n := 0
	for _, res := range r.Results {
		if res.IsCompleted() {
			n++
		}
	}
	return n
}

func aborted(results []StepResult) bool {
	return len(results) > 0 && results[len(results)-1].IsSentinel()
}
