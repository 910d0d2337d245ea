package models

import "fmt"

// StepSentinel is the ordinal reserved for the record that marks an aborted run.
const StepSentinel = 99

// Step status tags
const (
	StatusCompleted = "completed"
	StatusCaptured  = "captured"
	statusError     = "error"
)

// StepResult is the outcome of one attempted step. The JSON field names are
// the contract consumed by the dashboard and the CLI printer.
type StepResult struct {
	Step        int     `json:"step"`
	Description string  `json:"descripcion"`
	Evidence    *string `json:"imagen"`
	Status      string  `json:"estado"`
}

// NewStepResult creates a completed step record. An empty evidence path is
// stored as null.
func NewStepResult(step int, description, evidence string) StepResult {
	return StepResult{
		Step:        step,
		Description: description,
		Evidence:    optionalPath(evidence),
		Status:      StatusCompleted,
	}
}

// NewCapturedResult creates a record for an intermediate capture inside a step.
func NewCapturedResult(step int, description, evidence string) StepResult {
	return StepResult{
		Step:        step,
		Description: description,
		Evidence:    optionalPath(evidence),
		Status:      StatusCaptured,
	}
}

// NewSentinelResult creates the terminal record appended when a run aborts.
func NewSentinelResult(err error) StepResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return StepResult{
		Step:        StepSentinel,
		Description: "Run aborted",
		Status:      fmt.Sprintf("%s: %s", statusError, msg),
	}
}

// WithEvidence returns a copy of the record pointing at the given evidence
func (r StepResult) WithEvidence(path string) StepResult {
	r.Evidence = optionalPath(path)
	return r
}

// IsSentinel returns true if the record marks an aborted run
func (r StepResult) IsSentinel() bool {
	return r.Step == StepSentinel
}

// IsCompleted returns true if the step finished successfully
func (r StepResult) IsCompleted() bool {
	return r.Status == StatusCompleted
}

// EvidencePath returns the evidence path or an empty string
func (r StepResult) EvidencePath() string {
	if r.Evidence == nil {
		return ""
	}
	return *r.Evidence
}

func optionalPath(path string) *string {
	if path == "" {
		return nil
	}
	return &path
}
