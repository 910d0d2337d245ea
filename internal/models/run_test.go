package models

import (
	"errors"
	"testing"
)

func TestNewRun(t *testing.T) {
	tests := []struct {
		name      string
		targetURL string
		wantErr   error
	}{
		{
			name:      "valid run",
			targetURL: "https://www.saucedemo.com",
			wantErr:   nil,
		},
		{
			name:      "empty target url",
			targetURL: "",
			wantErr:   ErrEmptyTargetURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := NewRun(tt.targetURL)

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("NewRun() error = %v, wantErr %v", err, tt.wantErr)
				}
				if run != nil {
					t.Error("Expected run to be nil when error occurs")
				}
				return
			}

			if err != nil {
				t.Fatalf("NewRun() unexpected error = %v", err)
			}
			if run.ID == "" {
				t.Error("Run ID should not be empty")
			}
			if run.Status != RunStatusRunning {
				t.Errorf("Expected status %s, got %s", RunStatusRunning, run.Status)
			}
			if run.FinishedAt != nil {
				t.Error("FinishedAt should not be set on a new run")
			}
			if run.Results == nil {
				t.Error("Results should be an empty slice, not nil")
			}
		})
	}
}

func TestNewRun_UniqueIDs(t *testing.T) {
	first, _ := NewRun("https://example.com")
	second, _ := NewRun("https://example.com")

	if first.ID == second.ID {
		t.Errorf("Expected distinct run IDs, both were %s", first.ID)
	}
}

func TestRun_Complete(t *testing.T) {
	completed := []StepResult{
		NewStepResult(1, "Site opened", "evidence/a.png"),
		NewStepResult(2, "Logged in", "evidence/b.png"),
	}
	abortedResults := []StepResult{
		NewStepResult(1, "Site opened", "evidence/a.png"),
		NewSentinelResult(errors.New("boom")),
	}

	tests := []struct {
		name         string
		initialState RunStatus
		results      []StepResult
		wantStatus   RunStatus
		wantErr      bool
	}{
		{
			name:         "complete with all steps passes",
			initialState: RunStatusRunning,
			results:      completed,
			wantStatus:   RunStatusPassed,
		},
		{
			name:         "complete with sentinel fails",
			initialState: RunStatusRunning,
			results:      abortedResults,
			wantStatus:   RunStatusFailed,
		},
		{
			name:         "cannot complete passed run",
			initialState: RunStatusPassed,
			results:      completed,
			wantErr:      true,
		},
		{
			name:         "cannot complete failed run",
			initialState: RunStatusFailed,
			results:      completed,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &Run{ID: "test-id", TargetURL: "https://example.com", Status: tt.initialState}

			err := run.Complete(tt.results)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Complete() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStatusTransition) {
					t.Errorf("Expected ErrInvalidStatusTransition, got %v", err)
				}
				return
			}

			if run.Status != tt.wantStatus {
				t.Errorf("Expected status %s, got %s", tt.wantStatus, run.Status)
			}
			if run.FinishedAt == nil {
				t.Error("FinishedAt should be set")
			}
			if len(run.Results) != len(tt.results) {
				t.Errorf("Expected %d results, got %d", len(tt.results), len(run.Results))
			}
		})
	}
}

func TestRun_CompleteCopiesResults(t *testing.T) {
	run, _ := NewRun("https://example.com")
	results := []StepResult{NewStepResult(1, "Site opened", "")}

	if err := run.Complete(results); err != nil {
		t.Fatalf("Complete() unexpected error = %v", err)
	}
	results[0].Description = "mutated"

	if run.Results[0].Description != "Site opened" {
		t.Errorf("Run results should not alias the caller's slice, got %q", run.Results[0].Description)
	}
}

func TestRun_CompletedSteps(t *testing.T) {
	run := &Run{Results: []StepResult{
		NewStepResult(1, "a", ""),
		NewCapturedResult(2, "b", ""),
		NewStepResult(2, "c", ""),
		NewSentinelResult(errors.New("x")),
	}}

	if got := run.CompletedSteps(); got != 2 {
		t.Errorf("Expected 2 completed steps, got %d", got)
	}
	if !run.Aborted() {
		t.Error("Expected run to be aborted")
	}
}
