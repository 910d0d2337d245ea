package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewStepResult(t *testing.T) {
	tests := []struct {
		name         string
		evidence     string
		wantEvidence bool
	}{
		{name: "with evidence", evidence: "evidence/01_home.png", wantEvidence: true},
		{name: "without evidence", evidence: "", wantEvidence: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewStepResult(1, "Site opened", tt.evidence)

			if res.Status != StatusCompleted {
				t.Errorf("Expected status %s, got %s", StatusCompleted, res.Status)
			}
			if (res.Evidence != nil) != tt.wantEvidence {
				t.Errorf("Expected evidence present = %v, got %v", tt.wantEvidence, res.Evidence)
			}
			if res.EvidencePath() != tt.evidence {
				t.Errorf("Expected evidence path %q, got %q", tt.evidence, res.EvidencePath())
			}
		})
	}
}

func TestNewSentinelResult(t *testing.T) {
	res := NewSentinelResult(errors.New("element not found: #checkout"))

	if !res.IsSentinel() {
		t.Errorf("Expected sentinel ordinal %d, got %d", StepSentinel, res.Step)
	}
	if res.Evidence != nil {
		t.Error("Sentinel record should not carry evidence")
	}
	if !strings.Contains(res.Status, "element not found: #checkout") {
		t.Errorf("Expected status to embed the error message, got %q", res.Status)
	}
	if res.IsCompleted() {
		t.Error("Sentinel record should not be completed")
	}
}

func TestStepResult_JSONContract(t *testing.T) {
	data, err := json.Marshal(NewSentinelResult(errors.New("boom")))
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	for _, key := range []string{"step", "descripcion", "imagen", "estado"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("Expected key %q in %s", key, data)
		}
	}
	if raw["imagen"] != nil {
		t.Errorf("Expected imagen to be null, got %v", raw["imagen"])
	}
}
