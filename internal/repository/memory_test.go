package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/ghostshopper/ghostshopper/internal/models"
)

func TestMemoryRunStore_SaveAndGet(t *testing.T) {
	store := NewMemoryRunStore()

	run, err := models.NewRun("https://www.saucedemo.com")
	if err != nil {
		t.Fatalf("NewRun() error = %v", err)
	}

	if err := store.SaveRun(run); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	// Mutating the caller's copy must not leak into the store
	if err := run.Complete([]models.StepResult{models.NewStepResult(1, "Store opened", "")}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	stored, err := store.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if stored.Status != models.RunStatusRunning {
		t.Errorf("Expected stored status %s, got %s", models.RunStatusRunning, stored.Status)
	}
	if len(stored.Results) != 0 {
		t.Errorf("Expected no stored results, got %d", len(stored.Results))
	}

	if err := store.SaveRun(run); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	stored, err = store.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if stored.Status != models.RunStatusPassed {
		t.Errorf("Expected stored status %s, got %s", models.RunStatusPassed, stored.Status)
	}

	runs, _ := store.ListRuns(10)
	if len(runs) != 1 {
		t.Errorf("Saving twice should keep one entry, got %d", len(runs))
	}
}

func TestMemoryRunStore_NotFound(t *testing.T) {
	store := NewMemoryRunStore()

	if _, err := store.GetRun("missing"); !errors.Is(err, models.ErrRunNotFound) {
		t.Errorf("GetRun() error = %v, want ErrRunNotFound", err)
	}
	if _, err := store.LatestRun(); !errors.Is(err, models.ErrRunNotFound) {
		t.Errorf("LatestRun() error = %v, want ErrRunNotFound", err)
	}

	runs, err := store.ListRuns(5)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Expected no runs, got %d", len(runs))
	}
}

func TestMemoryRunStore_LatestAndList(t *testing.T) {
	store := NewMemoryRunStore()
	base := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		run, err := models.NewRun("https://www.saucedemo.com")
		if err != nil {
			t.Fatalf("NewRun() error = %v", err)
		}
		run.StartedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.SaveRun(run); err != nil {
			t.Fatalf("SaveRun() error = %v", err)
		}
		ids = append(ids, run.ID)
	}

	latest, err := store.LatestRun()
	if err != nil {
		t.Fatalf("LatestRun() error = %v", err)
	}
	if latest.ID != ids[2] {
		t.Errorf("LatestRun() = %s, want %s", latest.ID, ids[2])
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "limit below count", limit: 2, want: []string{ids[2], ids[1]}},
		{name: "limit above count", limit: 10, want: []string{ids[2], ids[1], ids[0]}},
		{name: "zero limit", limit: 0, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := store.ListRuns(tt.limit)
			if err != nil {
				t.Fatalf("ListRuns() error = %v", err)
			}
			if len(runs) != len(tt.want) {
				t.Fatalf("ListRuns() returned %d runs, want %d", len(runs), len(tt.want))
			}
			for i, run := range runs {
				if run.ID != tt.want[i] {
					t.Errorf("runs[%d] = %s, want %s", i, run.ID, tt.want[i])
				}
			}
		})
	}
}

func TestMemoryRunStore_ConcurrentSaves(t *testing.T) {
	store := NewMemoryRunStore()

	const numRuns = 20
	errChan := make(chan error, numRuns)

	for i := 0; i < numRuns; i++ {
		go func() {
			run, err := models.NewRun("https://www.saucedemo.com")
			if err != nil {
				errChan <- err
				return
			}
			errChan <- store.SaveRun(run)
		}()
	}

	for i := 0; i < numRuns; i++ {
		if err := <-errChan; err != nil {
			t.Errorf("Concurrent save failed: %v", err)
		}
	}

	runs, _ := store.ListRuns(numRuns)
	if len(runs) != numRuns {
		t.Errorf("Expected %d runs, got %d", numRuns, len(runs))
	}
}
