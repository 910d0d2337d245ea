package repository

import (
	"sync"

	"github.com/ghostshopper/ghostshopper/internal/models"
)

// MemoryRunStore keeps runs in process memory
type MemoryRunStore struct {
	mu    sync.RWMutex
	runs  map[string]*models.Run
	order []string
}

// NewMemoryRunStore creates an empty in-memory store
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{
		runs: make(map[string]*models.Run),
	}
}

// SaveRun stores a copy of the run, replacing any earlier version
func (s *MemoryRunStore) SaveRun(run *models.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.ID]; !ok {
		s.order = append(s.order, run.ID)
	}
	s.runs[run.ID] = cloneRun(run)
	return nil
}

// GetRun retrieves a run by its ID
func (s *MemoryRunStore) GetRun(id string) (*models.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, models.ErrRunNotFound
	}
	return cloneRun(run), nil
}

// LatestRun retrieves the most recently started run
func (s *MemoryRunStore) LatestRun() (*models.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Run
	for _, id := range s.order {
		run := s.runs[id]
		if latest == nil || !run.StartedAt.Before(latest.StartedAt) {
			latest = run
		}
	}
	if latest == nil {
		return nil, models.ErrRunNotFound
	}
	return cloneRun(latest), nil
}

// ListRuns retrieves up to limit runs, newest first
func (s *MemoryRunStore) ListRuns(limit int) ([]*models.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]*models.Run, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0 && len(runs) < limit; i-- {
		runs = append(runs, cloneRun(s.runs[s.order[i]]))
	}
	return runs, nil
}

func cloneRun(run *models.Run) *models.Run {
	clone := *run
	clone.Results = append([]models.StepResult(nil), run.Results...)
	if run.FinishedAt != nil {
		finished := *run.FinishedAt
		clone.FinishedAt = &finished
	}
	return &clone
}
