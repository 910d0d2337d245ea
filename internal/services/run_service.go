package services

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ghostshopper/ghostshopper/internal/browser"
	"github.com/ghostshopper/ghostshopper/internal/config"
	"github.com/ghostshopper/ghostshopper/internal/models"
	"github.com/ghostshopper/ghostshopper/internal/scenario"
)

// RunStore defines the interface for run persistence
type RunStore interface {
	SaveRun(run *models.Run) error
	GetRun(id string) (*models.Run, error)
	LatestRun() (*models.Run, error)
	ListRuns(limit int) ([]*models.Run, error)
}

// ScenarioRunner executes the purchase scenario once
type ScenarioRunner interface {
	Run(runID string) []models.StepResult
}

// RunnerFactory builds a runner for the given target URL. Every run gets its
// own runner and therefore its own browser session.
type RunnerFactory func(targetURL string) ScenarioRunner

// NewScenarioRunnerFactory returns a factory producing Playwright-backed runners
func NewScenarioRunnerFactory(launcher browser.Launcher, browserCfg config.BrowserConfig, cfg config.ScenarioConfig, opts ...scenario.Option) RunnerFactory {
	return func(targetURL string) ScenarioRunner {
		return scenario.NewRunner(launcher, browserCfg, cfg.WithBaseURL(targetURL), opts...)
	}
}

// RunObserver is notified when a run starts and when it finishes.
// Observers must not block; they run on the goroutine executing the scenario.
type RunObserver interface {
	RunStarted(run *models.Run)
	RunFinished(run *models.Run)
}

// RunService handles scenario execution and run lookup
type RunService interface {
	RunSync(targetURL string) (*models.Run, error)
	RunAsync(targetURL string) (*models.Run, error)
	LatestRun() (*models.Run, error)
	GetRun(id string) (*models.Run, error)
	ListRuns(limit int) ([]*models.Run, error)
	Wait()
}

// RunServiceImpl implements RunService
type RunServiceImpl struct {
	store            RunStore
	newRunner        RunnerFactory
	defaultTargetURL string
	observers        []RunObserver

	wg sync.WaitGroup
}

// NewRunService creates a new run service. An empty target URL passed to
// RunSync or RunAsync falls back to defaultTargetURL.
func NewRunService(store RunStore, newRunner RunnerFactory, defaultTargetURL string, observers ...RunObserver) *RunServiceImpl {
	return &RunServiceImpl{
		store:            store,
		newRunner:        newRunner,
		defaultTargetURL: defaultTargetURL,
		observers:        observers,
	}
}

// RunSync executes the scenario and returns the finished run
func (s *RunServiceImpl) RunSync(targetURL string) (*models.Run, error) {
	run, err := s.start(targetURL)
	if err != nil {
		return nil, err
	}

	if err := s.execute(run); err != nil {
		return nil, err
	}

	return run, nil
}

// RunAsync records a running run and executes the scenario in the background
func (s *RunServiceImpl) RunAsync(targetURL string) (*models.Run, error) {
	run, err := s.start(targetURL)
	if err != nil {
		return nil, err
	}

	// The background goroutine owns its own copy
	pending := *run

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.execute(&pending); err != nil {
			log.Printf("[run %s] %v", pending.ID, err)
		}
	}()

	return run, nil
}

// Wait blocks until every background run has finished
func (s *RunServiceImpl) Wait() {
	s.wg.Wait()
}

// LatestRun retrieves the most recently started run
func (s *RunServiceImpl) LatestRun() (*models.Run, error) {
	run, err := s.store.LatestRun()
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

// GetRun retrieves a run by its ID
func (s *RunServiceImpl) GetRun(id string) (*models.Run, error) {
	run, err := s.store.GetRun(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves up to limit runs, newest first
func (s *RunServiceImpl) ListRuns(limit int) ([]*models.Run, error) {
	runs, err := s.store.ListRuns(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

func (s *RunServiceImpl) start(targetURL string) (*models.Run, error) {
	// Same normalization as ScenarioConfig.WithBaseURL
	targetURL = strings.TrimRight(strings.TrimSpace(targetURL), "/")
	if targetURL == "" {
		targetURL = s.defaultTargetURL
	}

	run, err := models.NewRun(targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid run: %w", err)
	}

	if err := s.store.SaveRun(run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	log.Printf("[run %s] started against %s", run.ID, run.TargetURL)
	for _, o := range s.observers {
		o.RunStarted(run)
	}
	return run, nil
}

func (s *RunServiceImpl) execute(run *models.Run) error {
	results := s.newRunner(run.TargetURL).Run(run.ID)

	if err := run.Complete(results); err != nil {
		return err
	}

	log.Printf("[run %s] %s: %d/%d steps completed in %s",
		run.ID, run.Status, run.CompletedSteps(), len(results), run.ExecutionTime())
	for _, o := range s.observers {
		o.RunFinished(run)
	}

	if err := s.store.SaveRun(run); err != nil {
		return fmt.Errorf("failed to save run results: %w", err)
	}

	return nil
}
