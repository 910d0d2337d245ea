package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ghostshopper/ghostshopper/internal/database"
	"github.com/ghostshopper/ghostshopper/internal/models"
	"github.com/google/uuid"
)

// RunRepository handles database operations for runs
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository() *RunRepository {
	return &RunRepository{
		db: database.DB,
	}
}

// NewRunRepositoryWithDB creates a new run repository with a specific database connection
func NewRunRepositoryWithDB(db *sql.DB) *RunRepository {
	return &RunRepository{
		db: db,
	}
}

// SaveRun inserts a run or updates its status and results
func (r *RunRepository) SaveRun(run *models.Run) error {
	query := `
		INSERT INTO runs (id, target_url, status, results, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status,
		    results = EXCLUDED.results,
		    finished_at = EXCLUDED.finished_at
	`

	results, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("failed to encode run results: %w", err)
	}

	var finishedAt sql.NullTime
	if run.FinishedAt != nil {
		finishedAt = sql.NullTime{Time: *run.FinishedAt, Valid: true}
	}

	_, err = r.db.Exec(query,
		run.ID,
		run.TargetURL,
		run.Status,
		results,
		run.StartedAt,
		finishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// GetRun retrieves a run by its ID. IDs that are not UUIDs cannot exist in
// the table and are reported as not found.
func (r *RunRepository) GetRun(id string) (*models.Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrRunNotFound, id)
	}

	query := `
		SELECT id, target_url, status, results, started_at, finished_at
		FROM runs
		WHERE id = $1
	`

	return r.scanRun(r.db.QueryRow(query, id))
}

// LatestRun retrieves the most recently started run
func (r *RunRepository) LatestRun() (*models.Run, error) {
	query := `
		SELECT id, target_url, status, results, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT 1
	`

	return r.scanRun(r.db.QueryRow(query))
}

// ListRuns retrieves up to limit runs, newest first
func (r *RunRepository) ListRuns(limit int) ([]*models.Run, error) {
	query := `
		SELECT id, target_url, status, results, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := r.scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *RunRepository) scanRun(row rowScanner) (*models.Run, error) {
	run := &models.Run{}
	var results []byte
	var finishedAt sql.NullTime

	err := row.Scan(
		&run.ID,
		&run.TargetURL,
		&run.Status,
		&results,
		&run.StartedAt,
		&finishedAt,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrRunNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if err := json.Unmarshal(results, &run.Results); err != nil {
		return nil, fmt.Errorf("failed to decode run results: %w", err)
	}
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}

	return run, nil
}
