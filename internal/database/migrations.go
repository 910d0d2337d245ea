package database

import (
	"fmt"
	"log"
)

// Schema creates the tables used to persist runs
const Schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id UUID PRIMARY KEY,
		target_url TEXT NOT NULL,
		status VARCHAR(20) NOT NULL,
		results JSONB NOT NULL DEFAULT '[]',
		started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		finished_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`

// RunMigrations creates the necessary database tables
func RunMigrations() error {
	if DB == nil {
		return fmt.Errorf("database connection not initialized")
	}

	_, err := DB.Exec(Schema)
	if err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}
