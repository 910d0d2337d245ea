package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ghostshopper/ghostshopper/internal/config"
	_ "github.com/lib/pq"
)

// DB is the shared handle used by the run repository
var DB *sql.DB

const pingTimeout = 5 * time.Second

// Connect opens the run store database and verifies it is reachable
func Connect(cfg *config.PostgresConfig) error {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Runs write twice each, a small pool is plenty
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns / 2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	DB = db
	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
