package config

import (
	"fmt"
	"strconv"
)

// PostgresConfig holds the connection settings of the PostgreSQL run store
type PostgresConfig struct {
	User         string
	Password     string
	Database     string
	Host         string
	Port         int
	SSLMode      string
	MaxOpenConns int
}

// LoadPostgresConfig loads PostgreSQL configuration from environment variables
func LoadPostgresConfig(getenv func(string) string) (*PostgresConfig, error) {
	config := &PostgresConfig{
		User:         getenv("POSTGRES_USER"),
		Password:     getenv("POSTGRES_PASSWORD"),
		Database:     getenv("POSTGRES_DB"),
		Host:         getenv("POSTGRES_HOSTNAME"),
		Port:         5432,
		SSLMode:      getenv("POSTGRES_SSLMODE"),
		MaxOpenConns: 10,
	}

	// Validate required fields
	if config.User == "" {
		return nil, fmt.Errorf("POSTGRES_USER is required")
	}
	if config.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if config.Database == "" {
		return nil, fmt.Errorf("POSTGRES_DB is required")
	}
	if config.Host == "" {
		return nil, fmt.Errorf("POSTGRES_HOSTNAME is required")
	}

	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}
	if v := getenv("POSTGRES_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("POSTGRES_PORT must be a valid port, got %q", v)
		}
		config.Port = port
	}
	if v := getenv("POSTGRES_MAX_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("POSTGRES_MAX_CONNS must be a positive integer, got %q", v)
		}
		config.MaxOpenConns = n
	}

	return config, nil
}

// ConnectionString returns a lib/pq key/value connection string
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// PostgresEnabled reports whether run persistence should use PostgreSQL.
// Without POSTGRES_HOSTNAME runs are kept in Redis or in memory.
func PostgresEnabled(getenv func(string) string) bool {
	return getenv("POSTGRES_HOSTNAME") != ""
}
