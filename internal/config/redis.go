package config

import (
	"fmt"
	"strconv"
)

// RedisConfig holds configuration for the Redis run store
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoadRedisConfig loads Redis configuration from environment variables
func LoadRedisConfig(getenv func(string) string) (*RedisConfig, error) {
	config := &RedisConfig{
		Addr:      getenv("REDIS_ADDR"),
		Password:  getenv("REDIS_PASSWORD"),
		KeyPrefix: getenvOrDefault(getenv, "REDIS_KEY_PREFIX", "ghostshopper"),
	}

	if config.Addr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is required")
	}

	if raw := getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil || db < 0 {
			return nil, fmt.Errorf("REDIS_DB must be a non-negative integer, got %q", raw)
		}
		config.DB = db
	}

	return config, nil
}

// RedisEnabled reports whether runs should be kept in Redis
func RedisEnabled(getenv func(string) string) bool {
	return getenv("REDIS_ADDR") != ""
}
