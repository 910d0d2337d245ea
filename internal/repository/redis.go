package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ghostshopper/ghostshopper/internal/models"
)

// RedisRunStore keeps runs in Redis: one JSON value per run plus a sorted
// set of run IDs scored by start time.
type RedisRunStore struct {
	client *redis.Client
	prefix string
	ctx    context.Context
}

// NewRedisRunStore creates a run store on an existing client
func NewRedisRunStore(client *redis.Client, prefix string) *RedisRunStore {
	return &RedisRunStore{
		client: client,
		prefix: prefix,
		ctx:    context.Background(),
	}
}

func (s *RedisRunStore) keyRun(id string) string {
	return fmt.Sprintf("%s:run:%s", s.prefix, id)
}

func (s *RedisRunStore) keyIndex() string {
	return fmt.Sprintf("%s:runs", s.prefix)
}

// SaveRun stores the run and indexes it by start time
func (s *RedisRunStore) SaveRun(run *models.Run) error {
	b, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}

	_, err = s.client.TxPipelined(s.ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(s.ctx, s.keyRun(run.ID), b, 0)
		pipe.ZAdd(s.ctx, s.keyIndex(), redis.Z{
			Score:  float64(run.StartedAt.UnixNano()),
			Member: run.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// GetRun retrieves a run by its ID
func (s *RedisRunStore) GetRun(id string) (*models.Run, error) {
	v, err := s.client.Get(s.ctx, s.keyRun(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return decodeRun(v)
}

// LatestRun retrieves the most recently started run
func (s *RedisRunStore) LatestRun() (*models.Run, error) {
	runs, err := s.ListRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, models.ErrRunNotFound
	}
	return runs[0], nil
}

// ListRuns retrieves up to limit runs, newest first
func (s *RedisRunStore) ListRuns(limit int) ([]*models.Run, error) {
	if limit <= 0 {
		return []*models.Run{}, nil
	}

	ids, err := s.client.ZRevRange(s.ctx, s.keyIndex(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	if len(ids) == 0 {
		return []*models.Run{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.keyRun(id)
	}

	values, err := s.client.MGet(s.ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*models.Run, 0, len(values))
	for _, v := range values {
		// Index entries whose value expired or was removed are skipped
		str, ok := v.(string)
		if !ok {
			continue
		}
		run, err := decodeRun(str)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, nil
}

func decodeRun(v string) (*models.Run, error) {
	var run models.Run
	if err := json.Unmarshal([]byte(v), &run); err != nil {
		return nil, fmt.Errorf("failed to decode run: %w", err)
	}
	return &run, nil
}
