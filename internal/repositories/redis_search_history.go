package repositories

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSearchHistory keeps each user's recent searches in a Redis list.
type RedisSearchHistory struct {
	rdb *redis.Client
}

// NewRedisSearchHistory creates a new RedisSearchHistory.
func NewRedisSearchHistory(rdb *redis.Client) *RedisSearchHistory {
	return &RedisSearchHistory{rdb: rdb}
}

func historyKey(userID string) string { return "searches:" + userID }

// Add pushes a query to the front of the user's history, removing any
// earlier occurrence and trimming the list to SearchHistoryLimit entries.
func (s *RedisSearchHistory) Add(ctx context.Context, userID, query string) error {
	key := historyKey(userID)
	pipe := s.rdb.TxPipeline()
	pipe.LRem(ctx, key, 0, query)
	pipe.LPush(ctx, key, query)
	pipe.LTrim(ctx, key, 0, SearchHistoryLimit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record search query: %w", err)
	}
	return nil
}

// List returns the user's recent searches, most recent first.
func (s *RedisSearchHistory) List(ctx context.Context, userID string) ([]string, error) {
	entries, err := s.rdb.LRange(ctx, historyKey(userID), 0, SearchHistoryLimit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list search history: %w", err)
	}
	return entries, nil
}
