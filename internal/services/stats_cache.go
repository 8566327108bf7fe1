package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	statsKeyPrefix  = "todolist:stats:"  // todolist:stats:{project_id}
	statsAccountKey = "todolist:stats:_" // account-wide scope
)

// StatsCache is a read-through redis cache for Statistics. A nil
// *StatsCache is valid and behaves as a permanent miss, so services
// can be wired without redis.
type StatsCache struct {
	logger zerolog.Logger
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(logger zerolog.Logger, client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{
		logger: logger,
		client: client,
		ttl:    ttl,
	}
}

func (c *StatsCache) key(projectID string) string {
	if projectID == "" {
		return statsAccountKey
	}
	return statsKeyPrefix + projectID
}

func (c *StatsCache) Get(ctx context.Context, projectID string) (*Statistics, bool) {
	if c == nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, c.key(projectID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().
				Err(err).
				Msg("stats cache read failed")
		}
		return nil, false
	}

	var stats Statistics
	if err = json.Unmarshal(payload, &stats); err != nil {
		c.logger.Warn().
			Err(err).
			Msg("stats cache payload corrupt")
		return nil, false
	}
	return &stats, true
}

func (c *StatsCache) Set(ctx context.Context, projectID string, stats *Statistics) {
	if c == nil {
		return
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Msg("failed to marshal stats")
		return
	}
	if err = c.client.Set(ctx, c.key(projectID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn().
			Err(err).
			Msg("stats cache write failed")
	}
}

// Invalidate drops the per-project entry and the account-wide entry;
// any task mutation shifts both.
func (c *StatsCache) Invalidate(ctx context.Context, projectID string) {
	if c == nil {
		return
	}

	keys := []string{statsAccountKey}
	if projectID != "" {
		keys = append(keys, c.key(projectID))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().
			Err(err).
			Msg("stats cache invalidation failed")
	}
}
