package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/student-portal/internal/roster"
)

const rosterCachePrefix = "roster:feed:"

// RosterCache stores serialized roster feeds per privilege mode.
type RosterCache interface {
	Get(ctx context.Context, mode roster.Mode) (*roster.Feed, bool, error)
	Set(ctx context.Context, feed *roster.Feed, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type redisRosterCache struct {
	client *redis.Client
}

// NewRosterCache returns a Redis-backed cache. A nil client yields a cache
// that always misses.
func NewRosterCache(client *redis.Client) RosterCache {
	if client == nil {
		return noopRosterCache{}
	}
	return &redisRosterCache{client: client}
}

func rosterKey(mode roster.Mode) string {
	return rosterCachePrefix + string(mode)
}

func (c *redisRosterCache) Get(ctx context.Context, mode roster.Mode) (*roster.Feed, bool, error) {
	raw, err := c.client.Get(ctx, rosterKey(mode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var feed roster.Feed
	if err := json.Unmarshal(raw, &feed); err != nil {
		return nil, false, err
	}
	return &feed, true, nil
}

func (c *redisRosterCache) Set(ctx context.Context, feed *roster.Feed, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(feed)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, rosterKey(feed.Mode), raw, ttl).Err()
}

func (c *redisRosterCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, rosterKey(roster.ModeElevated), rosterKey(roster.ModeReduced)).Err()
}

type noopRosterCache struct{}

func (noopRosterCache) Get(context.Context, roster.Mode) (*roster.Feed, bool, error) {
	return nil, false, nil
}

func (noopRosterCache) Set(context.Context, *roster.Feed, time.Duration) error { return nil }

func (noopRosterCache) Invalidate(context.Context) error { return nil }
