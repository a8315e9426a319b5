package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"specforge/internal/features/briefs/domain"
)

const (
	briefListGenKey    = "specforge:briefs:gen"
	briefListKeyPrefix = "specforge:briefs:list:"
)

func briefListKey(gen int64) string {
	return fmt.Sprintf("%s%d", briefListKeyPrefix, gen)
}

// BriefListCache holds the serialized newest-first brief list between writes.
// Entries are keyed by a generation that Invalidate bumps, so a list read
// before a write can never be stored for readers that come after it.
type BriefListCache interface {
	// Get returns the cached list and the generation it was looked up under.
	Get(ctx context.Context) (briefs []domain.Brief, gen int64, ok bool, err error)
	// Set stores briefs under gen, as returned by the Get that missed.
	Set(ctx context.Context, gen int64, briefs []domain.Brief) error
	Invalidate(ctx context.Context) error
}

type redisBriefListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBriefListCache caches the list under a generation-suffixed key with ttl.
func NewRedisBriefListCache(client *redis.Client, ttl time.Duration) BriefListCache {
	return &redisBriefListCache{client: client, ttl: ttl}
}

func (c *redisBriefListCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, briefListGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read brief list generation: %w", err)
	}
	return gen, nil
}

func (c *redisBriefListCache) Get(ctx context.Context) ([]domain.Brief, int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}

	data, err := c.client.Get(ctx, briefListKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, fmt.Errorf("failed to read brief list cache: %w", err)
	}

	var briefs []domain.Brief
	if err := json.Unmarshal(data, &briefs); err != nil {
		return nil, gen, false, fmt.Errorf("failed to decode brief list cache: %w", err)
	}
	return briefs, gen, true, nil
}

func (c *redisBriefListCache) Set(ctx context.Context, gen int64, briefs []domain.Brief) error {
	data, err := json.Marshal(briefs)
	if err != nil {
		return fmt.Errorf("failed to encode brief list: %w", err)
	}
	if err := c.client.Set(ctx, briefListKey(gen), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write brief list cache: %w", err)
	}
	return nil
}

// Invalidate moves readers to a new generation and drops the current entry.
func (c *redisBriefListCache) Invalidate(ctx context.Context) error {
	gen, err := c.client.Incr(ctx, briefListGenKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate brief list cache: %w", err)
	}
	if err := c.client.Del(ctx, briefListKey(gen-1)).Err(); err != nil {
		return fmt.Errorf("failed to drop stale brief list: %w", err)
	}
	return nil
}

// NoopBriefListCache is used when Redis is not configured.
type NoopBriefListCache struct{}

func (NoopBriefListCache) Get(context.Context) ([]domain.Brief, int64, bool, error) {
	return nil, 0, false, nil
}
func (NoopBriefListCache) Set(context.Context, int64, []domain.Brief) error { return nil }
func (NoopBriefListCache) Invalidate(context.Context) error { return nil }
