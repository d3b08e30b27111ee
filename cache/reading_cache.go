package cache

import (
	"context"
	"fmt"
	"time"

	models "github.com/emese007/montpellier-bike-prediction/database/models_pkg"
)

// Latest-reading cache keys and TTL. Readings arrive hourly at most, so a
// short TTL keeps the cache honest without hammering Redis.
const (
	latestReadingKeyPrefix = "bike:latest:"
	latestReadingTTL       = 30 * time.Minute
)

// Store is the key-value backend the reading cache writes through.
// RedisClient implements it; tests substitute an in-memory map.
type Store interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
}

// ReadingCache caches the newest observed reading per counter so dashboards
// polling "current traffic" skip the database. All methods degrade to
// no-ops / misses when the backing store is unavailable.
type ReadingCache struct {
	store Store
}

// NewReadingCache creates a reading cache on top of a key-value store,
// typically a RedisClient. A nil store yields a cache that always misses.
func NewReadingCache(store Store) *ReadingCache {
	return &ReadingCache{store: store}
}

func latestReadingKey(counterID string) string {
	return latestReadingKeyPrefix + counterID
}

// GetLatest returns the cached newest reading for a counter, or nil on a
// cache miss.
func (c *ReadingCache) GetLatest(ctx context.Context, counterID string) *models.BikeHourly {
	if c == nil || c.store == nil {
		return nil
	}

	var reading models.BikeHourly
	if err := c.store.Get(ctx, latestReadingKey(counterID), &reading); err != nil {
		return nil
	}
	return &reading
}

// SetLatest stores a counter's newest reading. Callers must only pass rows
// the database actually holds; the cache is a view of stored state, never a
// buffer of attempted writes.
func (c *ReadingCache) SetLatest(ctx context.Context, reading *models.BikeHourly) error {
	if c == nil || c.store == nil {
		return nil
	}

	if reading == nil || reading.CounterID == "" {
		return fmt.Errorf("reading cache: missing counter id")
	}
	return c.store.Set(ctx, latestReadingKey(reading.CounterID), reading, latestReadingTTL)
}

// Invalidate drops the cached reading for a counter, e.g. after the counter
// itself is deleted.
func (c *ReadingCache) Invalidate(ctx context.Context, counterID string) {
	if c == nil || c.store == nil {
		return
	}
	_ = c.store.Delete(ctx, latestReadingKey(counterID))
}
