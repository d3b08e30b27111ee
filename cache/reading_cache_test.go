package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	models "github.com/emese007/montpellier-bike-prediction/database/models_pkg"
)

// memStore is an in-memory Store standing in for Redis.
type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *memStore) Get(_ context.Context, key string, dest interface{}) error {
	b, ok := m.data[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(b, dest)
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestReadingCacheRoundTrip(t *testing.T) {
	readings := NewReadingCache(newMemStore())
	ctx := context.Background()

	reading := models.BikeHourly{
		CounterID:    "urn:c1",
		TimestampUTC: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		Intensity:    42,
	}
	if err := readings.SetLatest(ctx, &reading); err != nil {
		t.Fatalf("SetLatest: %v", err)
	}

	cached := readings.GetLatest(ctx, "urn:c1")
	if cached == nil {
		t.Fatal("expected a cache hit")
	}
	if cached.Intensity != 42 || !cached.TimestampUTC.Equal(reading.TimestampUTC) {
		t.Errorf("cached reading mismatch: %+v", cached)
	}

	readings.Invalidate(ctx, "urn:c1")
	if cached := readings.GetLatest(ctx, "urn:c1"); cached != nil {
		t.Errorf("expected miss after invalidation, got %+v", cached)
	}
}

func TestReadingCacheKeysPerCounter(t *testing.T) {
	readings := NewReadingCache(newMemStore())
	ctx := context.Background()

	ts := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	if err := readings.SetLatest(ctx, &models.BikeHourly{CounterID: "urn:c1", TimestampUTC: ts, Intensity: 1}); err != nil {
		t.Fatalf("SetLatest c1: %v", err)
	}
	if err := readings.SetLatest(ctx, &models.BikeHourly{CounterID: "urn:c2", TimestampUTC: ts, Intensity: 2}); err != nil {
		t.Fatalf("SetLatest c2: %v", err)
	}

	readings.Invalidate(ctx, "urn:c1")
	if cached := readings.GetLatest(ctx, "urn:c2"); cached == nil || cached.Intensity != 2 {
		t.Errorf("expected c2 untouched by c1 invalidation, got %+v", cached)
	}
}

func TestReadingCacheSetLatestRequiresCounter(t *testing.T) {
	readings := NewReadingCache(newMemStore())

	if err := readings.SetLatest(context.Background(), &models.BikeHourly{}); err == nil {
		t.Error("expected error for reading without counter id")
	}
}

func TestReadingCacheNilSafe(t *testing.T) {
	ctx := context.Background()

	var readings *ReadingCache
	if cached := readings.GetLatest(ctx, "urn:c1"); cached != nil {
		t.Errorf("nil cache: expected miss, got %+v", cached)
	}
	if err := readings.SetLatest(ctx, &models.BikeHourly{CounterID: "urn:c1"}); err != nil {
		t.Errorf("nil cache: SetLatest = %v", err)
	}
	readings.Invalidate(ctx, "urn:c1")

	storeless := NewReadingCache(nil)
	if cached := storeless.GetLatest(ctx, "urn:c1"); cached != nil {
		t.Errorf("storeless cache: expected miss, got %+v", cached)
	}
}
