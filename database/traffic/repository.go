// Package traffic persists the observed hourly readings, the append-only
// heart of the dataset.
package traffic

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emese007/montpellier-bike-prediction/cache"
	"github.com/emese007/montpellier-bike-prediction/database"
	models "github.com/emese007/montpellier-bike-prediction/database/models_pkg"
	"github.com/emese007/montpellier-bike-prediction/helpers"
)

// Repository handles database operations for observed hourly readings.
// The reading cache is optional; pass nil to run without Redis.
type Repository struct {
	db       *gorm.DB
	readings *cache.ReadingCache
}

// NewRepository creates a new traffic repository
func NewRepository(db *gorm.DB, readings *cache.ReadingCache) *Repository {
	return &Repository{db: db, readings: readings}
}

// Insert writes a single observed reading, normalizing its timestamp to the
// top of the hour first. Readings are append-only: a second row for the same
// (counter, hour) is rejected by the engine and surfaces through
// database.IsDuplicateKey; a reading for an unregistered counter surfaces
// through database.IsForeignKeyViolated.
func (r *Repository) Insert(ctx context.Context, reading *models.BikeHourly) error {
	if reading.CounterID == "" {
		return database.NewValidationError("counter_id", "reading must reference a counter")
	}

	reading.TimestampUTC = helpers.TruncateToHour(reading.TimestampUTC)
	if err := r.db.Create(reading).Error; err != nil {
		return fmt.Errorf("Insert: %w", err)
	}

	// The create succeeded, so this exact row is in the database and is
	// safe to cache.
	r.refreshLatest(ctx, reading)
	return nil
}

// BatchInsert writes readings in chunks, skipping rows whose (counter, hour)
// slot is already present. History backfills rerun over overlapping windows,
// so the load has to be idempotent without ever rewriting stored rows.
// Timestamps are normalized to the top of the hour before writing.
func (r *Repository) BatchInsert(ctx context.Context, readings []models.BikeHourly) error {
	if len(readings) == 0 {
		return nil
	}

	for i := range readings {
		readings[i].TimestampUTC = helpers.TruncateToHour(readings[i].TimestampUTC)
	}

	for i := 0; i < len(readings); i += database.DefaultBatchSize {
		end := i + database.DefaultBatchSize
		if end > len(readings) {
			end = len(readings)
		}
		batch := readings[i:end]

		err := r.db.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "counter_id"}, {Name: "timestamp_utc"}},
				DoNothing: true,
			}).
			Create(&batch).Error
		if err != nil {
			return fmt.Errorf("BatchInsert batch %d: %w", i/database.DefaultBatchSize, err)
		}
	}

	if r.readings == nil {
		return nil
	}
	refreshed := make(map[string]bool)
	for i := range readings {
		id := readings[i].CounterID
		if refreshed[id] {
			continue
		}
		refreshed[id] = true
		r.refreshLatestFromDB(ctx, id)
	}
	return nil
}

// GetRange returns a counter's readings within [from, to], ascending by time.
func (r *Repository) GetRange(counterID string, from, to time.Time) ([]models.BikeHourly, error) {
	var readings []models.BikeHourly
	err := r.db.
		Where("counter_id = ? AND timestamp_utc >= ? AND timestamp_utc <= ?", counterID, from, to).
		Order("timestamp_utc ASC").
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("GetRange: %w", err)
	}
	return readings, nil
}

// GetRangeAll returns readings of every counter within [from, to], ascending
// by time. The standalone timestamp index carries this fleet-wide scan.
func (r *Repository) GetRangeAll(from, to time.Time) ([]models.BikeHourly, error) {
	var readings []models.BikeHourly
	err := r.db.
		Where("timestamp_utc >= ? AND timestamp_utc <= ?", from, to).
		Order("timestamp_utc ASC").
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("GetRangeAll: %w", err)
	}
	return readings, nil
}

// GetRecent returns a counter's newest readings, newest first. A
// non-positive limit falls back to database.DefaultLimit and limits above
// database.MaxLimit are clamped.
func (r *Repository) GetRecent(counterID string, limit int) ([]models.BikeHourly, error) {
	if limit <= 0 {
		limit = database.DefaultLimit
	}
	if limit > database.MaxLimit {
		limit = database.MaxLimit
	}

	var readings []models.BikeHourly
	err := r.db.
		Where("counter_id = ?", counterID).
		Order("timestamp_utc DESC").
		Limit(limit).
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("GetRecent: %w", err)
	}
	return readings, nil
}

// Latest returns a counter's newest reading, or nil when the counter has no
// history yet. Served from the reading cache when one is wired.
func (r *Repository) Latest(ctx context.Context, counterID string) (*models.BikeHourly, error) {
	if cached := r.readings.GetLatest(ctx, counterID); cached != nil {
		return cached, nil
	}

	var reading models.BikeHourly
	err := r.db.
		Where("counter_id = ?", counterID).
		Order("timestamp_utc DESC").
		First(&reading).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("Latest: %w", err)
	}

	_ = r.readings.SetLatest(ctx, &reading)
	return &reading, nil
}

// CountForCounter returns how many readings a counter has.
func (r *Repository) CountForCounter(counterID string) (int64, error) {
	var n int64
	err := r.db.Model(&models.BikeHourly{}).
		Where("counter_id = ?", counterID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("CountForCounter: %w", err)
	}
	return n, nil
}

// refreshLatest advances the cached newest reading when this one supersedes
// it. Only for rows the caller knows were written. Cache failures never fail
// a write.
func (r *Repository) refreshLatest(ctx context.Context, reading *models.BikeHourly) {
	if r.readings == nil {
		return
	}
	cached := r.readings.GetLatest(ctx, reading.CounterID)
	if cached == nil || cached.TimestampUTC.Before(reading.TimestampUTC) {
		_ = r.readings.SetLatest(ctx, reading)
	}
}

// refreshLatestFromDB reloads a counter's cached newest reading from its
// stored rows. Batch loads skip conflicting slots silently, so the refresh
// must not trust the input slice: an input row the engine skipped may carry
// an intensity the database never accepted.
func (r *Repository) refreshLatestFromDB(ctx context.Context, counterID string) {
	var reading models.BikeHourly
	err := r.db.
		Where("counter_id = ?", counterID).
		Order("timestamp_utc DESC").
		First(&reading).Error
	if err != nil {
		return
	}
	_ = r.readings.SetLatest(ctx, &reading)
}
