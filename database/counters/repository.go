// Package counters persists the counter registry, the root entity every
// reading and prediction hangs off.
package counters

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emese007/montpellier-bike-prediction/cache"
	"github.com/emese007/montpellier-bike-prediction/database"
	models "github.com/emese007/montpellier-bike-prediction/database/models_pkg"
)

// Repository handles database operations for the counter registry.
// The reading cache is optional; pass nil to run without Redis.
type Repository struct {
	db       *gorm.DB
	readings *cache.ReadingCache
}

// NewRepository creates a new counters repository
func NewRepository(db *gorm.DB, readings *cache.ReadingCache) *Repository {
	return &Repository{db: db, readings: readings}
}

// Upsert registers a counter, or refreshes its name and coordinates when it
// already exists. Registration is idempotent so reloading the fleet list is
// always safe.
func (r *Repository) Upsert(counter *models.Counter) error {
	if counter.ID == "" {
		return database.NewValidationError("id", "counter id must not be empty")
	}

	err := r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "lat", "lon"}),
		}).
		Omit(clause.Associations).
		Create(counter).Error
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}

// BatchUpsert registers a list of counters in one statement.
func (r *Repository) BatchUpsert(counters []models.Counter) error {
	if len(counters) == 0 {
		return nil
	}

	for i := range counters {
		if counters[i].ID == "" {
			return database.NewValidationError("id", "counter id must not be empty")
		}
	}

	err := r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "lat", "lon"}),
		}).
		Omit(clause.Associations).
		Create(&counters).Error
	if err != nil {
		return fmt.Errorf("BatchUpsert: %w", err)
	}
	return nil
}

// GetByID retrieves a counter, returning a NotFoundError when absent.
func (r *Repository) GetByID(id string) (*models.Counter, error) {
	var counter models.Counter
	err := r.db.Where("id = ?", id).First(&counter).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, database.NewNotFoundErrorWithID("counter", id)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return &counter, nil
}

// List returns all registered counters ordered by id.
func (r *Repository) List() ([]models.Counter, error) {
	var counters []models.Counter
	if err := r.db.Order("id ASC").Find(&counters).Error; err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return counters, nil
}

// Count returns the number of registered counters.
func (r *Repository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&models.Counter{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

// Delete removes a counter. The engine cascades the delete to the counter's
// bike_hourly and bike_predictions_hourly rows, so no orphans remain, and
// the counter's cached latest reading is dropped so reads stop serving it.
// Returns a NotFoundError when the counter does not exist.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res := r.db.Delete(&models.Counter{ID: id})
	if res.Error != nil {
		return fmt.Errorf("Delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return database.NewNotFoundErrorWithID("counter", id)
	}

	r.readings.Invalidate(ctx, id)
	return nil
}
