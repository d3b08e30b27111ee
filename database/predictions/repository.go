// Package predictions persists model-generated traffic predictions. The
// model_name discriminator in the key lets several models predict the same
// counter/hour slot side by side.
package predictions

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emese007/montpellier-bike-prediction/database"
	models "github.com/emese007/montpellier-bike-prediction/database/models_pkg"
)

// Repository handles database operations for traffic predictions
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new predictions repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert writes a prediction run in chunks. Rows conflict only on the full
// (counter, hour, model) triple: a rerun of the same model overwrites its
// own rows while other models' predictions for the same slots are untouched.
// A prediction for an unregistered counter is rejected by the engine.
func (r *Repository) Upsert(preds []models.BikePredictionHourly) error {
	if len(preds) == 0 {
		return nil
	}

	for i := range preds {
		if preds[i].CounterID == "" {
			return database.NewValidationError("counter_id", "prediction must reference a counter")
		}
		if preds[i].ModelName == "" {
			return database.NewValidationError("model_name", "prediction must name its model")
		}
	}

	for i := 0; i < len(preds); i += database.DefaultBatchSize {
		end := i + database.DefaultBatchSize
		if end > len(preds) {
			end = len(preds)
		}
		batch := preds[i:end]

		err := r.db.
			Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "counter_id"},
					{Name: "timestamp_utc"},
					{Name: "model_name"},
				},
				DoUpdates: clause.AssignmentColumns([]string{"predicted_intensity", "created_at"}),
			}).
			Create(&batch).Error
		if err != nil {
			return fmt.Errorf("Upsert batch %d: %w", i/database.DefaultBatchSize, err)
		}
	}
	return nil
}

// GetForCounter returns one model's predictions for a counter within
// [from, to], ascending by target hour.
func (r *Repository) GetForCounter(counterID, modelName string, from, to time.Time) ([]models.BikePredictionHourly, error) {
	var preds []models.BikePredictionHourly
	err := r.db.
		Where("counter_id = ? AND model_name = ? AND timestamp_utc >= ? AND timestamp_utc <= ?",
			counterID, modelName, from, to).
		Order("timestamp_utc ASC").
		Find(&preds).Error
	if err != nil {
		return nil, fmt.Errorf("GetForCounter: %w", err)
	}
	return preds, nil
}

// GetForSlot returns every model's prediction for one counter/hour slot,
// ordered by model name.
func (r *Repository) GetForSlot(counterID string, timestampUTC time.Time) ([]models.BikePredictionHourly, error) {
	var preds []models.BikePredictionHourly
	err := r.db.
		Where("counter_id = ? AND timestamp_utc = ?", counterID, timestampUTC).
		Order("model_name ASC").
		Find(&preds).Error
	if err != nil {
		return nil, fmt.Errorf("GetForSlot: %w", err)
	}
	return preds, nil
}

// ListModels returns the distinct model names present in the table.
func (r *Repository) ListModels() ([]string, error) {
	var names []string
	err := r.db.Model(&models.BikePredictionHourly{}).
		Distinct("model_name").
		Order("model_name ASC").
		Pluck("model_name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("ListModels: %w", err)
	}
	return names, nil
}

// ClearModel deletes every prediction a model produced, across all counters.
// The daily pipeline clears a model before writing its fresh run so the
// table only carries current predictions. Returns the number of rows removed.
func (r *Repository) ClearModel(modelName string) (int64, error) {
	res := r.db.
		Where("model_name = ?", modelName).
		Delete(&models.BikePredictionHourly{})
	if res.Error != nil {
		return 0, fmt.Errorf("ClearModel: %w", res.Error)
	}
	return res.RowsAffected, nil
}
