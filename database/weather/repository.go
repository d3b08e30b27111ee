// Package weather persists the city-level weather rows: observed history
// and the forecast horizon. Both tables are keyed purely by time; the whole
// counter fleet shares one weather context.
package weather

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emese007/montpellier-bike-prediction/database"
	models "github.com/emese007/montpellier-bike-prediction/database/models_pkg"
	"github.com/emese007/montpellier-bike-prediction/helpers"
)

// Repository handles database operations for weather observations and forecasts
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new weather repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ============================================================================
// Observations (weather_hourly)
// ============================================================================

// InsertObservation writes a single observed snapshot, normalizing its
// timestamp to the top of the hour first. Observations are append-only by
// timestamp; a duplicate hour is rejected by the engine.
func (r *Repository) InsertObservation(obs *models.WeatherHourly) error {
	obs.TimestampUTC = helpers.TruncateToHour(obs.TimestampUTC)
	if err := r.db.Create(obs).Error; err != nil {
		return fmt.Errorf("InsertObservation: %w", err)
	}
	return nil
}

// BatchInsertObservations writes observed history in chunks, skipping hours
// already on record. Recorded weather never changes, so conflicts are
// ignored rather than overwritten.
func (r *Repository) BatchInsertObservations(observations []models.WeatherHourly) error {
	if len(observations) == 0 {
		return nil
	}

	for i := range observations {
		observations[i].TimestampUTC = helpers.TruncateToHour(observations[i].TimestampUTC)
	}

	for i := 0; i < len(observations); i += database.DefaultBatchSize {
		end := i + database.DefaultBatchSize
		if end > len(observations) {
			end = len(observations)
		}
		batch := observations[i:end]

		err := r.db.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "timestamp_utc"}},
				DoNothing: true,
			}).
			Create(&batch).Error
		if err != nil {
			return fmt.Errorf("BatchInsertObservations batch %d: %w", i/database.DefaultBatchSize, err)
		}
	}
	return nil
}

// GetObservationRange returns observed snapshots within [from, to],
// ascending by time.
func (r *Repository) GetObservationRange(from, to time.Time) ([]models.WeatherHourly, error) {
	var observations []models.WeatherHourly
	err := r.db.
		Where("timestamp_utc >= ? AND timestamp_utc <= ?", from, to).
		Order("timestamp_utc ASC").
		Find(&observations).Error
	if err != nil {
		return nil, fmt.Errorf("GetObservationRange: %w", err)
	}
	return observations, nil
}

// LatestObservation returns the newest observed snapshot, or nil when the
// table is empty.
func (r *Repository) LatestObservation() (*models.WeatherHourly, error) {
	var obs models.WeatherHourly
	err := r.db.Order("timestamp_utc DESC").First(&obs).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("LatestObservation: %w", err)
	}
	return &obs, nil
}

// ============================================================================
// Forecasts (weather_forecast_hourly)
// ============================================================================

// UpsertForecasts writes a forecast run. The table keys rows on the target
// hour alone, so a later run for the same hour overwrites the earlier one:
// latest forecast wins, measurements and ingestion timestamp included.
func (r *Repository) UpsertForecasts(forecasts []models.WeatherForecastHourly) error {
	if len(forecasts) == 0 {
		return nil
	}

	for i := range forecasts {
		forecasts[i].TimestampUTC = helpers.TruncateToHour(forecasts[i].TimestampUTC)
	}

	for i := 0; i < len(forecasts); i += database.ForecastBatchSize {
		end := i + database.ForecastBatchSize
		if end > len(forecasts) {
			end = len(forecasts)
		}
		batch := forecasts[i:end]

		err := r.db.
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "timestamp_utc"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"temperature_2m",
					"relative_humidity_2m",
					"precipitation",
					"wind_speed_10m",
					"created_at",
				}),
			}).
			Create(&batch).Error
		if err != nil {
			return fmt.Errorf("UpsertForecasts batch %d: %w", i/database.ForecastBatchSize, err)
		}
	}
	return nil
}

// GetForecastRange returns forecast snapshots within [from, to], ascending
// by time.
func (r *Repository) GetForecastRange(from, to time.Time) ([]models.WeatherForecastHourly, error) {
	var forecasts []models.WeatherForecastHourly
	err := r.db.
		Where("timestamp_utc >= ? AND timestamp_utc <= ?", from, to).
		Order("timestamp_utc ASC").
		Find(&forecasts).Error
	if err != nil {
		return nil, fmt.Errorf("GetForecastRange: %w", err)
	}
	return forecasts, nil
}

// GetForecastForDay returns the forecast rows of the UTC calendar day
// containing t, midnight to midnight, ascending. The daily pipeline writes
// exactly this 24-hour window for tomorrow.
func (r *Repository) GetForecastForDay(t time.Time) ([]models.WeatherForecastHourly, error) {
	start, end := helpers.DayBoundsUTC(t)

	var forecasts []models.WeatherForecastHourly
	err := r.db.
		Where("timestamp_utc >= ? AND timestamp_utc < ?", start, end).
		Order("timestamp_utc ASC").
		Find(&forecasts).Error
	if err != nil {
		return nil, fmt.Errorf("GetForecastForDay: %w", err)
	}
	return forecasts, nil
}
