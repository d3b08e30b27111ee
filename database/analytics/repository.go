// Package analytics answers the consumer-side questions dashboards ask of
// the dataset: how complete a counter's history is, what its daily rhythm
// looks like, and how well stored model predictions match what was observed.
package analytics

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	models "github.com/emese007/montpellier-bike-prediction/database/models_pkg"
	"github.com/emese007/montpellier-bike-prediction/database/types"
	"github.com/emese007/montpellier-bike-prediction/helpers"
)

// Repository handles read-side database operations over the dataset
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new analytics repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CounterCoverage summarizes a counter's observed history: row count, time
// bounds, mean intensity and the number of missing hourly slots between the
// bounds. Aggregates run in SQL; the gap count is derived from the bounds.
func (r *Repository) CounterCoverage(counterID string) (*types.CounterCoverage, error) {
	coverage := &types.CounterCoverage{CounterID: counterID}

	var agg struct {
		RowCount      int64
		MeanIntensity float64
	}
	err := r.db.Raw(`
		SELECT
			COUNT(*) as row_count,
			COALESCE(AVG(intensity), 0) as mean_intensity
		FROM bike_hourly
		WHERE counter_id = ?
	`, counterID).Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("CounterCoverage: %w", err)
	}

	coverage.RowCount = agg.RowCount
	coverage.MeanIntensity = agg.MeanIntensity
	if coverage.RowCount == 0 {
		return coverage, nil
	}

	var first, last models.BikeHourly
	if err := r.db.Where("counter_id = ?", counterID).Order("timestamp_utc ASC").First(&first).Error; err != nil {
		return nil, fmt.Errorf("CounterCoverage first: %w", err)
	}
	if err := r.db.Where("counter_id = ?", counterID).Order("timestamp_utc DESC").First(&last).Error; err != nil {
		return nil, fmt.Errorf("CounterCoverage last: %w", err)
	}

	firstTS, lastTS := first.TimestampUTC.UTC(), last.TimestampUTC.UTC()
	coverage.FirstTimestamp = &firstTS
	coverage.LastTimestamp = &lastTS
	coverage.MissingHours = helpers.HourSpan(firstTS, lastTS) - coverage.RowCount
	return coverage, nil
}

// HourlyProfile returns the counter's mean intensity per hour of day over
// [from, to]. Bucketing happens in Go to keep the query portable across
// dialects.
func (r *Repository) HourlyProfile(counterID string, from, to time.Time) ([]types.HourlyProfileEntry, error) {
	var readings []models.BikeHourly
	err := r.db.
		Where("counter_id = ? AND timestamp_utc >= ? AND timestamp_utc <= ?", counterID, from, to).
		Order("timestamp_utc ASC").
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("HourlyProfile: %w", err)
	}

	var sums [24]float64
	var counts [24]int64
	for i := range readings {
		h := readings[i].TimestampUTC.UTC().Hour()
		sums[h] += float64(readings[i].Intensity)
		counts[h]++
	}

	profile := make([]types.HourlyProfileEntry, 0, 24)
	for h := 0; h < 24; h++ {
		entry := types.HourlyProfileEntry{HourOfDay: h, SampleCount: counts[h]}
		if counts[h] > 0 {
			entry.MeanIntensity = sums[h] / float64(counts[h])
		}
		profile = append(profile, entry)
	}
	return profile, nil
}

// HolidayEffect compares a counter's mean hourly intensity on public
// holidays against ordinary days within one calendar year. Exercises the
// denormalized year column on holidays.
func (r *Repository) HolidayEffect(counterID string, year int) (*types.HolidayEffect, error) {
	var entries []models.Holiday
	err := r.db.
		Where("year = ?", year).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("HolidayEffect holidays: %w", err)
	}

	holidayDays := make(map[time.Time]bool, len(entries))
	for i := range entries {
		holidayDays[helpers.DateUTC(entries[i].Date)] = true
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	var readings []models.BikeHourly
	err = r.db.
		Where("counter_id = ? AND timestamp_utc >= ? AND timestamp_utc < ?", counterID, yearStart, yearEnd).
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("HolidayEffect readings: %w", err)
	}

	effect := &types.HolidayEffect{CounterID: counterID, Year: year}
	var holidaySum, ordinarySum float64
	for i := range readings {
		day := helpers.DateUTC(readings[i].TimestampUTC)
		if holidayDays[day] {
			holidaySum += float64(readings[i].Intensity)
			effect.HolidayHours++
		} else {
			ordinarySum += float64(readings[i].Intensity)
			effect.OrdinaryHours++
		}
	}

	if effect.HolidayHours > 0 {
		effect.HolidayMean = holidaySum / float64(effect.HolidayHours)
	}
	if effect.OrdinaryHours > 0 {
		effect.OrdinaryMean = ordinarySum / float64(effect.OrdinaryHours)
	}
	if effect.OrdinaryMean > 0 {
		effect.RelativeTraffic = effect.HolidayMean / effect.OrdinaryMean
	}
	return effect, nil
}

// ModelAccuracy joins one model's predictions against the observed readings
// for the same (counter, hour) slots within [from, to] and reports MAE,
// RMSE and bias. Slots without an observed reading are excluded.
func (r *Repository) ModelAccuracy(counterID, modelName string, from, to time.Time) (*types.ModelAccuracy, error) {
	var pairs []struct {
		Predicted float64
		Observed  float64
	}
	err := r.db.Raw(`
		SELECT
			p.predicted_intensity as predicted,
			b.intensity as observed
		FROM bike_predictions_hourly p
		JOIN bike_hourly b
			ON b.counter_id = p.counter_id
			AND b.timestamp_utc = p.timestamp_utc
		WHERE p.counter_id = ?
			AND p.model_name = ?
			AND p.timestamp_utc >= ?
			AND p.timestamp_utc <= ?
	`, counterID, modelName, from, to).Scan(&pairs).Error
	if err != nil {
		return nil, fmt.Errorf("ModelAccuracy: %w", err)
	}

	accuracy := &types.ModelAccuracy{
		CounterID:   counterID,
		ModelName:   modelName,
		SampleCount: int64(len(pairs)),
	}
	if len(pairs) == 0 {
		return accuracy, nil
	}

	var absSum, sqSum, errSum float64
	for i := range pairs {
		diff := pairs[i].Predicted - pairs[i].Observed
		absSum += math.Abs(diff)
		sqSum += diff * diff
		errSum += diff
	}
	n := float64(len(pairs))
	accuracy.MAE = absSum / n
	accuracy.RMSE = math.Sqrt(sqSum / n)
	accuracy.Bias = errSum / n
	return accuracy, nil
}
