// Package types defines shared query-result structures used by the
// analytics repository and its consumers.
package types

import "time"

// CounterCoverage summarizes how much observed history a counter has.
type CounterCoverage struct {
	CounterID      string     `json:"counter_id"`
	RowCount       int64      `json:"row_count"`
	FirstTimestamp *time.Time `json:"first_timestamp,omitempty"`
	LastTimestamp  *time.Time `json:"last_timestamp,omitempty"`
	MeanIntensity  float64    `json:"mean_intensity"`
	// MissingHours is the number of hours between the first and last
	// reading that have no row. Zero for a gapless series.
	MissingHours int64 `json:"missing_hours"`
}

// HourlyProfileEntry is the mean observed intensity for one hour of day
// (0-23) over a query window.
type HourlyProfileEntry struct {
	HourOfDay     int     `json:"hour_of_day"`
	MeanIntensity float64 `json:"mean_intensity"`
	SampleCount   int64   `json:"sample_count"`
}

// HolidayEffect compares a counter's traffic on public holidays against
// ordinary days within one calendar year.
type HolidayEffect struct {
	CounterID       string  `json:"counter_id"`
	Year            int     `json:"year"`
	HolidayMean     float64 `json:"holiday_mean"`
	HolidayHours    int64   `json:"holiday_hours"`
	OrdinaryMean    float64 `json:"ordinary_mean"`
	OrdinaryHours   int64   `json:"ordinary_hours"`
	RelativeTraffic float64 `json:"relative_traffic"` // holiday mean / ordinary mean
}

// ModelAccuracy reports how a model's stored predictions compare to the
// observed readings for the same slots.
type ModelAccuracy struct {
	CounterID   string  `json:"counter_id"`
	ModelName   string  `json:"model_name"`
	SampleCount int64   `json:"sample_count"`
	MAE         float64 `json:"mae"`
	RMSE        float64 `json:"rmse"`
	Bias        float64 `json:"bias"` // mean(predicted - observed)
}
