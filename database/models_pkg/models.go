package models

import "time"

// Counter represents a physical EcoCounter bike-traffic sensor.
// Counters are the root entity of the dataset: every observed reading and
// every model prediction references one, and deleting a counter cascades to
// its dependent rows.
//
// Key Fields:
//   - ID: URN-style identifier from the open-data portal
//     (e.g. "urn:ngsi-ld:EcoCounter:X2H22043034")
//   - Name: optional human-readable location name
//   - Lat/Lon: sensor coordinates, optional until enriched
//
// Lifecycle:
//   - Created once when a sensor is registered, rarely updated
//   - Deletion removes all bike_hourly and bike_predictions_hourly rows
//     through ON DELETE CASCADE
type Counter struct {
	ID   string   `gorm:"type:text;primaryKey" json:"id"`
	Name *string  `gorm:"type:text" json:"name,omitempty"`
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`

	// Dependent rows. The constraint tags create the cascading foreign
	// keys on the child tables during migration.
	Readings    []BikeHourly           `gorm:"foreignKey:CounterID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Predictions []BikePredictionHourly `gorm:"foreignKey:CounterID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Counter
func (Counter) TableName() string {
	return "counters"
}

// BikeHourly represents one observed traffic count for a counter at a
// specific hour. Rows are append-only: at most one observed reading exists
// per (counter, hour) and a written row is never updated.
//
// Key Fields:
//   - CounterID + TimestampUTC: composite primary key
//   - Intensity: bike passages counted during the hour
//   - CreatedAt: ingestion timestamp, defaults to insertion time
//
// The standalone index on timestamp_utc supports time-range queries across
// all counters, independent of the counter_id key prefix.
type BikeHourly struct {
	CounterID    string    `gorm:"column:counter_id;type:text;primaryKey" json:"counter_id"`
	TimestampUTC time.Time `gorm:"column:timestamp_utc;primaryKey;index:idx_bike_hourly_timestamp" json:"timestamp_utc"`
	Intensity    int64     `gorm:"not null" json:"intensity"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for BikeHourly
func (BikeHourly) TableName() string {
	return "bike_hourly"
}

// WeatherHourly represents one observed weather snapshot for an hour.
// A single city-level record exists per hour, decoupled from any counter:
// the whole fleet shares one weather context.
//
// Measurement columns keep the Open-Meteo variable names the dataset was
// built from. Pointer fields allow missing measurements.
type WeatherHourly struct {
	TimestampUTC       time.Time `gorm:"column:timestamp_utc;primaryKey" json:"timestamp_utc"`
	Temperature2m      *float64  `gorm:"column:temperature_2m" json:"temperature_2m,omitempty"`
	RelativeHumidity2m *float64  `gorm:"column:relative_humidity_2m" json:"relative_humidity_2m,omitempty"`
	Precipitation      *float64  `gorm:"column:precipitation" json:"precipitation,omitempty"`
	WindSpeed10m       *float64  `gorm:"column:wind_speed_10m" json:"wind_speed_10m,omitempty"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for WeatherHourly
func (WeatherHourly) TableName() string {
	return "weather_hourly"
}

// Holiday represents a calendar day flagged as a public holiday.
// Static reference data, keyed by date and refreshed at most yearly.
//
// Year duplicates the date's year on purpose: it makes per-year filtering
// cheap without date arithmetic in every query.
type Holiday struct {
	Date      time.Time `gorm:"column:date;type:date;primaryKey" json:"date"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Zone      string    `gorm:"type:text" json:"zone"`
	Year      int       `gorm:"not null" json:"year"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for Holiday
func (Holiday) TableName() string {
	return "holidays"
}

// WeatherForecastHourly represents a forecast weather snapshot for a future
// hour. Same shape as WeatherHourly but semantically distinct: predicted,
// not observed.
//
// The primary key is the target timestamp alone, so a later forecast run
// for the same hour replaces the prior one: latest forecast wins.
type WeatherForecastHourly struct {
	TimestampUTC       time.Time `gorm:"column:timestamp_utc;primaryKey" json:"timestamp_utc"`
	Temperature2m      *float64  `gorm:"column:temperature_2m" json:"temperature_2m,omitempty"`
	RelativeHumidity2m *float64  `gorm:"column:relative_humidity_2m" json:"relative_humidity_2m,omitempty"`
	Precipitation      *float64  `gorm:"column:precipitation" json:"precipitation,omitempty"`
	WindSpeed10m       *float64  `gorm:"column:wind_speed_10m" json:"wind_speed_10m,omitempty"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for WeatherForecastHourly
func (WeatherForecastHourly) TableName() string {
	return "weather_forecast_hourly"
}

// BikePredictionHourly represents a model's predicted intensity for a
// counter at a future hour.
//
// Key Fields:
//   - CounterID + TimestampUTC + ModelName: composite primary key; the
//     model name discriminator lets several models predict the same slot
//     without colliding
//   - PredictedIntensity: continuous value, unlike the observed integer count
//   - CreatedAt: ingestion timestamp of the prediction run
type BikePredictionHourly struct {
	CounterID          string    `gorm:"column:counter_id;type:text;primaryKey" json:"counter_id"`
	TimestampUTC       time.Time `gorm:"column:timestamp_utc;primaryKey;index:idx_bike_predictions_hourly_timestamp" json:"timestamp_utc"`
	ModelName          string    `gorm:"column:model_name;type:text;primaryKey" json:"model_name"`
	PredictedIntensity float64   `gorm:"column:predicted_intensity;not null" json:"predicted_intensity"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for BikePredictionHourly
func (BikePredictionHourly) TableName() string {
	return "bike_predictions_hourly"
}
