package database

// Dataset table names
const (
	TableCounters        = "counters"
	TableBikeHourly      = "bike_hourly"
	TableWeatherHourly   = "weather_hourly"
	TableHolidays        = "holidays"
	TableWeatherForecast = "weather_forecast_hourly"
	TableBikePredictions = "bike_predictions_hourly"
)

// AllTables lists every dataset table in creation order.
var AllTables = []string{
	TableCounters,
	TableBikeHourly,
	TableWeatherHourly,
	TableHolidays,
	TableWeatherForecast,
	TableBikePredictions,
}

// Batch sizes for bulk writes. Hourly history reloads span years of rows
// per counter, so inserts are chunked.
const (
	DefaultBatchSize  = 500
	ForecastBatchSize = 100
)

// Query limits
const (
	DefaultLimit = 50
	MaxLimit     = 1000
)
