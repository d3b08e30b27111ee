package database

import (
	"fmt"
	"log"

	models "github.com/emese007/montpellier-bike-prediction/database/models_pkg"
)

// InitSchema creates the six dataset tables declaratively.
//
// AutoMigrate derives everything from the model tags: composite primary
// keys, the two cascading foreign keys from bike_hourly and
// bike_predictions_hourly back to counters, and the secondary indexes on
// their timestamp columns. Counters go first so the child tables can attach
// their constraints at creation time.
func (d *Database) InitSchema() error {
	log.Println("🔄 Starting database schema initialization...")

	err := d.db.AutoMigrate(
		&models.Counter{},
		&models.BikeHourly{},
		&models.WeatherHourly{},
		&models.Holiday{},
		&models.WeatherForecastHourly{},
		&models.BikePredictionHourly{},
	)
	if err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	log.Println("✅ Database schema initialization completed successfully")
	return nil
}

// TableCounts returns the current row count of every dataset table,
// keyed by table name. Used by the bootstrap status report.
func (d *Database) TableCounts() (map[string]int64, error) {
	counts := make(map[string]int64, len(AllTables))
	for _, table := range AllTables {
		var n int64
		if err := d.db.Table(table).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("TableCounts %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
