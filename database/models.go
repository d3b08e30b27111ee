// Package database provides database connection management for the
// Montpellier bike-traffic dataset.
//
// This package includes:
//   - Database connection management using GORM and PostgreSQL
//   - Declarative schema creation for the six dataset tables
//   - Comprehensive error handling and validation
//
// Key Concepts:
//   - Composite primary keys encode per-hour uniqueness (one observed
//     reading per counter per hour, one prediction per counter/hour/model)
//   - ON DELETE CASCADE ties readings and predictions to their counter
//   - Secondary timestamp indexes support fleet-wide time-range queries
//
// Data Models:
//
//	All data models (Counter, BikeHourly, Holiday, etc.) are defined in the
//	models_pkg package to avoid circular import dependencies.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	models "github.com/emese007/montpellier-bike-prediction/database/models_pkg"
)

// Database holds the GORM database connection and provides access to the
// underlying DB instance. It serves as the central connection point for all
// database operations in the application.
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM database instance for direct access when needed.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes database connection using GORM
func Connect(host string, port int, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // Silent logging for production
		TranslateError: true,                                  // Map driver errors to gorm.ErrDuplicatedKey etc.
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// NewWithDB wraps an existing GORM handle. Used by tests and tools that
// manage their own connection and dialect.
func NewWithDB(db *gorm.DB) *Database {
	return &Database{db: db}
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// ============================================================================
// Type Aliases
// ============================================================================

// Dataset entities, re-exported so callers outside the repositories can use
// them without importing models_pkg directly.

type Counter = models.Counter
type BikeHourly = models.BikeHourly
type WeatherHourly = models.WeatherHourly
type Holiday = models.Holiday
type WeatherForecastHourly = models.WeatherForecastHourly
type BikePredictionHourly = models.BikePredictionHourly
