// Package holidays persists the public-holiday calendar, static reference
// data keyed by date.
package holidays

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	models "github.com/emese007/montpellier-bike-prediction/database/models_pkg"
	"github.com/emese007/montpellier-bike-prediction/helpers"
)

// Repository handles database operations for the holiday calendar
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new holidays repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert writes holidays by date, refreshing name and zone on conflict.
// The yearly refresh replays known years plus the next one, so writes are
// idempotent. Dates are normalized to midnight UTC and the denormalized
// year column is filled from the date when the caller left it zero.
func (r *Repository) Upsert(entries []models.Holiday) error {
	if len(entries) == 0 {
		return nil
	}

	for i := range entries {
		entries[i].Date = helpers.DateUTC(entries[i].Date)
		if entries[i].Year == 0 {
			entries[i].Year = entries[i].Date.Year()
		}
	}

	err := r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "zone", "year"}),
		}).
		Create(&entries).Error
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}

// GetByYear returns a year's holidays ordered by date. Filters on the
// denormalized year column rather than date arithmetic.
func (r *Repository) GetByYear(year int) ([]models.Holiday, error) {
	var entries []models.Holiday
	err := r.db.
		Where("year = ?", year).
		Order("date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("GetByYear: %w", err)
	}
	return entries, nil
}

// GetRange returns holidays with dates within [from, to], ordered by date.
func (r *Repository) GetRange(from, to time.Time) ([]models.Holiday, error) {
	var entries []models.Holiday
	err := r.db.
		Where("date >= ? AND date <= ?", helpers.DateUTC(from), helpers.DateUTC(to)).
		Order("date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("GetRange: %w", err)
	}
	return entries, nil
}

// IsHoliday reports whether the UTC calendar day containing t is a holiday.
func (r *Repository) IsHoliday(t time.Time) (bool, error) {
	var n int64
	err := r.db.Model(&models.Holiday{}).
		Where("date = ?", helpers.DateUTC(t)).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("IsHoliday: %w", err)
	}
	return n > 0, nil
}
