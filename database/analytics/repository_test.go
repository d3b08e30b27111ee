package analytics

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emese007/montpellier-bike-prediction/database"
	models "github.com/emese007/montpellier-bike-prediction/database/models_pkg"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "bike_test.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.NewWithDB(db).InitSchema(); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func seedCounter(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	if err := db.Create(&models.Counter{ID: id}).Error; err != nil {
		t.Fatalf("seed counter %s: %v", id, err)
	}
}

func seedReadings(t *testing.T, db *gorm.DB, readings []models.BikeHourly) {
	t.Helper()
	if err := db.Create(&readings).Error; err != nil {
		t.Fatalf("seed readings: %v", err)
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCounterCoverage(t *testing.T) {
	db := newTestDB(t)
	seedCounter(t, db, "urn:c1")
	repo := NewRepository(db)

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	// Four hourly slots between the bounds, one of them missing (10:00).
	seedReadings(t, db, []models.BikeHourly{
		{CounterID: "urn:c1", TimestampUTC: base, Intensity: 10},
		{CounterID: "urn:c1", TimestampUTC: base.Add(time.Hour), Intensity: 20},
		{CounterID: "urn:c1", TimestampUTC: base.Add(3 * time.Hour), Intensity: 30},
	})

	coverage, err := repo.CounterCoverage("urn:c1")
	if err != nil {
		t.Fatalf("CounterCoverage: %v", err)
	}
	if coverage.RowCount != 3 {
		t.Errorf("expected 3 rows, got %d", coverage.RowCount)
	}
	if !almostEqual(coverage.MeanIntensity, 20) {
		t.Errorf("expected mean 20, got %v", coverage.MeanIntensity)
	}
	if coverage.FirstTimestamp == nil || !coverage.FirstTimestamp.Equal(base) {
		t.Errorf("expected first bound at 08:00, got %v", coverage.FirstTimestamp)
	}
	if coverage.LastTimestamp == nil || !coverage.LastTimestamp.Equal(base.Add(3*time.Hour)) {
		t.Errorf("expected last bound at 11:00, got %v", coverage.LastTimestamp)
	}
	if coverage.MissingHours != 1 {
		t.Errorf("expected 1 missing hour, got %d", coverage.MissingHours)
	}
}

func TestCounterCoverageEmptyHistory(t *testing.T) {
	db := newTestDB(t)
	seedCounter(t, db, "urn:c1")
	repo := NewRepository(db)

	coverage, err := repo.CounterCoverage("urn:c1")
	if err != nil {
		t.Fatalf("CounterCoverage: %v", err)
	}
	if coverage.RowCount != 0 {
		t.Errorf("expected 0 rows, got %d", coverage.RowCount)
	}
	if coverage.FirstTimestamp != nil || coverage.LastTimestamp != nil {
		t.Errorf("expected nil bounds on empty history")
	}
}

func TestHourlyProfile(t *testing.T) {
	db := newTestDB(t)
	seedCounter(t, db, "urn:c1")
	repo := NewRepository(db)

	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	seedReadings(t, db, []models.BikeHourly{
		{CounterID: "urn:c1", TimestampUTC: day1.Add(8 * time.Hour), Intensity: 100},
		{CounterID: "urn:c1", TimestampUTC: day2.Add(8 * time.Hour), Intensity: 200},
		{CounterID: "urn:c1", TimestampUTC: day1.Add(14 * time.Hour), Intensity: 60},
	})

	profile, err := repo.HourlyProfile("urn:c1", day1, day2.Add(23*time.Hour))
	if err != nil {
		t.Fatalf("HourlyProfile: %v", err)
	}
	if len(profile) != 24 {
		t.Fatalf("expected 24 buckets, got %d", len(profile))
	}

	eight := profile[8]
	if eight.SampleCount != 2 || !almostEqual(eight.MeanIntensity, 150) {
		t.Errorf("hour 8: expected mean 150 over 2 samples, got %v over %d", eight.MeanIntensity, eight.SampleCount)
	}
	fourteen := profile[14]
	if fourteen.SampleCount != 1 || !almostEqual(fourteen.MeanIntensity, 60) {
		t.Errorf("hour 14: expected mean 60 over 1 sample, got %v over %d", fourteen.MeanIntensity, fourteen.SampleCount)
	}
	if profile[3].SampleCount != 0 || profile[3].MeanIntensity != 0 {
		t.Errorf("hour 3: expected empty bucket, got %+v", profile[3])
	}
}

func TestHolidayEffect(t *testing.T) {
	db := newTestDB(t)
	seedCounter(t, db, "urn:c1")
	repo := NewRepository(db)

	holiday := models.Holiday{
		Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Name: "Fête du Travail",
		Zone: "metropole",
		Year: 2024,
	}
	if err := db.Create(&holiday).Error; err != nil {
		t.Fatalf("seed holiday: %v", err)
	}

	seedReadings(t, db, []models.BikeHourly{
		// Holiday traffic.
		{CounterID: "urn:c1", TimestampUTC: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), Intensity: 10},
		{CounterID: "urn:c1", TimestampUTC: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), Intensity: 30},
		// Ordinary traffic.
		{CounterID: "urn:c1", TimestampUTC: time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC), Intensity: 40},
		{CounterID: "urn:c1", TimestampUTC: time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC), Intensity: 40},
	})

	effect, err := repo.HolidayEffect("urn:c1", 2024)
	if err != nil {
		t.Fatalf("HolidayEffect: %v", err)
	}
	if effect.HolidayHours != 2 || effect.OrdinaryHours != 2 {
		t.Fatalf("expected 2 holiday and 2 ordinary hours, got %d and %d", effect.HolidayHours, effect.OrdinaryHours)
	}
	if !almostEqual(effect.HolidayMean, 20) {
		t.Errorf("expected holiday mean 20, got %v", effect.HolidayMean)
	}
	if !almostEqual(effect.OrdinaryMean, 40) {
		t.Errorf("expected ordinary mean 40, got %v", effect.OrdinaryMean)
	}
	if !almostEqual(effect.RelativeTraffic, 0.5) {
		t.Errorf("expected relative traffic 0.5, got %v", effect.RelativeTraffic)
	}
}

func TestModelAccuracy(t *testing.T) {
	db := newTestDB(t)
	seedCounter(t, db, "urn:c1")
	repo := NewRepository(db)

	base := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	seedReadings(t, db, []models.BikeHourly{
		{CounterID: "urn:c1", TimestampUTC: base, Intensity: 10},
		{CounterID: "urn:c1", TimestampUTC: base.Add(time.Hour), Intensity: 20},
	})
	preds := []models.BikePredictionHourly{
		{CounterID: "urn:c1", TimestampUTC: base, ModelName: "baseline", PredictedIntensity: 13},
		{CounterID: "urn:c1", TimestampUTC: base.Add(time.Hour), ModelName: "baseline", PredictedIntensity: 16},
		// No observed reading for this slot; it must be excluded.
		{CounterID: "urn:c1", TimestampUTC: base.Add(5 * time.Hour), ModelName: "baseline", PredictedIntensity: 99},
		// Another model on the same slots must not pollute the join.
		{CounterID: "urn:c1", TimestampUTC: base, ModelName: "xgboost_v2", PredictedIntensity: 1000},
	}
	if err := db.Create(&preds).Error; err != nil {
		t.Fatalf("seed predictions: %v", err)
	}

	accuracy, err := repo.ModelAccuracy("urn:c1", "baseline", base, base.Add(23*time.Hour))
	if err != nil {
		t.Fatalf("ModelAccuracy: %v", err)
	}
	if accuracy.SampleCount != 2 {
		t.Fatalf("expected 2 joined samples, got %d", accuracy.SampleCount)
	}
	// Errors are +3 and -4: MAE 3.5, RMSE 3.5355..., bias -0.5.
	if !almostEqual(accuracy.MAE, 3.5) {
		t.Errorf("expected MAE 3.5, got %v", accuracy.MAE)
	}
	if !almostEqual(accuracy.RMSE, math.Sqrt(12.5)) {
		t.Errorf("expected RMSE sqrt(12.5), got %v", accuracy.RMSE)
	}
	if !almostEqual(accuracy.Bias, -0.5) {
		t.Errorf("expected bias -0.5, got %v", accuracy.Bias)
	}
}

func TestModelAccuracyNoSamples(t *testing.T) {
	db := newTestDB(t)
	seedCounter(t, db, "urn:c1")
	repo := NewRepository(db)

	accuracy, err := repo.ModelAccuracy("urn:c1", "baseline",
		time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 2, 23, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ModelAccuracy: %v", err)
	}
	if accuracy.SampleCount != 0 || accuracy.MAE != 0 || accuracy.RMSE != 0 || accuracy.Bias != 0 {
		t.Errorf("expected zero accuracy report, got %+v", accuracy)
	}
}
