// Package app wires the storage layer together: connection, schema,
// optional cache, counter registration and a dataset status report.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/emese007/montpellier-bike-prediction/cache"
	"github.com/emese007/montpellier-bike-prediction/config"
	"github.com/emese007/montpellier-bike-prediction/database"
	"github.com/emese007/montpellier-bike-prediction/database/counters"
	"github.com/emese007/montpellier-bike-prediction/database/predictions"
	"github.com/emese007/montpellier-bike-prediction/database/traffic"
)

// App represents the main application
type App struct {
	config      *config.Config
	db          *database.Database
	redis       *cache.RedisClient
	counterRepo *counters.Repository
	trafficRepo *traffic.Repository
	predRepo    *predictions.Repository
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{
		config: cfg,
		db:     nil, // Will be initialized in Start()
		redis:  nil, // Will be initialized in Start()
	}
}

// Start bootstraps the storage layer: connect, create the schema, register
// the configured counter fleet and print a dataset status report. On
// failure it releases whatever connections it had already opened.
func (a *App) Start(ctx context.Context) error {
	if err := a.start(ctx); err != nil {
		a.Stop()
		return err
	}
	return nil
}

func (a *App) start(ctx context.Context) error {
	// 1. Database Connection
	log.Println("🗄️  Connecting to database...")

	db, err := database.Connect(
		a.config.DatabaseHost,
		a.config.DatabasePort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	// 2. Initialize schema (tables, keys, cascades, indexes)
	if err := a.db.InitSchema(); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	// 3. Redis Connection (optional)
	log.Println("🧠 Connecting to Redis...")
	redisClient := cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)
	if redisClient == nil {
		log.Println("⚠️  Redis connection failed. Caching disabled.")
	} else {
		a.redis = redisClient
	}

	// 4. Repositories. The counters and traffic repositories share one
	// reading cache so counter deletion invalidates what Latest serves.
	gdb := a.db.DB()
	readings := cache.NewReadingCache(a.redis)
	a.counterRepo = counters.NewRepository(gdb, readings)
	a.trafficRepo = traffic.NewRepository(gdb, readings)
	a.predRepo = predictions.NewRepository(gdb)

	// 5. Register the configured counter fleet. Ids only; names and
	// coordinates arrive when a collector enriches the rows.
	if err := a.registerCounters(); err != nil {
		return fmt.Errorf("counter registration failed: %w", err)
	}

	// 6. Dataset status report
	if err := a.report(ctx); err != nil {
		return fmt.Errorf("status report failed: %w", err)
	}

	return nil
}

// Stop releases the application's connections.
func (a *App) Stop() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Printf("⚠️  Redis close failed: %v", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("⚠️  Database close failed: %v", err)
		}
	}
}

func (a *App) registerCounters() error {
	fleet := make([]database.Counter, 0, len(a.config.Counters))
	for _, id := range a.config.Counters {
		fleet = append(fleet, database.Counter{ID: id})
	}
	if len(fleet) == 0 {
		log.Println("ℹ️  No counters configured, skipping registration")
		return nil
	}

	if err := a.counterRepo.BatchUpsert(fleet); err != nil {
		return err
	}
	log.Printf("✅ Registered %d counters", len(fleet))
	return nil
}

func (a *App) report(ctx context.Context) error {
	counts, err := a.db.TableCounts()
	if err != nil {
		return err
	}
	for _, table := range database.AllTables {
		log.Printf("📊 %-24s %d rows", table, counts[table])
	}

	models, err := a.predRepo.ListModels()
	if err != nil {
		return err
	}
	if len(models) > 0 {
		log.Printf("🤖 Prediction models on record: %v", models)
	}

	for _, id := range a.config.Counters {
		latest, err := a.trafficRepo.Latest(ctx, id)
		if err != nil {
			return err
		}
		if latest == nil {
			log.Printf("📭 %s: no readings yet", id)
			continue
		}
		log.Printf("🚴 %s: latest reading %s intensity=%d",
			id, latest.TimestampUTC.UTC().Format("2006-01-02 15:04"), latest.Intensity)
	}
	return nil
}
