package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultCounters is the fleet of EcoCounter sensors the dataset tracks.
// Overridable through BIKE_COUNTERS (comma-separated ids).
var DefaultCounters = []string{
	"urn:ngsi-ld:EcoCounter:X2H22043034",
	"urn:ngsi-ld:EcoCounter:X2H22043035",
	"urn:ngsi-ld:EcoCounter:X2H22104768",
	"urn:ngsi-ld:EcoCounter:X2H22104774",
	"urn:ngsi-ld:EcoCounter:X2H22104775",
	"urn:ngsi-ld:EcoCounter:X2H22104776",
	"urn:ngsi-ld:EcoCounter:X2H22104773",
	"urn:ngsi-ld:EcoCounter:X2H20042635",
	"urn:ngsi-ld:EcoCounter:X2H22104769",
	"urn:ngsi-ld:EcoCounter:X2H22104766",
}

// Config holds application configuration
type Config struct {
	// Database configuration
	DatabaseHost     string
	DatabasePort     int
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Counters registered at bootstrap
	Counters []string

	// Holiday zone the calendar is maintained for
	HolidayZone string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		// Database configuration
		DatabaseHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DatabasePort:     getEnvInt("DB_PORT", 5432),
		DatabaseName:     getEnvOrDefault("DB_NAME", "montpellier_bike"),
		DatabaseUser:     getEnvOrDefault("DB_USER", "bike"),
		DatabasePassword: getEnvOrDefault("DB_PASSWORD", ""),

		// Redis configuration
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		Counters:    getEnvList("BIKE_COUNTERS", DefaultCounters),
		HolidayZone: getEnvOrDefault("HOLIDAY_ZONE", "metropole"),
	}
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList gets environment variable as a comma-separated list or returns
// default value. Blank items are dropped.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
