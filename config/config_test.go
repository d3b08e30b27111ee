package config

import (
	"reflect"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD",
		"BIKE_COUNTERS", "HOLIDAY_ZONE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadFromEnv()

	if cfg.DatabaseHost != "localhost" {
		t.Errorf("DatabaseHost = %q", cfg.DatabaseHost)
	}
	if cfg.DatabasePort != 5432 {
		t.Errorf("DatabasePort = %d", cfg.DatabasePort)
	}
	if cfg.DatabaseName != "montpellier_bike" {
		t.Errorf("DatabaseName = %q", cfg.DatabaseName)
	}
	if cfg.DatabaseUser != "bike" {
		t.Errorf("DatabaseUser = %q", cfg.DatabaseUser)
	}
	if cfg.RedisPort != "6379" {
		t.Errorf("RedisPort = %q", cfg.RedisPort)
	}
	if cfg.HolidayZone != "metropole" {
		t.Errorf("HolidayZone = %q", cfg.HolidayZone)
	}
	if !reflect.DeepEqual(cfg.Counters, DefaultCounters) {
		t.Errorf("Counters = %v, want default fleet", cfg.Counters)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "15432")
	t.Setenv("HOLIDAY_ZONE", "zone-c")

	cfg := LoadFromEnv()

	if cfg.DatabaseHost != "db.internal" {
		t.Errorf("DatabaseHost = %q", cfg.DatabaseHost)
	}
	if cfg.DatabasePort != 15432 {
		t.Errorf("DatabasePort = %d", cfg.DatabasePort)
	}
	if cfg.HolidayZone != "zone-c" {
		t.Errorf("HolidayZone = %q", cfg.HolidayZone)
	}
}

func TestLoadFromEnvBadPortFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PORT", "not-a-port")

	cfg := LoadFromEnv()
	if cfg.DatabasePort != 5432 {
		t.Errorf("DatabasePort = %d, want default 5432", cfg.DatabasePort)
	}
}

func TestLoadFromEnvCounterList(t *testing.T) {
	clearEnv(t)
	t.Setenv("BIKE_COUNTERS", "urn:c1, urn:c2,,  urn:c3  ")

	cfg := LoadFromEnv()
	want := []string{"urn:c1", "urn:c2", "urn:c3"}
	if !reflect.DeepEqual(cfg.Counters, want) {
		t.Errorf("Counters = %v, want %v", cfg.Counters, want)
	}
}

func TestLoadFromEnvBlankCounterListFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("BIKE_COUNTERS", " , ,")

	cfg := LoadFromEnv()
	if !reflect.DeepEqual(cfg.Counters, DefaultCounters) {
		t.Errorf("Counters = %v, want default fleet", cfg.Counters)
	}
}
