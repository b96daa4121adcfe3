package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENWEATHER_API_KEY", "OPENWEATHER_BASE_URL", "FETCH_INTERVAL", "HTTP_TIMEOUT",
		"PROVIDER_RPS", "PROVIDER_BURST", "CITIES", "CITIES_FILE", "STORE_DRIVER",
		"STORE_DSN", "NATS_URL", "NATS_SUBJECT", "PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.FetchInterval != 5*time.Minute || cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("unexpected durations: %v %v", cfg.FetchInterval, cfg.HTTPTimeout)
	}
	if !reflect.DeepEqual(cfg.Cities, DefaultCities) {
		t.Fatalf("expected default roster, got %v", cfg.Cities)
	}
	if cfg.StoreDriver != DriverMemory || cfg.Port != "8080" || cfg.NATSSubject != "weather.alerts" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ProviderRPS != 1 || cfg.ProviderBurst != 5 {
		t.Fatalf("unexpected rate limit: %v/%d", cfg.ProviderRPS, cfg.ProviderBurst)
	}
}

func TestLoadCitiesFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CITIES", " Paris, ,Oslo ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.Cities, []string{"Paris", "Oslo"}) {
		t.Fatalf("unexpected cities: %v", cfg.Cities)
	}
}

func TestLoadCitiesFileWins(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cities.yaml")
	if err := os.WriteFile(path, []byte("cities:\n  - Lima\n  - Quito\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CITIES_FILE", path)
	t.Setenv("CITIES", "Paris")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.Cities, []string{"Lima", "Quito"}) {
		t.Fatalf("unexpected cities: %v", cfg.Cities)
	}
}

func TestLoadCitiesFileEmpty(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cities.yaml")
	if err := os.WriteFile(path, []byte("cities: []\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CITIES_FILE", path)

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for empty roster file")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"FETCH_INTERVAL": "soon",
		"HTTP_TIMEOUT":   "10",
		"PROVIDER_RPS":   "fast",
		"PROVIDER_BURST": "many",
		"STORE_DRIVER":   "mongo",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}

	outOfRange := []struct {
		key, value string
	}{
		{"FETCH_INTERVAL", "-1m"},
		{"FETCH_INTERVAL", "0s"},
		{"HTTP_TIMEOUT", "-5s"},
		{"PROVIDER_RPS", "0"},
		{"PROVIDER_RPS", "-2"},
		{"PROVIDER_BURST", "0"},
	}
	for _, tc := range outOfRange {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestLoadStoreDriverCaseInsensitive(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("STORE_DSN", "/tmp/w.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StoreDriver != DriverSQLite || cfg.StoreDSN != "/tmp/w.db" {
		t.Fatalf("unexpected store config: %s %s", cfg.StoreDriver, cfg.StoreDSN)
	}
}
