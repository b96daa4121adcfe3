package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported STORE_DRIVER values.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultCities is the roster polled by the scheduler when none is configured.
var DefaultCities = []string{"Delhi", "Mumbai", "Chennai", "Bangalore", "Kolkata", "Hyderabad"}

type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	// FetchInterval controls how often the scheduler fetches every city.
	FetchInterval time.Duration

	// HTTPTimeout bounds each outbound provider request.
	HTTPTimeout time.Duration

	// Outbound rate limit towards the provider.
	ProviderRPS   float64
	ProviderBurst int

	// Cities to track.
	Cities []string

	StoreDriver string
	StoreDSN    string

	// NATSURL enables alert publishing when set.
	NATSURL     string
	NATSSubject string

	Port string
}

// rosterFile is the YAML shape of CITIES_FILE.
type rosterFile struct {
	Cities []string `yaml:"cities"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5")

	// Scheduler interval: default 5 minutes.
	interval, err := time.ParseDuration(getenvDefault("FETCH_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: must be positive")
	}
	cfg.FetchInterval = interval

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: must not be negative")
	}
	cfg.HTTPTimeout = timeout

	rps, err := strconv.ParseFloat(getenvDefault("PROVIDER_RPS", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_RPS: %w", err)
	}
	if rps <= 0 {
		return nil, fmt.Errorf("invalid PROVIDER_RPS: must be positive")
	}
	cfg.ProviderRPS = rps

	burst, err := getenvInt("PROVIDER_BURST", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_BURST: %w", err)
	}
	if burst < 1 {
		return nil, fmt.Errorf("invalid PROVIDER_BURST: must be at least 1")
	}
	cfg.ProviderBurst = burst

	cities, err := loadCities()
	if err != nil {
		return nil, err
	}
	cfg.Cities = cities

	cfg.StoreDriver = strings.ToLower(getenvDefault("STORE_DRIVER", DriverMemory))
	switch cfg.StoreDriver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	cfg.StoreDSN = getenvDefault("STORE_DSN", "weather.db")

	cfg.NATSURL = os.Getenv("NATS_URL")
	cfg.NATSSubject = getenvDefault("NATS_SUBJECT", "weather.alerts")

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

// loadCities resolves the roster: CITIES_FILE wins over CITIES, which wins
// over DefaultCities.
func loadCities() ([]string, error) {
	if path := os.Getenv("CITIES_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read CITIES_FILE: %w", err)
		}
		var rf rosterFile
		if err := yaml.Unmarshal(data, &rf); err != nil {
			return nil, fmt.Errorf("parse CITIES_FILE: %w", err)
		}
		cities := cleanCities(rf.Cities)
		if len(cities) == 0 {
			return nil, fmt.Errorf("CITIES_FILE %s lists no cities", path)
		}
		return cities, nil
	}

	if v := os.Getenv("CITIES"); v != "" {
		return cleanCities(strings.Split(v, ",")), nil
	}

	return append([]string(nil), DefaultCities...), nil
}

func cleanCities(in []string) []string {
	var out []string
	for _, c := range in {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
