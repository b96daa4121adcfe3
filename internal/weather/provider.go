package weather

import (
	"context"
	"time"
)

// Units selects the unit system a provider reports temperatures in.
type Units string

const (
	// UnitsStandard reports temperatures in Kelvin.
	UnitsStandard Units = "standard"
	// UnitsMetric reports temperatures in Celsius.
	UnitsMetric Units = "metric"
)

// Observation is a provider-neutral decoded payload. Fields the provider may
// omit without failing the decode are pointers or documented as optional.
type Observation struct {
	Temperature float64
	FeelsLike   *float64
	Humidity    float64
	WindSpeed   float64

	// Condition is the short category (e.g. "Rain"); Description the longer text.
	Condition   string
	Description string

	// Time is the provider's native timestamp text, set on forecast entries only.
	Time string
}

// Provider abstracts the upstream weather API.
//
// Errors returned must be *ProviderError for anything that reaches (or fails to
// reach) the provider, and wrap ErrDecode for malformed payloads.
type Provider interface {
	Name() string
	Current(ctx context.Context, city string, units Units) (Observation, error)
	Forecast(ctx context.Context, city string) ([]Observation, error)
}

// Store is the contract every reading store (memory, sqlite, postgres) must satisfy.
type Store interface {
	// FindByCityAndTimestamp returns ErrNotFound when no reading matches exactly.
	FindByCityAndTimestamp(ctx context.Context, city string, ts time.Time) (Reading, error)
	// FindByCityAndRange returns readings with from <= timestamp <= to. Order is
	// not guaranteed; Service sorts by timestamp.
	FindByCityAndRange(ctx context.Context, city string, from, to time.Time) ([]Reading, error)
	// Save inserts readings with a zero ID and overwrites the record otherwise.
	Save(ctx context.Context, r Reading) (Reading, error)
}
