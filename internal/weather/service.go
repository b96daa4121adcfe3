package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"
)

// forecastTimeLayout is the layout of the provider's dt_txt field.
const forecastTimeLayout = "2006-01-02 15:04:05"

// Service orchestrates fetching from the provider, normalizing units and
// persisting readings.
type Service struct {
	store    Store
	provider Provider
	now      func() time.Time

	// upsertMu serializes the lookup+save pair of FetchCurrent so the scheduler
	// and ad-hoc callers cannot both insert the same (city, minute).
	upsertMu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock used for reading timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new Service.
func NewService(store Store, provider Provider, opts ...Option) *Service {
	s := &Service{
		store:    store,
		provider: provider,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchCurrent fetches current weather in Kelvin, converts it and upserts it
// keyed by city and the current minute. A second fetch in the same minute
// overwrites the first record instead of adding another.
func (s *Service) FetchCurrent(ctx context.Context, city string) (Reading, error) {
	obs, err := s.current(ctx, city, UnitsStandard)
	if err != nil {
		return Reading{}, err
	}
	if obs.FeelsLike == nil {
		return Reading{}, fmt.Errorf("%w: main.feels_like missing", ErrDecode)
	}

	reading := fromKelvin(city, obs, *obs.FeelsLike)
	reading.Timestamp = s.now().UTC().Truncate(time.Minute)

	s.upsertMu.Lock()
	defer s.upsertMu.Unlock()

	existing, err := s.store.FindByCityAndTimestamp(ctx, city, reading.Timestamp)
	switch {
	case err == nil:
		reading.ID = existing.ID
	case errors.Is(err, ErrNotFound):
	default:
		return Reading{}, fmt.Errorf("lookup existing reading: %w", err)
	}

	saved, err := s.store.Save(ctx, reading)
	if err != nil {
		return Reading{}, fmt.Errorf("save reading: %w", err)
	}
	return saved, nil
}

// FetchCurrentRaw behaves like FetchCurrent but treats a missing feels-like
// value as 0 K and always inserts a new record.
func (s *Service) FetchCurrentRaw(ctx context.Context, city string) (Reading, error) {
	obs, err := s.current(ctx, city, UnitsStandard)
	if err != nil {
		return Reading{}, err
	}

	var feelsLike float64
	if obs.FeelsLike != nil {
		feelsLike = *obs.FeelsLike
	}

	reading := fromKelvin(city, obs, feelsLike)
	reading.Timestamp = s.now().UTC().Truncate(time.Minute)

	saved, err := s.store.Save(ctx, reading)
	if err != nil {
		return Reading{}, fmt.Errorf("save reading: %w", err)
	}
	return saved, nil
}

// SimulateCurrent fetches values already in Celsius and stores them as-is with
// the full wall-clock timestamp. The condition is the provider's description.
func (s *Service) SimulateCurrent(ctx context.Context, city string) (Reading, error) {
	obs, err := s.current(ctx, city, UnitsMetric)
	if err != nil {
		return Reading{}, err
	}
	if obs.FeelsLike == nil {
		return Reading{}, fmt.Errorf("%w: main.feels_like missing", ErrDecode)
	}
	if obs.Description == "" {
		return Reading{}, fmt.Errorf("%w: weather[0].description missing", ErrDecode)
	}

	reading := Reading{
		City:        city,
		Temperature: obs.Temperature,
		FeelsLike:   *obs.FeelsLike,
		Condition:   obs.Description,
		Humidity:    obs.Humidity,
		WindSpeed:   obs.WindSpeed,
		Timestamp:   s.now().UTC().Round(0),
	}

	saved, err := s.store.Save(ctx, reading)
	if err != nil {
		return Reading{}, fmt.Errorf("save reading: %w", err)
	}
	return saved, nil
}

// FetchForecast returns the provider forecast converted to Celsius. Entries
// keep the provider's timestamp and are numbered by position; none are stored.
func (s *Service) FetchForecast(ctx context.Context, city string) ([]Reading, error) {
	entries, err := s.provider.Forecast(ctx, city)
	if err != nil {
		log.Printf("service: forecast failed for %s: %v", city, err)
		return nil, err
	}

	forecast := make([]Reading, 0, len(entries))
	for i, obs := range entries {
		if obs.FeelsLike == nil {
			return nil, fmt.Errorf("%w: list[%d].main.feels_like missing", ErrDecode, i)
		}
		ts, err := time.ParseInLocation(forecastTimeLayout, obs.Time, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: list[%d].dt_txt: %v", ErrDecode, i, err)
		}

		r := fromKelvin(city, obs, *obs.FeelsLike)
		r.ID = int64(i)
		r.Timestamp = ts
		forecast = append(forecast, r)
	}

	return forecast, nil
}

// History returns the readings stored for city on the given UTC calendar day.
func (s *Service) History(ctx context.Context, city string, day time.Time) ([]Reading, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return s.rangeSorted(ctx, city, start, end)
}

// Summary aggregates the readings stored for city on the given day.
func (s *Service) Summary(ctx context.Context, city string, day time.Time) (Summary, error) {
	history, err := s.History(ctx, city, day)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(history)
}

// Trends renders the trailing TrendWindowDays of readings for city.
func (s *Service) Trends(ctx context.Context, city string) (string, error) {
	end := s.now().UTC()
	start := end.AddDate(0, 0, -TrendWindowDays)
	history, err := s.rangeSorted(ctx, city, start, end)
	if err != nil {
		return "", err
	}
	return RenderTrends(city, history), nil
}

func (s *Service) current(ctx context.Context, city string, units Units) (Observation, error) {
	obs, err := s.provider.Current(ctx, city, units)
	if err != nil {
		log.Printf("service: provider %s fetch failed for %s: %v", s.provider.Name(), city, err)
		return Observation{}, err
	}
	return obs, nil
}

func (s *Service) rangeSorted(ctx context.Context, city string, from, to time.Time) ([]Reading, error) {
	readings, err := s.store.FindByCityAndRange(ctx, city, from, to)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})
	return readings, nil
}

func fromKelvin(city string, obs Observation, feelsLikeKelvin float64) Reading {
	return Reading{
		City:        city,
		Temperature: CelsiusRounded(obs.Temperature),
		FeelsLike:   CelsiusRounded(feelsLikeKelvin),
		Condition:   obs.Condition,
		Humidity:    obs.Humidity,
		WindSpeed:   obs.WindSpeed,
	}
}
