package store

import (
	"context"
	"sync"
	"time"

	"github.com/i474232898/weather-monitor/internal/weather"
)

// ErrNotFound is returned when no reading matches a lookup.
var ErrNotFound = weather.ErrNotFound

// ReadingHistory holds the readings of one city in insertion order.
type ReadingHistory struct {
	Readings []weather.Reading
}

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: city, value: history
	data map[string]*ReadingHistory

	lastID int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]*ReadingHistory),
	}
}

// Save assigns an ID to new readings and overwrites in place readings whose ID
// is already known.
func (s *MemoryStore) Save(_ context.Context, r weather.Reading) (weather.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[r.City]
	if !ok {
		history = &ReadingHistory{}
		s.data[r.City] = history
	}

	if r.ID != 0 {
		for i := range history.Readings {
			if history.Readings[i].ID == r.ID {
				history.Readings[i] = r
				return r, nil
			}
		}
		if r.ID > s.lastID {
			s.lastID = r.ID
		}
	} else {
		s.lastID++
		r.ID = s.lastID
	}

	history.Readings = append(history.Readings, r)
	return r, nil
}

// FindByCityAndTimestamp returns the first reading for city at exactly ts.
func (s *MemoryStore) FindByCityAndTimestamp(_ context.Context, city string, ts time.Time) (weather.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[city]
	if !ok {
		return weather.Reading{}, ErrNotFound
	}
	for _, r := range history.Readings {
		if r.Timestamp.Equal(ts) {
			return r, nil
		}
	}
	return weather.Reading{}, ErrNotFound
}

// FindByCityAndRange returns all readings for city between from and to (inclusive).
func (s *MemoryStore) FindByCityAndRange(_ context.Context, city string, from, to time.Time) ([]weather.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[city]
	if !ok {
		return nil, nil
	}

	var result []weather.Reading
	for _, r := range history.Readings {
		if !r.Timestamp.Before(from) && !r.Timestamp.After(to) {
			result = append(result, r)
		}
	}
	return result, nil
}

// Count returns how many readings are stored for city.
func (s *MemoryStore) Count(city string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if history, ok := s.data[city]; ok {
		return len(history.Readings)
	}
	return 0
}

var _ weather.Store = (*MemoryStore)(nil)
