package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/i474232898/weather-monitor/internal/weather"
)

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_weather.db")

	s, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLiteStoreKeepsNanoseconds(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "nanos.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	ts := time.Date(2024, 10, 20, 9, 15, 42, 123456789, time.UTC)
	if _, err := s.Save(ctx, weather.Reading{City: "Pune", Condition: "Clear", Timestamp: ts}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.FindByCityAndTimestamp(ctx, "Pune", ts)
	if err != nil {
		t.Fatalf("expected exact timestamp match, got %v", err)
	}
	if !got.Timestamp.Equal(ts) {
		t.Fatalf("timestamps differ: got %v want %v", got.Timestamp, ts)
	}
}

func TestSQLiteStoreReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()
	ts := time.Date(2024, 10, 20, 9, 15, 0, 0, time.UTC)

	s, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	if _, err := s.Save(ctx, weather.Reading{City: "Delhi", Condition: "Haze", Timestamp: ts}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	_ = s.Close()

	s, err = NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	if _, err := s.FindByCityAndTimestamp(ctx, "Delhi", ts); err != nil {
		t.Fatalf("expected reading to survive reopen, got %v", err)
	}
}
