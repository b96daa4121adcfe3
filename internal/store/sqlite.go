package store

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/i474232898/weather-monitor/internal/weather"

	_ "modernc.org/sqlite"
)

var sqliteSchema = []string{`CREATE TABLE IF NOT EXISTS weather_readings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	city TEXT NOT NULL,
	temperature REAL NOT NULL,
	feels_like REAL NOT NULL,
	weather_condition TEXT NOT NULL,
	humidity REAL NOT NULL,
	wind_speed REAL NOT NULL,
	ts INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_weather_readings_city_ts ON weather_readings(city, ts)`,
}

// SQLiteStore implements weather.Store using the pure Go modernc.org/sqlite driver.
// Timestamps are stored as Unix nanoseconds so exact-match lookups are lossless.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// One writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.Println("store: warning: could not set WAL mode:", err)
	}

	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Save inserts r when it has no ID, otherwise overwrites the row with that ID.
func (s *SQLiteStore) Save(ctx context.Context, r weather.Reading) (weather.Reading, error) {
	if r.ID == 0 {
		res, err := s.db.ExecContext(ctx, `INSERT INTO weather_readings(city, temperature, feels_like, weather_condition, humidity, wind_speed, ts) VALUES(?,?,?,?,?,?,?)`,
			r.City, r.Temperature, r.FeelsLike, r.Condition, r.Humidity, r.WindSpeed, r.Timestamp.UnixNano())
		if err != nil {
			return weather.Reading{}, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return weather.Reading{}, err
		}
		r.ID = id
		return r, nil
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO weather_readings(id, city, temperature, feels_like, weather_condition, humidity, wind_speed, ts) VALUES(?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET city=excluded.city, temperature=excluded.temperature, feels_like=excluded.feels_like,
		weather_condition=excluded.weather_condition, humidity=excluded.humidity, wind_speed=excluded.wind_speed, ts=excluded.ts`,
		r.ID, r.City, r.Temperature, r.FeelsLike, r.Condition, r.Humidity, r.WindSpeed, r.Timestamp.UnixNano())
	if err != nil {
		return weather.Reading{}, err
	}
	return r, nil
}

// FindByCityAndTimestamp returns the reading for city at exactly ts, or ErrNotFound.
func (s *SQLiteStore) FindByCityAndTimestamp(ctx context.Context, city string, ts time.Time) (weather.Reading, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, city, temperature, feels_like, weather_condition, humidity, wind_speed, ts
		FROM weather_readings WHERE city=? AND ts=? ORDER BY id LIMIT 1`, city, ts.UnixNano())

	r, err := scanSQLiteReading(row)
	if errors.Is(err, sql.ErrNoRows) {
		return weather.Reading{}, ErrNotFound
	}
	return r, err
}

// FindByCityAndRange returns the readings for city between from and to (inclusive).
func (s *SQLiteStore) FindByCityAndRange(ctx context.Context, city string, from, to time.Time) ([]weather.Reading, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, city, temperature, feels_like, weather_condition, humidity, wind_speed, ts
		FROM weather_readings WHERE city=? AND ts BETWEEN ? AND ? ORDER BY ts, id`, city, from.UnixNano(), to.UnixNano())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []weather.Reading
	for rows.Next() {
		r, err := scanSQLiteReading(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteReading(row rowScanner) (weather.Reading, error) {
	var r weather.Reading
	var ts int64
	if err := row.Scan(&r.ID, &r.City, &r.Temperature, &r.FeelsLike, &r.Condition, &r.Humidity, &r.WindSpeed, &ts); err != nil {
		return weather.Reading{}, err
	}
	r.Timestamp = time.Unix(0, ts).UTC()
	return r, nil
}

var _ weather.Store = (*SQLiteStore)(nil)
