package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/i474232898/weather-monitor/internal/weather"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS weather_readings (
	id BIGSERIAL PRIMARY KEY,
	city TEXT NOT NULL,
	temperature DOUBLE PRECISION NOT NULL,
	feels_like DOUBLE PRECISION NOT NULL,
	weather_condition TEXT NOT NULL,
	humidity DOUBLE PRECISION NOT NULL,
	wind_speed DOUBLE PRECISION NOT NULL,
	ts TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_weather_readings_city_ts ON weather_readings(city, ts);`

// PostgresStore implements weather.Store on a pgx connection pool.
// TIMESTAMPTZ keeps microseconds, which is exact for minute-truncated keys.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// NewPostgres connects to dsn, pings the server and applies the schema.
func NewPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{Pool: pool}, nil
}

// Save inserts r when it has no ID, otherwise overwrites the row with that ID.
func (s *PostgresStore) Save(ctx context.Context, r weather.Reading) (weather.Reading, error) {
	if r.ID == 0 {
		row := s.Pool.QueryRow(ctx, `
			INSERT INTO weather_readings (city, temperature, feels_like, weather_condition, humidity, wind_speed, ts)
			VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
			r.City, r.Temperature, r.FeelsLike, r.Condition, r.Humidity, r.WindSpeed, r.Timestamp.UTC())
		if err := row.Scan(&r.ID); err != nil {
			return weather.Reading{}, err
		}
		return r, nil
	}

	_, err := s.Pool.Exec(ctx, `
		INSERT INTO weather_readings (id, city, temperature, feels_like, weather_condition, humidity, wind_speed, ts)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET city=EXCLUDED.city, temperature=EXCLUDED.temperature, feels_like=EXCLUDED.feels_like,
			weather_condition=EXCLUDED.weather_condition, humidity=EXCLUDED.humidity, wind_speed=EXCLUDED.wind_speed, ts=EXCLUDED.ts`,
		r.ID, r.City, r.Temperature, r.FeelsLike, r.Condition, r.Humidity, r.WindSpeed, r.Timestamp.UTC())
	if err != nil {
		return weather.Reading{}, err
	}
	return r, nil
}

// FindByCityAndTimestamp returns the reading for city at exactly ts, or ErrNotFound.
func (s *PostgresStore) FindByCityAndTimestamp(ctx context.Context, city string, ts time.Time) (weather.Reading, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, city, temperature, feels_like, weather_condition, humidity, wind_speed, ts
		FROM weather_readings WHERE city=$1 AND ts=$2 ORDER BY id LIMIT 1`, city, ts.UTC())
	r, err := scanPostgresReading(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return weather.Reading{}, ErrNotFound
	}
	return r, err
}

// FindByCityAndRange returns the readings for city between from and to (inclusive).
func (s *PostgresStore) FindByCityAndRange(ctx context.Context, city string, from, to time.Time) ([]weather.Reading, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, city, temperature, feels_like, weather_condition, humidity, wind_speed, ts
		FROM weather_readings WHERE city=$1 AND ts BETWEEN $2 AND $3 ORDER BY ts, id`, city, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []weather.Reading
	for rows.Next() {
		r, err := scanPostgresReading(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func scanPostgresReading(row pgx.Row) (weather.Reading, error) {
	var r weather.Reading
	if err := row.Scan(&r.ID, &r.City, &r.Temperature, &r.FeelsLike, &r.Condition, &r.Humidity, &r.WindSpeed, &r.Timestamp); err != nil {
		return weather.Reading{}, err
	}
	r.Timestamp = r.Timestamp.UTC()
	return r, nil
}

var _ weather.Store = (*PostgresStore)(nil)
