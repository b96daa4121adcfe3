package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/i474232898/weather-monitor/internal/weather"
)

// perCityTimeout bounds a single city's fetch within a tick.
const perCityTimeout = 30 * time.Second

// Fetcher is the part of weather.Service the scheduler drives.
type Fetcher interface {
	FetchCurrent(ctx context.Context, city string) (weather.Reading, error)
}

// Scheduler periodically fetches current weather for a fixed roster of cities.
type Scheduler struct {
	scheduler *gocron.Scheduler
	fetcher   Fetcher
	cities    []string
	interval  time.Duration
}

// New creates a new Scheduler.
func New(cities []string, interval time.Duration, fetcher Fetcher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	// A slow tick must not overlap the next one.
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		fetcher:   fetcher,
		cities:    cities,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first tick runs immediately.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		log.Println("scheduler: no cities configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce fetches every city concurrently and waits for all of them. A failing
// city is logged and does not affect the others.
func (s *Scheduler) RunOnce(ctx context.Context) {
	runID := uuid.NewString()
	log.Printf("scheduler: running weather fetch job %s", runID)

	var wg sync.WaitGroup
	for _, city := range s.cities {
		city := city
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, perCityTimeout)
			defer cancel()

			if _, err := s.fetcher.FetchCurrent(ctx, city); err != nil {
				log.Printf("scheduler: job %s: failed to fetch weather for %s: %v", runID, city, err)
				return
			}
			log.Printf("scheduler: job %s: fetched weather data for %s", runID, city)
		}()
	}
	wg.Wait()
	log.Printf("scheduler: completed weather fetch job %s", runID)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
