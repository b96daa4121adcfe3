package alert

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-monitor/internal/weather"
)

// NormalRangeMessage is returned by Evaluate when no threshold alerts.
const NormalRangeMessage = "Temperature is within normal range."

// MetricTemperature is the only threshold condition Evaluate acts on. Other
// conditions are accepted and stored but never evaluated.
const MetricTemperature = "temperature"

// consecutiveBreaches is how many breaching readings in a row raise an alert.
const consecutiveBreaches = 2

// Threshold is a monitoring rule.
type Threshold struct {
	Condition    string  `json:"condition" validate:"required"`
	Value        float64 `json:"threshold"`
	AlertMessage string  `json:"alertMessage"`
}

// Event describes an alert raised by Evaluate.
type Event struct {
	ID          string    `json:"id"`
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"`
	Threshold   float64   `json:"threshold"`
	Breaches    int       `json:"consecutiveBreaches"`
	Message     string    `json:"message"`
	TriggeredAt time.Time `json:"triggeredAt"`
}

// Notifier receives raised alerts, e.g. to publish them on a message bus.
type Notifier interface {
	Notify(ctx context.Context, evt Event) error
}

// Registry holds the ordered threshold list and the per-city consecutive
// breach counters. Both live for the life of the process.
type Registry struct {
	mu         sync.RWMutex
	thresholds []Threshold

	// counterMu guards breaches and is held for a whole evaluation.
	counterMu sync.Mutex
	breaches  map[string]int

	notifier Notifier
}

// NewRegistry creates an empty Registry. notifier may be nil.
func NewRegistry(notifier Notifier) *Registry {
	return &Registry{
		breaches: make(map[string]int),
		notifier: notifier,
	}
}

// Add appends t. Duplicates are kept and evaluated once per registration.
func (r *Registry) Add(t Threshold) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.thresholds = append(r.thresholds, t)
}

// Thresholds returns a copy of the registered thresholds in registration order.
func (r *Registry) Thresholds() []Threshold {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Threshold, len(r.thresholds))
	copy(out, r.thresholds)
	return out
}

// Counter returns the current consecutive breach count for city.
func (r *Registry) Counter(city string) int {
	r.counterMu.Lock()
	defer r.counterMu.Unlock()
	return r.breaches[city]
}

// Evaluate checks reading against every temperature threshold in registration
// order. A breach increments the city's counter and any other reading resets
// it; the first threshold to see the counter reach two wins and its message is
// returned. Otherwise NormalRangeMessage is returned.
func (r *Registry) Evaluate(ctx context.Context, reading weather.Reading) string {
	evt, ok := r.evaluate(reading)
	if !ok {
		return NormalRangeMessage
	}

	log.Printf("alert: %s breached %.2f for %d consecutive readings", evt.City, evt.Threshold, evt.Breaches)
	if r.notifier != nil {
		if err := r.notifier.Notify(ctx, evt); err != nil {
			log.Printf("alert: notify failed for %s: %v", evt.City, err)
		}
	}
	return evt.Message
}

func (r *Registry) evaluate(reading weather.Reading) (Event, bool) {
	thresholds := r.Thresholds()

	r.counterMu.Lock()
	defer r.counterMu.Unlock()

	for _, t := range thresholds {
		if t.Condition != MetricTemperature {
			continue
		}
		if !(reading.Temperature > t.Value) {
			r.breaches[reading.City] = 0
			continue
		}

		r.breaches[reading.City]++
		if n := r.breaches[reading.City]; n >= consecutiveBreaches {
			return Event{
				ID:          uuid.NewString(),
				City:        reading.City,
				Temperature: reading.Temperature,
				Threshold:   t.Value,
				Breaches:    n,
				Message:     t.AlertMessage,
				TriggeredAt: time.Now().UTC(),
			}, true
		}
	}
	return Event{}, false
}
