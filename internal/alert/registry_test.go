package alert

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/i474232898/weather-monitor/internal/weather"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, evt Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, evt)
	return n.err
}

func reading(city string, temp float64) weather.Reading {
	return weather.Reading{City: city, Temperature: temp}
}

func TestEvaluateConsecutiveBreaches(t *testing.T) {
	r := NewRegistry(nil)
	r.Add(Threshold{Condition: "temperature", Value: 30, AlertMessage: "HOT"})
	ctx := context.Background()

	if got := r.Evaluate(ctx, reading("X", 31)); got != NormalRangeMessage {
		t.Fatalf("first breach should not alert, got %q", got)
	}
	if got := r.Evaluate(ctx, reading("X", 31)); got != "HOT" {
		t.Fatalf("second consecutive breach should alert, got %q", got)
	}
	if got := r.Evaluate(ctx, reading("X", 32)); got != "HOT" {
		t.Fatalf("continued breaches should keep alerting, got %q", got)
	}
}

func TestEvaluateResetRequiresTwoMoreBreaches(t *testing.T) {
	r := NewRegistry(nil)
	r.Add(Threshold{Condition: "temperature", Value: 30, AlertMessage: "HOT"})
	ctx := context.Background()

	want := []string{NormalRangeMessage, NormalRangeMessage, NormalRangeMessage, "HOT"}
	for i, temp := range []float64{31, 29, 31, 31} {
		if got := r.Evaluate(ctx, reading("X", temp)); got != want[i] {
			t.Fatalf("step %d (%v°): got %q, want %q", i, temp, got, want[i])
		}
	}
}

func TestEvaluateEqualIsNotBreach(t *testing.T) {
	r := NewRegistry(nil)
	r.Add(Threshold{Condition: "temperature", Value: 30, AlertMessage: "HOT"})
	ctx := context.Background()

	r.Evaluate(ctx, reading("X", 30))
	r.Evaluate(ctx, reading("X", 30))
	if n := r.Counter("X"); n != 0 {
		t.Fatalf("reading equal to the threshold must reset the counter, got %d", n)
	}
}

func TestEvaluateCitiesAreIndependent(t *testing.T) {
	r := NewRegistry(nil)
	r.Add(Threshold{Condition: "temperature", Value: 30, AlertMessage: "HOT"})
	ctx := context.Background()

	r.Evaluate(ctx, reading("A", 31))
	r.Evaluate(ctx, reading("B", 20))
	if got := r.Evaluate(ctx, reading("A", 31)); got != "HOT" {
		t.Fatalf("city B must not reset city A, got %q", got)
	}
	if n := r.Counter("B"); n != 0 {
		t.Fatalf("expected B counter 0, got %d", n)
	}
}

func TestEvaluateFirstThresholdWins(t *testing.T) {
	r := NewRegistry(nil)
	r.Add(Threshold{Condition: "temperature", Value: 25, AlertMessage: "WARM"})
	r.Add(Threshold{Condition: "temperature", Value: 20, AlertMessage: "MILD"})
	ctx := context.Background()

	// Both thresholds share the city counter: first reading counts 2 breaches,
	// so the second threshold alerts on the very first call.
	if got := r.Evaluate(ctx, reading("X", 26)); got != "MILD" {
		t.Fatalf("expected shared counter to trip on the second threshold, got %q", got)
	}
	if got := r.Evaluate(ctx, reading("X", 26)); got != "WARM" {
		t.Fatalf("expected registration order to win, got %q", got)
	}
}

func TestEvaluateLaterThresholdResetsCounter(t *testing.T) {
	r := NewRegistry(nil)
	r.Add(Threshold{Condition: "temperature", Value: 20, AlertMessage: "MILD"})
	r.Add(Threshold{Condition: "temperature", Value: 40, AlertMessage: "SCORCHING"})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if got := r.Evaluate(ctx, reading("X", 25)); got != NormalRangeMessage {
			t.Fatalf("call %d: the non-breached threshold resets the counter each time, got %q", i, got)
		}
	}
	if n := r.Counter("X"); n != 0 {
		t.Fatalf("expected counter reset by second threshold, got %d", n)
	}
}

func TestEvaluateDuplicateThresholds(t *testing.T) {
	r := NewRegistry(nil)
	th := Threshold{Condition: "temperature", Value: 30, AlertMessage: "HOT"}
	r.Add(th)
	r.Add(th)

	if len(r.Thresholds()) != 2 {
		t.Fatalf("duplicates must be kept")
	}
	if got := r.Evaluate(context.Background(), reading("X", 35)); got != "HOT" {
		t.Fatalf("duplicate registration evaluates twice and alerts, got %q", got)
	}
}

func TestEvaluateIgnoresOtherConditions(t *testing.T) {
	r := NewRegistry(nil)
	r.Add(Threshold{Condition: "humidity", Value: 0, AlertMessage: "WET"})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if got := r.Evaluate(ctx, reading("X", 100)); got != NormalRangeMessage {
			t.Fatalf("non-temperature thresholds must not alert, got %q", got)
		}
	}
	if n := r.Counter("X"); n != 0 {
		t.Fatalf("non-temperature thresholds must not touch the counter, got %d", n)
	}
}

func TestEvaluateNoThresholds(t *testing.T) {
	r := NewRegistry(nil)
	if got := r.Evaluate(context.Background(), reading("X", 100)); got != NormalRangeMessage {
		t.Fatalf("got %q", got)
	}
}

func TestEvaluateNotifies(t *testing.T) {
	n := &recordingNotifier{err: errors.New("bus down")}
	r := NewRegistry(n)
	r.Add(Threshold{Condition: "temperature", Value: 30, AlertMessage: "HOT"})
	ctx := context.Background()

	r.Evaluate(ctx, reading("Delhi", 31))
	if got := r.Evaluate(ctx, reading("Delhi", 33.5)); got != "HOT" {
		t.Fatalf("notifier errors must not change the result, got %q", got)
	}

	if len(n.events) != 1 {
		t.Fatalf("expected one event, got %d", len(n.events))
	}
	evt := n.events[0]
	if evt.City != "Delhi" || evt.Temperature != 33.5 || evt.Threshold != 30 || evt.Breaches != 2 || evt.Message != "HOT" || evt.ID == "" {
		t.Fatalf("unexpected event: %+v", evt)
	}
}

func TestRegistryConcurrentUse(t *testing.T) {
	r := NewRegistry(nil)
	r.Add(Threshold{Condition: "temperature", Value: 30, AlertMessage: "HOT"})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		city := fmt.Sprintf("city-%d", i)
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.Evaluate(ctx, reading(city, 35))
			}
		}()
		go func() {
			defer wg.Done()
			r.Add(Threshold{Condition: "humidity", Value: 90, AlertMessage: "WET"})
		}()
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		if n := r.Counter(fmt.Sprintf("city-%d", i)); n != 50 {
			t.Fatalf("expected 50 breaches for city-%d, got %d", i, n)
		}
	}
	if len(r.Thresholds()) != 11 {
		t.Fatalf("expected 11 thresholds, got %d", len(r.Thresholds()))
	}
}
