package bus

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/i474232898/weather-monitor/internal/alert"
)

func TestEncodeEvent(t *testing.T) {
	evt := alert.Event{
		ID:          "abc",
		City:        "Delhi",
		Temperature: 41.2,
		Threshold:   40,
		Breaches:    2,
		Message:     "HOT",
		TriggeredAt: time.Date(2024, 10, 20, 9, 15, 0, 0, time.UTC),
	}

	data, err := encodeEvent(evt)
	if err != nil {
		t.Fatalf("encodeEvent failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	for _, key := range []string{"id", "city", "temperature", "threshold", "consecutiveBreaches", "message", "triggeredAt"} {
		if _, ok := got[key]; !ok {
			t.Fatalf("missing %q in %s", key, data)
		}
	}
	if got["triggeredAt"] != "2024-10-20T09:15:00Z" {
		t.Fatalf("unexpected timestamp %v", got["triggeredAt"])
	}
}

func TestNewPublisherUnreachable(t *testing.T) {
	if _, err := NewPublisher("nats://127.0.0.1:1", ""); err == nil {
		t.Fatalf("expected connection error")
	}
}

func TestCloseWithoutConnection(t *testing.T) {
	p := &Publisher{subject: DefaultSubject}
	p.Close()
}
