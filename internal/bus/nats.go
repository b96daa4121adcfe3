package bus

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/i474232898/weather-monitor/internal/alert"
)

// DefaultSubject is where alert events are published unless configured otherwise.
const DefaultSubject = "weather.alerts"

const closeFlushTimeout = 5 * time.Second

// Publisher publishes alert events to NATS.
type Publisher struct {
	Conn    *nats.Conn
	subject string
}

// NewPublisher connects to the NATS server at url. An empty subject selects
// DefaultSubject.
func NewPublisher(url, subject string) (*Publisher, error) {
	conn, err := nats.Connect(url, nats.Name("weather-monitor"))
	if err != nil {
		return nil, err
	}
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{Conn: conn, subject: subject}, nil
}

// Notify implements alert.Notifier.
func (p *Publisher) Notify(_ context.Context, evt alert.Event) error {
	data, err := encodeEvent(evt)
	if err != nil {
		return err
	}
	return p.Conn.Publish(p.subject, data)
}

// Close flushes pending publishes, waiting up to closeFlushTimeout, and
// closes the connection.
func (p *Publisher) Close() {
	if p.Conn == nil {
		return
	}
	if err := p.Conn.FlushTimeout(closeFlushTimeout); err != nil {
		log.Printf("bus: flush before close failed: %v", err)
	}
	p.Conn.Close()
}

func encodeEvent(evt alert.Event) ([]byte, error) {
	return json.Marshal(evt)
}

var _ alert.Notifier = (*Publisher)(nil)
