package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSPublisher forwards dispatched events to a NATS subject per event type.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	logger *zap.Logger
}

// NewNATSPublisher connects to the given URL.
func NewNATSPublisher(url, prefix string, logger *zap.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("reactivation-service"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("connected to nats", zap.String("url", conn.ConnectedUrl()))
	return &NATSPublisher{conn: conn, prefix: prefix, logger: logger}, nil
}

// Subject returns the subject an event type is published on.
func (p *NATSPublisher) Subject(eventType EventType) string {
	return fmt.Sprintf("%s.%s", p.prefix, eventType)
}

// Handle publishes the event as JSON. It satisfies EventHandler.
func (p *NATSPublisher) Handle(_ context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.conn.Publish(p.Subject(event.Type), data); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// Register subscribes the publisher to every event type on the dispatcher.
func (p *NATSPublisher) Register(dispatcher Dispatcher) {
	for _, t := range AllEventTypes() {
		dispatcher.Subscribe(t, p.Handle)
	}
}

// Ping reports whether the connection is up.
func (p *NATSPublisher) Ping(context.Context) error {
	if p == nil || p.conn == nil {
		return errors.New("nats not configured")
	}
	if !p.conn.IsConnected() {
		return fmt.Errorf("nats connection %s", p.conn.Status())
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("nats drain failed", zap.Error(err))
	}
}
