package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

const (
	// WarningStream holds route hazard warnings.
	WarningStream = "ROUTE_WARNINGS"
	// WarningSubjects matches every warning subject.
	WarningSubjects = "saferoute.warnings.>"
)

// WarningSubject returns the subject a warning with the given label is published on.
func WarningSubject(label domain.SafetyLabel) string {
	return "saferoute.warnings." + string(label)
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the warning stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	if err := ensureStream(js); err != nil {
		conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, js: js}, nil
}

func ensureStream(js nats.JetStreamContext) error {
	cfg := &nats.StreamConfig{
		Name:      WarningStream,
		Subjects:  []string{WarningSubjects},
		Retention: nats.InterestPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// may already exist with older settings
		if _, err := js.UpdateStream(cfg); err != nil {
			return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

// PublishHazardWarning publishes w on the subject of its label. The warning id
// doubles as the JetStream message id so retried publishes are deduplicated.
func (p *Publisher) PublishHazardWarning(ctx context.Context, w *domain.HazardWarning) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal warning: %w", err)
	}
	if _, err := p.js.Publish(WarningSubject(w.Label), data, nats.Context(ctx), nats.MsgId(w.ID)); err != nil {
		return fmt.Errorf("publish warning %s: %w", w.ID, err)
	}
	return nil
}

// Conn exposes the underlying connection for health checks and relays.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection that keeps reconnecting.
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("saferoute"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
