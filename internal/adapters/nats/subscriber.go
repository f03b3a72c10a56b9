package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/ports"
)

// Subscriber implements ports.WarningSubscriber on JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber connects to NATS for durable consumption.
func NewSubscriber(url string) (*Subscriber, error) {
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
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeHazardWarnings attaches a durable consumer to every warning subject.
// Undecodable messages are terminated; handler errors are retried up to 3 times.
func (s *Subscriber) SubscribeHazardWarnings(ctx context.Context, durable string, handler ports.WarningHandler) error {
	sub, err := s.js.Subscribe(WarningSubjects, func(msg *nats.Msg) {
		var w domain.HazardWarning
		if err := json.Unmarshal(msg.Data, &w); err != nil {
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &w); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(durable),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", WarningSubjects, err)
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
