package natsadapter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/skylog/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeFlightRequests consumes queued flights. Failed messages are
// redelivered up to three times.
func (s *Subscriber) SubscribeFlightRequests(ctx context.Context, handler func(ctx context.Context, req *domain.FlightRequest) error) error {
	return s.subscribe(SubjectFlights, "flight-processor", func(msg *nats.Msg) error {
		var req domain.FlightRequest
		if err := decode(msg.Data, &req); err != nil {
			return err
		}
		return handler(ctx, &req)
	})
}

// SubscribeReports consumes published flight reports.
func (s *Subscriber) SubscribeReports(ctx context.Context, handler func(ctx context.Context, report *domain.FlightReport) error) error {
	return s.subscribe(SubjectReports, "report-processor", func(msg *nats.Msg) error {
		var report domain.FlightReport
		if err := decode(msg.Data, &report); err != nil {
			return err
		}
		return handler(ctx, &report)
	})
}

func (s *Subscriber) subscribe(subject, durable string, handle func(msg *nats.Msg) error) error {
	sub, err := s.js.Subscribe(subject, func(msg *nats.Msg) {
		if err := handle(msg); err != nil {
			slog.Warn("message handler failed", "subject", msg.Subject, "error", err)
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
		return fmt.Errorf("subscribe %s: %w", subject, err)
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

// DecodeReport decodes a report payload received on a raw subscription.
func DecodeReport(data []byte) (*domain.FlightReport, error) {
	var r domain.FlightReport
	if err := decode(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
