package natsadapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/skylog/internal/core/domain"
)

// Subjects published and consumed by skylog.
const (
	SubjectReports   = "skylog.report.>"
	SubjectFlights   = "skylog.flight.>"
	SubjectBroadcast = "skylog.updates.broadcast"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream and ensures the streams exist.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	streams := []nats.StreamConfig{
		{
			Name:      "FLIGHT_REPORTS",
			Subjects:  []string{SubjectReports},
			Retention: nats.LimitsPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "FLIGHT_REQUESTS",
			Subjects:  []string{SubjectFlights},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    72 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, so try an update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishReport publishes a computed report on skylog.report.<from>.<to>.
func (p *Publisher) PublishReport(ctx context.Context, report *domain.FlightReport) error {
	return p.publish(ctx, "skylog.report."+token(report.From)+"."+token(report.To), report)
}

// PublishFlightRequest queues a flight for asynchronous calculation.
func (p *Publisher) PublishFlightRequest(ctx context.Context, req *domain.FlightRequest) error {
	return p.publish(ctx, "skylog.flight."+token(req.ID), req)
}

func (p *Publisher) PublishBroadcast(ctx context.Context, data []byte) error {
	return p.conn.Publish(SubjectBroadcast, data)
}

func (p *Publisher) publish(ctx context.Context, subject string, v any) error {
	data, err := encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", subject, err)
	}
	msg := nats.NewMsg(subject)
	msg.Header.Set(nats.MsgIdHdr, fmt.Sprintf("%s-%d", subject, time.Now().UnixNano()))
	msg.Header.Set("Content-Type", contentType)
	msg.Data = data
	if _, err := p.js.PublishMsg(msg, nats.Context(ctx)); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Ping reports whether the connection is up.
func (p *Publisher) Ping() error {
	if !p.conn.IsConnected() {
		return fmt.Errorf("nats: %s", p.conn.Status())
	}
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("skylog"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

// token makes s safe as a single subject token.
func token(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return strings.NewReplacer(".", "_", " ", "_", "*", "_", ">", "_").Replace(s)
}
