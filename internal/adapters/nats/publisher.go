package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Vishal-jain-01/bustrack/internal/core/domain"
)

// FixSubjectPrefix is the subject namespace for enriched fixes; the
// per-vehicle subject is FixSubjectPrefix + vehicleID.
const FixSubjectPrefix = "bustrack.fix."

// FixSubjectWildcard matches every vehicle's fix subject.
const FixSubjectWildcard = FixSubjectPrefix + ">"

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream, and ensures the fix
// stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:      "BUS_FIXES",
		Subjects:  []string{FixSubjectWildcard},
		Retention: nats.LimitsPolicy,
		MaxAge:    1 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist with different settings; try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishFix broadcasts an enriched fix on the vehicle's subject.
func (p *Publisher) PublishFix(ctx context.Context, fix *domain.EnrichedFix) error {
	data, err := json.Marshal(fix)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(FixSubjectPrefix+fix.VehicleID, data)
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. the
// WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
