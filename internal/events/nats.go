package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
)

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (*NatsPublisher, error) {
	nc, err := nats.Connect(natsURL, nats.Name("coach-booking-api"))
	if err != nil {
		return nil, err
	}
	return &NatsPublisher{conn: nc}, nil
}

func (p *NatsPublisher) PublishMigrationCompleted(ctx context.Context, ev MigrationCompleted) error {
	ev.EventType = EventMigrationCompleted
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(SubjectMigrations, b); err != nil {
		slog.ErrorContext(ctx, "nats publish failed", slog.String("subject", SubjectMigrations), slog.Any("err", err))
		return err
	}
	slog.InfoContext(ctx, "published event", slog.String("subject", SubjectMigrations))
	return nil
}

func (p *NatsPublisher) Close() error {
	return p.conn.Drain()
}
