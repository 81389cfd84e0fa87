package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStreamPublisher appends events to a Redis stream with XADD.
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
}

func NewRedisStreamPublisher(addr, password, stream string) (*RedisStreamPublisher, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStreamPublisher{client: rdb, stream: stream}, nil
}

func (p *RedisStreamPublisher) PublishMigrationCompleted(ctx context.Context, ev MigrationCompleted) error {
	ev.EventType = EventMigrationCompleted
	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: streamValues(ev),
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to XADD to stream %s: %w", p.stream, err)
	}
	return nil
}

func (p *RedisStreamPublisher) Close() error {
	return p.client.Close()
}

// streamValues flattens an event into XADD field/value pairs; the full
// event is kept as JSON under "payload".
func streamValues(ev MigrationCompleted) map[string]any {
	payload, _ := json.Marshal(ev)
	return map[string]any{
		"event_type":           ev.EventType,
		"dry_run":              ev.Summary.DryRun,
		"created":              ev.Summary.Created,
		"skipped":              ev.Summary.Skipped,
		"updated_appointments": ev.Summary.UpdatedAppointments,
		"errors":               ev.Summary.Errors,
		"payload":              string(payload),
	}
}
