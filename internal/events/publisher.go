package events

import (
	"context"
	"time"

	"coach-booking-api/internal/model"
)

const (
	EventMigrationCompleted = "participants.migrated"
	SubjectMigrations       = "participants.migrated"
)

type Publisher interface {
	PublishMigrationCompleted(ctx context.Context, ev MigrationCompleted) error
	Close() error
}

type MigrationCompleted struct {
	EventType    string                 `json:"event_type"`
	Summary      model.MigrationSummary `json:"summary"`
	TargetCoach  string                 `json:"target_coach,omitempty"`
	CompletedAt  time.Time              `json:"completed_at"`
	DurationSecs float64                `json:"duration_secs"`
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishMigrationCompleted(context.Context, MigrationCompleted) error { return nil }
func (Noop) Close() error                                                       { return nil }
