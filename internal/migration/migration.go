// Package migration normalizes appointment participants.
//
// A run reads every appointment, the already-normalized participants and the
// legacy participant collections, derives the participants each appointment
// implies, drops duplicates, inserts what is missing and refreshes the
// participantsIds/coachIds arrays on the appointment. Runs are sequential and
// additive; re-running after an interruption skips what was already written.
package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"coach-booking-api/internal/config"
	"coach-booking-api/internal/docstore"
	"coach-booking-api/internal/events"
	"coach-booking-api/internal/model"
	"coach-booking-api/internal/store"
)

var tracer = otel.Tracer("coach-booking-api/internal/migration")

type Options struct {
	DryRun bool `json:"dryRun"`
	// TargetCoachOnlyUserID limits the run to appointments this user created or coaches.
	TargetCoachOnlyUserID string `json:"targetCoachOnlyUserId,omitempty"`
}

type Migrator struct {
	store  docstore.Client
	cols   config.Collections
	log    *slog.Logger
	events events.Publisher
}

type Option func(*Migrator)

func WithLogger(l *slog.Logger) Option {
	return func(m *Migrator) { m.log = l }
}

// WithPublisher announces completed live runs.
func WithPublisher(p events.Publisher) Option {
	return func(m *Migrator) { m.events = p }
}

func New(store docstore.Client, cols config.Collections, opts ...Option) *Migrator {
	m := &Migrator{
		store:  store,
		cols:   cols,
		log:    slog.Default(),
		events: events.Noop{},
	}
	for _, o := range opts {
		o(m)
	}
	m.log = m.log.With(slog.String("component", "participant-migration"))
	return m
}

// Run performs one pass. Only failures to read the appointments or the
// normalized participants abort it; everything else is counted in the summary.
func (m *Migrator) Run(ctx context.Context, opts Options) (model.MigrationSummary, error) {
	ctx, span := tracer.Start(ctx, "participants.migrate")
	defer span.End()
	span.SetAttributes(
		attribute.Bool("migration.dry_run", opts.DryRun),
		attribute.String("migration.target_coach", opts.TargetCoachOnlyUserID),
	)

	started := time.Now()
	rep := newReport(opts.DryRun)
	m.log.InfoContext(ctx, "participant migration started",
		slog.Bool("dry_run", opts.DryRun),
		slog.String("target_coach", opts.TargetCoachOnlyUserID))

	err := m.run(ctx, opts, rep)
	sum := rep.finish(ctx, m.log, started, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return sum, err
	}
	span.SetAttributes(
		attribute.Int("migration.created", sum.Created),
		attribute.Int("migration.skipped", sum.Skipped),
		attribute.Int("migration.updated_appointments", sum.UpdatedAppointments),
		attribute.Int("migration.errors", sum.Errors),
	)

	if !opts.DryRun {
		ev := events.MigrationCompleted{
			Summary:      sum,
			TargetCoach:  opts.TargetCoachOnlyUserID,
			CompletedAt:  time.Now().UTC(),
			DurationSecs: time.Since(started).Seconds(),
		}
		if perr := m.events.PublishMigrationCompleted(ctx, ev); perr != nil {
			m.log.WarnContext(ctx, "migration event not published", slog.Any("err", perr))
		}
	}
	return sum, nil
}

func (m *Migrator) run(ctx context.Context, opts Options, rep *report) error {
	apptDocs, err := m.store.ReadAll(ctx, m.cols.Appointments)
	if err != nil {
		return fmt.Errorf("read %s: %w", m.cols.Appointments, err)
	}
	normalized, err := m.store.ReadAll(ctx, m.cols.Participants)
	if err != nil {
		return fmt.Errorf("read %s: %w", m.cols.Participants, err)
	}

	existing := make(map[Key]bool, len(normalized))
	for _, d := range normalized {
		if k, ok := keyOfDocument(d); ok {
			existing[k] = true
		}
	}

	legacy := m.readLegacy(ctx)
	users := m.readUsers(ctx)

	appts := make([]model.Appointment, 0, len(apptDocs))
	known := make(map[string]bool, len(apptDocs))
	for _, d := range apptDocs {
		a := store.AppointmentFromDocument(d)
		appts = append(appts, a)
		known[a.ID] = true
	}

	byAppt, orphans := indexLegacy(legacy, known)
	if len(orphans) > 0 {
		rep.orphans(len(orphans))
		for _, o := range orphans {
			ref := "<none>"
			if o.AppointmentID != nil {
				ref = *o.AppointmentID
			}
			m.log.WarnContext(ctx, "orphaned legacy participant",
				slog.String("collection", o.Source),
				slog.String("id", o.ID),
				slog.String("appointment", ref))
		}
	}

	w := &writer{
		store:    m.store,
		target:   m.cols.Participants,
		appts:    m.cols.Appointments,
		dryRun:   opts.DryRun,
		existing: existing,
		rep:      rep,
		log:      m.log,
	}

	for _, a := range appts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !inScope(a, opts.TargetCoachOnlyUserID) {
			continue
		}
		cands, rejected := dedupe(derive(a, byAppt[a.ID], users))
		for _, r := range rejected {
			m.log.WarnContext(ctx, "legacy participant has neither user nor email, ignored",
				slog.String("collection", r.Collection),
				slog.String("appointment", a.ID))
		}
		w.write(ctx, cands)
		w.syncSummary(ctx, a, cands)
	}
	return nil
}
