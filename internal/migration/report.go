package migration

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"coach-booking-api/internal/model"
)

var (
	recordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "participant_migration_records_total",
			Help: "Participant candidates processed by the migration, by outcome",
		},
		[]string{"outcome", "mode"},
	)
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "participant_migration_runs_total",
			Help: "Participant migration runs",
		},
		[]string{"mode", "result"},
	)
	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "participant_migration_duration_seconds",
			Help:    "Duration of participant migration runs",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)
)

// report accumulates the summary for one run.
type report struct {
	sum  model.MigrationSummary
	mode string
}

func newReport(dryRun bool) *report {
	mode := "live"
	if dryRun {
		mode = "dry_run"
	}
	return &report{sum: model.MigrationSummary{DryRun: dryRun}, mode: mode}
}

func (r *report) created() {
	r.sum.Created++
	recordsTotal.WithLabelValues("created", r.mode).Inc()
}

func (r *report) skipped() {
	r.sum.Skipped++
	recordsTotal.WithLabelValues("skipped", r.mode).Inc()
}

func (r *report) failed() {
	r.sum.Errors++
	recordsTotal.WithLabelValues("error", r.mode).Inc()
}

func (r *report) updatedAppointment() { r.sum.UpdatedAppointments++ }

func (r *report) orphans(n int) { r.sum.Orphans += n }

func (r *report) finish(ctx context.Context, log *slog.Logger, started time.Time, err error) model.MigrationSummary {
	elapsed := time.Since(started)
	runDuration.WithLabelValues(r.mode).Observe(elapsed.Seconds())
	if err != nil {
		runsTotal.WithLabelValues(r.mode, "failed").Inc()
		log.ErrorContext(ctx, "participant migration failed", slog.Any("err", err), slog.Duration("elapsed", elapsed))
		return r.sum
	}
	runsTotal.WithLabelValues(r.mode, "ok").Inc()
	log.InfoContext(ctx, "participant migration done",
		slog.Bool("dry_run", r.sum.DryRun),
		slog.Int("created", r.sum.Created),
		slog.Int("skipped", r.sum.Skipped),
		slog.Int("updated_appointments", r.sum.UpdatedAppointments),
		slog.Int("errors", r.sum.Errors),
		slog.Int("orphans", r.sum.Orphans),
		slog.Duration("elapsed", elapsed),
	)
	return r.sum
}
