package migration_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coach-booking-api/internal/config"
	"coach-booking-api/internal/docstore"
	"coach-booking-api/internal/events"
	"coach-booking-api/internal/migration"
)

var cols = config.Collections{
	Appointments: "appointments",
	Users:        "users",
	Participants: "participants",
	Feedback:     "feedback",
	Legacy:       []string{"appointmentParticipants", "sessionParticipants"},
}

type recordingPublisher struct {
	events []events.MigrationCompleted
}

func (p *recordingPublisher) PublishMigrationCompleted(_ context.Context, ev events.MigrationCompleted) error {
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// seed: a1 has creator u1, coach u2, one invite and a legacy duplicate of
// the creator; a2 only has a creator.
func seed(t *testing.T) *docstore.Memory {
	t.Helper()
	mem := docstore.NewMemory()
	mem.SetClock(func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) })
	mem.Seed("appointments", "a1", map[string]any{
		"createdBy":     "u1",
		"coachIds":      []any{"u2"},
		"invitedEmails": []any{"Guest@Example.com"},
		"status":        "confirmed",
	})
	mem.Seed("appointments", "a2", map[string]any{
		"createdBy": "u3",
		"status":    "pending",
	})
	mem.Seed("appointmentParticipants", "lp1", map[string]any{
		"appointmentId": "a1",
		"userId":        "u1",
		"role":          "client",
	})
	return mem
}

func newMigrator(mem *docstore.Memory, opts ...migration.Option) *migration.Migrator {
	return migration.New(mem, cols, opts...)
}

func TestRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	mem := seed(t)
	m := newMigrator(mem)

	first, err := m.Run(ctx, migration.Options{})
	require.NoError(t, err)
	require.Equal(t, 4, first.Created)
	require.Equal(t, 0, first.Errors)
	require.Equal(t, 0, first.Skipped)
	require.Equal(t, 2, first.UpdatedAppointments)
	require.False(t, first.DryRun)

	second, err := m.Run(ctx, migration.Options{})
	require.NoError(t, err)
	require.Equal(t, 0, second.Created)
	require.Equal(t, 4, second.Skipped)
	require.Equal(t, 0, second.UpdatedAppointments)
	require.Equal(t, 0, second.Errors)

	require.Equal(t, 4, mem.Inserts("participants"))
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	mem := seed(t)
	pub := &recordingPublisher{}
	m := newMigrator(mem, migration.WithPublisher(pub))

	sum, err := m.Run(ctx, migration.Options{DryRun: true})
	require.NoError(t, err)
	require.True(t, sum.DryRun)
	require.Equal(t, 4, sum.Created)
	require.Equal(t, 2, sum.UpdatedAppointments)

	require.Zero(t, mem.Inserts("participants"))
	require.Zero(t, mem.Updates("appointments"))
	require.Empty(t, pub.events)

	docs, err := mem.ReadAll(ctx, "participants")
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestRun_LivePublishesSummary(t *testing.T) {
	mem := seed(t)
	pub := &recordingPublisher{}
	m := newMigrator(mem, migration.WithPublisher(pub))

	sum, err := m.Run(context.Background(), migration.Options{})
	require.NoError(t, err)
	require.Len(t, pub.events, 1)
	require.Equal(t, sum, pub.events[0].Summary)
}

func TestRun_NormalizedRecordShape(t *testing.T) {
	ctx := context.Background()
	mem := seed(t)
	_, err := newMigrator(mem).Run(ctx, migration.Options{})
	require.NoError(t, err)

	invites, err := mem.Query(ctx, "participants", "email", "guest@example.com")
	require.NoError(t, err)
	require.Len(t, invites, 1)
	inv := invites[0]
	require.Nil(t, inv.Fields["userId"])
	require.Equal(t, "client", inv.Fields["role"])
	require.Equal(t, "pending", inv.Fields["status"])
	require.Equal(t, "a1", inv.Fields["appointmentId"])
	require.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), inv.Fields["migratedAt"])

	creators, err := mem.Query(ctx, "participants", "userId", "u1")
	require.NoError(t, err)
	require.Len(t, creators, 1)
	require.Equal(t, "accepted", creators[0].Fields["status"])
	require.Equal(t, "creator", creators[0].Fields["migratedFrom"])

	coaches, err := mem.Query(ctx, "participants", "role", "coach")
	require.NoError(t, err)
	require.Len(t, coaches, 1)
	require.Equal(t, "u2", coaches[0].Fields["userId"])
}

func TestRun_SummaryArrays(t *testing.T) {
	ctx := context.Background()
	mem := seed(t)
	mem.Seed("sessionParticipants", "lp2", map[string]any{
		"appointmentId": "a2",
		"userId":        "u9",
		"role":          "coach",
		"status":        "accepted",
	})

	_, err := newMigrator(mem).Run(ctx, migration.Options{})
	require.NoError(t, err)

	a1, err := mem.Get("appointments", "a1")
	require.NoError(t, err)
	// the unresolved invite is not an identity
	require.Equal(t, []string{"u1", "u2"}, a1.Strings("participantsIds"))
	require.Equal(t, []string{"u2"}, a1.Strings("coachIds"))

	a2, err := mem.Get("appointments", "a2")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"u3", "u9"}, a2.Strings("participantsIds"))
	require.Equal(t, []string{"u9"}, a2.Strings("coachIds"))
}

func TestRun_ResolvesInvitedEmails(t *testing.T) {
	ctx := context.Background()
	mem := seed(t)
	mem.Seed("users", "u7", map[string]any{"email": "guest@example.com", "role": "client"})

	sum, err := newMigrator(mem).Run(ctx, migration.Options{})
	require.NoError(t, err)
	require.Equal(t, 4, sum.Created)

	a1, err := mem.Get("appointments", "a1")
	require.NoError(t, err)
	require.Equal(t, []string{"u1", "u2", "u7"}, a1.Strings("participantsIds"))

	resolved, err := mem.Query(ctx, "participants", "userId", "u7")
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	require.Equal(t, "guest@example.com", resolved[0].Fields["email"])
}

func TestRun_TargetCoachScope(t *testing.T) {
	ctx := context.Background()
	mem := seed(t)

	sum, err := newMigrator(mem).Run(ctx, migration.Options{TargetCoachOnlyUserID: "u2"})
	require.NoError(t, err)
	require.Equal(t, 3, sum.Created)
	require.Equal(t, 1, sum.UpdatedAppointments)

	forA2, err := mem.Query(ctx, "participants", "appointmentId", "a2")
	require.NoError(t, err)
	require.Empty(t, forA2)

	a2, err := mem.Get("appointments", "a2")
	require.NoError(t, err)
	require.False(t, a2.Has("participantsIds"))
}

func TestRun_TargetNobody(t *testing.T) {
	mem := seed(t)
	sum, err := newMigrator(mem).Run(context.Background(), migration.Options{TargetCoachOnlyUserID: "stranger"})
	require.NoError(t, err)
	require.Zero(t, sum.Created)
	require.Zero(t, sum.UpdatedAppointments)
	require.Zero(t, mem.Inserts("participants"))
	require.Zero(t, mem.Updates("appointments"))
}

func TestRun_PartialInsertFailure(t *testing.T) {
	ctx := context.Background()
	mem := docstore.NewMemory()
	coaches := make([]any, 0, 9)
	for i := 1; i <= 9; i++ {
		coaches = append(coaches, fmt.Sprintf("c%d", i))
	}
	mem.Seed("appointments", "a1", map[string]any{"createdBy": "u1", "coachIds": coaches})

	rejected := errors.New("permission denied")
	mem.FailInserts(func(_ string, fields map[string]any) error {
		if fields["userId"] == "c5" {
			return rejected
		}
		return nil
	})

	sum, err := newMigrator(mem).Run(ctx, migration.Options{})
	require.NoError(t, err)
	require.Equal(t, 9, sum.Created)
	require.Equal(t, 1, sum.Errors)
	require.Equal(t, 9, mem.Inserts("participants"))

	// the rejected record is written on the next run
	mem.FailInserts(nil)
	again, err := newMigrator(mem).Run(ctx, migration.Options{})
	require.NoError(t, err)
	require.Equal(t, 1, again.Created)
	require.Equal(t, 9, again.Skipped)
	require.Zero(t, again.Errors)
}

func TestRun_AppointmentUpdateFailure(t *testing.T) {
	mem := seed(t)
	mem.FailUpdates(func(collection, id string) error {
		if id == "a2" {
			return errors.New("unavailable")
		}
		return nil
	})

	sum, err := newMigrator(mem).Run(context.Background(), migration.Options{})
	require.NoError(t, err)
	require.Equal(t, 1, sum.Errors)
	require.Equal(t, 1, sum.UpdatedAppointments)
	require.Equal(t, 4, sum.Created)
}

func TestRun_LegacyCollectionUnreadable(t *testing.T) {
	mem := seed(t)
	mem.FailReads("appointmentParticipants", errors.New("missing index"))

	sum, err := newMigrator(mem).Run(context.Background(), migration.Options{})
	require.NoError(t, err)
	// the legacy record only duplicated the creator
	require.Equal(t, 4, sum.Created)
	require.Zero(t, sum.Errors)
}

func TestRun_UsersUnreadable(t *testing.T) {
	mem := seed(t)
	mem.Seed("users", "u7", map[string]any{"email": "guest@example.com"})
	mem.FailReads("users", errors.New("denied"))

	_, err := newMigrator(mem).Run(context.Background(), migration.Options{})
	require.NoError(t, err)

	a1, err := mem.Get("appointments", "a1")
	require.NoError(t, err)
	require.Equal(t, []string{"u1", "u2"}, a1.Strings("participantsIds"))
}

func TestRun_AppointmentsUnreadableIsFatal(t *testing.T) {
	mem := seed(t)
	mem.FailReads("appointments", errors.New("unavailable"))

	_, err := newMigrator(mem).Run(context.Background(), migration.Options{})
	require.Error(t, err)
	require.Zero(t, mem.Inserts("participants"))
}

func TestRun_NormalizedUnreadableIsFatal(t *testing.T) {
	mem := seed(t)
	mem.FailReads("participants", errors.New("unavailable"))

	_, err := newMigrator(mem).Run(context.Background(), migration.Options{})
	require.Error(t, err)
}

func TestRun_Orphans(t *testing.T) {
	ctx := context.Background()
	mem := seed(t)
	mem.Seed("sessionParticipants", "gone", map[string]any{
		"appointmentId": "deleted-appt",
		"userId":        "u5",
	})
	mem.Seed("sessionParticipants", "noref", map[string]any{"userId": "u6"})

	sum, err := newMigrator(mem).Run(ctx, migration.Options{})
	require.NoError(t, err)
	require.Equal(t, 2, sum.Orphans)
	require.Equal(t, 4, sum.Created)

	orphaned, err := mem.Query(ctx, "participants", "userId", "u5")
	require.NoError(t, err)
	require.Empty(t, orphaned)
}

func TestRun_SkipsPreviouslyNormalized(t *testing.T) {
	mem := seed(t)
	mem.Seed("participants", "p1", map[string]any{
		"appointmentId": "a1",
		"userId":        "u2",
		"role":          "coach",
		"status":        "accepted",
	})

	sum, err := newMigrator(mem).Run(context.Background(), migration.Options{})
	require.NoError(t, err)
	require.Equal(t, 3, sum.Created)
	require.Equal(t, 1, sum.Skipped)
}

func TestRun_Cancelled(t *testing.T) {
	mem := seed(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newMigrator(mem).Run(ctx, migration.Options{})
	require.ErrorIs(t, err, context.Canceled)
}
