package docstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coach-booking-api/internal/docstore"
)

func TestMemory_InsertQueryUpdate(t *testing.T) {
	ctx := context.Background()
	mem := docstore.NewMemory()
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	mem.SetClock(func() time.Time { return now })

	id, err := mem.Insert(ctx, "participants", map[string]any{
		"appointmentId": "a1",
		"role":          "coach",
		"migratedAt":    docstore.ServerTimestamp,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Equal(t, 1, mem.Inserts("participants"))

	docs, err := mem.Query(ctx, "participants", "appointmentId", "a1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, id, docs[0].ID)
	ts, ok := docs[0].Time("migratedAt")
	require.True(t, ok)
	require.Equal(t, now, ts)

	require.NoError(t, mem.Update(ctx, "participants", id, map[string]any{"status": "accepted"}))
	got, err := mem.Get("participants", id)
	require.NoError(t, err)
	require.Equal(t, "accepted", got.Fields["status"])
	require.Equal(t, "coach", got.Fields["role"])
	require.Equal(t, 1, mem.Updates("participants"))
}

func TestMemory_ReadAllOrderedByID(t *testing.T) {
	mem := docstore.NewMemory()
	mem.Seed("appointments", "b", map[string]any{})
	mem.Seed("appointments", "a", map[string]any{})
	mem.Seed("appointments", "c", map[string]any{})

	docs, err := mem.ReadAll(context.Background(), "appointments")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	require.Equal(t, []string{"a", "b", "c"}, []string{docs[0].ID, docs[1].ID, docs[2].ID})
	require.Zero(t, mem.Inserts("appointments"))
}

func TestMemory_UpdateMissing(t *testing.T) {
	err := docstore.NewMemory().Update(context.Background(), "appointments", "nope", map[string]any{"x": 1})
	require.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestMemory_Faults(t *testing.T) {
	ctx := context.Background()
	mem := docstore.NewMemory()
	mem.Seed("appointments", "a1", map[string]any{})
	boom := errors.New("boom")

	mem.FailReads("appointments", boom)
	_, err := mem.ReadAll(ctx, "appointments")
	require.ErrorIs(t, err, boom)
	mem.FailReads("appointments", nil)
	_, err = mem.ReadAll(ctx, "appointments")
	require.NoError(t, err)

	mem.FailInserts(func(string, map[string]any) error { return boom })
	_, err = mem.Insert(ctx, "participants", map[string]any{})
	require.ErrorIs(t, err, boom)
	require.Zero(t, mem.Inserts("participants"))

	mem.FailUpdates(func(string, string) error { return boom })
	require.ErrorIs(t, mem.Update(ctx, "appointments", "a1", map[string]any{"x": 1}), boom)
	require.Zero(t, mem.Updates("appointments"))
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	mem := docstore.NewMemory()
	mem.Seed("appointments", "a1", map[string]any{"coachIds": []string{"c1"}})

	docs, err := mem.ReadAll(ctx, "appointments")
	require.NoError(t, err)
	docs[0].Fields["coachIds"].([]string)[0] = "mutated"
	docs[0].Fields["extra"] = true

	again, err := mem.Get("appointments", "a1")
	require.NoError(t, err)
	require.Equal(t, []string{"c1"}, again.Strings("coachIds"))
	require.False(t, again.Has("extra"))
}
