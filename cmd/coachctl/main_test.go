package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"coach-booking-api/internal/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		backend, migrateDryRun, migrateCoach = "", false, ""
		adminEmail, adminName, adminPassword, adminRole = "", "", "", model.UserRoleAdmin
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestMigrateParticipants_DryRunReport(t *testing.T) {
	out, err := execute(t, "--backend", "memory", "migrate", "participants", "--dry-run")
	require.NoError(t, err)

	var sum model.MigrationSummary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	require.True(t, sum.DryRun)
	require.Zero(t, sum.Created)
}

func TestMigrateSchema_RequiresPostgres(t *testing.T) {
	_, err := execute(t, "--backend", "memory", "migrate", "schema")
	require.ErrorContains(t, err, "postgres")
}

func TestAdminCreate(t *testing.T) {
	out, err := execute(t, "--backend", "memory", "admin", "create",
		"--email", "Root@Example.com", "--password", "longenough")
	require.NoError(t, err)
	require.Contains(t, out, "created admin root@example.com")
}

func TestAdminCreate_Validation(t *testing.T) {
	t.Setenv("COACHCTL_ADMIN_PASSWORD", "")

	_, err := execute(t, "--backend", "memory", "admin", "create", "--email", "a@b.com", "--password", "short")
	require.ErrorContains(t, err, "at least 8")

	_, err = execute(t, "--backend", "memory", "admin", "create", "--email", "a@b.com", "--password", "longenough", "--role", "client")
	require.ErrorContains(t, err, "admin or coach")
}

func TestBackendFlagListsEveryBackend(t *testing.T) {
	usage := rootCmd.PersistentFlags().Lookup("backend").Usage
	for _, b := range []string{"postgres", "firestore", "mongo", "memory"} {
		require.Contains(t, usage, b)
	}
}
