package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"coach-booking-api/internal/docstore"
	"coach-booking-api/internal/docstore/migrations"
	"coach-booking-api/internal/events"
	"coach-booking-api/internal/migration"
	"coach-booking-api/internal/tracing"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Data and schema migrations",
}

var participantsCmd = &cobra.Command{
	Use:   "participants",
	Short: "Normalize appointment participants",
	Long: `Derive participant records from each appointment's creator, coaches,
invited emails and the legacy participant collections, write the missing
ones and refresh the appointment's participantsIds and coachIds arrays.

The run is additive and safe to repeat. Use --dry-run to get the report
without writing anything. The report is printed to stdout as JSON.`,
	Args: cobra.NoArgs,
	RunE: runParticipants,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Apply the Postgres document table schema",
	Args:  cobra.NoArgs,
	RunE:  runSchema,
}

var (
	migrateDryRun bool
	migrateCoach  string
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(participantsCmd, schemaCmd)

	participantsCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Count what would change without writing")
	participantsCmd.Flags().StringVar(&migrateCoach, "coach", "", "Only appointments this user created or coaches")
}

func runParticipants(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, docs, err := open(ctx)
	if err != nil {
		return err
	}
	defer docs.Close()

	shutdown, err := tracing.InitTracerProvider(ctx, "coachctl", cfg.OtelEndpoint)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer shutdown(ctx)

	pub := events.Open(cfg)
	defer pub.Close()

	m := migration.New(docs, cfg.Collections,
		migration.WithLogger(slog.Default()),
		migration.WithPublisher(pub),
	)
	sum, err := m.Run(ctx, migration.Options{DryRun: migrateDryRun, TargetCoachOnlyUserID: migrateCoach})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(sum); err != nil {
		return err
	}
	if sum.Errors > 0 {
		return fmt.Errorf("%d records could not be written", sum.Errors)
	}
	return nil
}

func runSchema(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	_, docs, err := open(ctx)
	if err != nil {
		return err
	}
	defer docs.Close()

	pg, ok := docs.(*docstore.Postgres)
	if !ok {
		return fmt.Errorf("schema migrations only apply to the postgres backend")
	}
	return migrations.Up(ctx, pg.Pool())
}
