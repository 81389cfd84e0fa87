package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upIndexParticipantLookups, downIndexParticipantLookups)
}

// appointmentId and email are the fields Query is called with.
func upIndexParticipantLookups(ctx context.Context, tx *sql.Tx) error {
	queries := []string{
		`CREATE INDEX IF NOT EXISTS documents_appointment_id_idx
			ON documents (collection, (data ->> 'appointmentId'));`,
		`CREATE INDEX IF NOT EXISTS documents_email_idx
			ON documents (collection, (data ->> 'email'));`,
	}
	for _, q := range queries {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func downIndexParticipantLookups(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx,
		`DROP INDEX IF EXISTS documents_appointment_id_idx;
		 DROP INDEX IF EXISTS documents_email_idx;`)
	return err
}
