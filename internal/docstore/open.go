package docstore

import (
	"context"
	"fmt"

	"coach-booking-api/internal/config"
)

// Open connects the backend named by cfg.Backend.
func Open(ctx context.Context, cfg config.Config) (Client, error) {
	switch cfg.Backend {
	case "postgres":
		pg, err := ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case "firestore":
		if cfg.FirestoreProject == "" {
			return nil, fmt.Errorf("firestore: GOOGLE_CLOUD_PROJECT is required")
		}
		fs, err := ConnectFirestore(ctx, cfg.FirestoreProject, cfg.FirestoreDatabase)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case "mongo":
		m, err := ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "memory":
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
