// Command coachctl runs maintenance tasks against the coaching data store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"coach-booking-api/internal/config"
	"coach-booking-api/internal/docstore"
	"coach-booking-api/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "coachctl",
	Short:         "Maintenance tasks for the coaching data store",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var backend string

func init() {
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Store backend: postgres, firestore, mongo or memory (defaults to STORE_BACKEND)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// open loads config and connects the selected backend. Logs go to stderr so
// stdout stays machine readable.
func open(ctx context.Context) (config.Config, docstore.Client, error) {
	cfg := config.Load()
	if backend != "" {
		cfg.Backend = backend
	}
	slog.SetDefault(logging.New(os.Stderr, "coachctl"))
	docs, err := docstore.Open(ctx, cfg)
	if err != nil {
		return cfg, nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	return cfg, docs, nil
}
