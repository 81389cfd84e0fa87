package handler

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"coach-booking-api/internal/middleware"
	"coach-booking-api/internal/migration"
	"coach-booking-api/internal/rpc"
)

func (h *Handler) RunParticipantMigration(ctx context.Context, req *rpc.RunMigrationRequest) (*rpc.RunMigrationResponse, error) {
	if err := h.check(req); err != nil {
		return nil, err
	}

	uid, _ := middleware.Identity(ctx)
	slog.InfoContext(ctx, "migration requested",
		slog.String("by", uid),
		slog.Bool("dry_run", req.DryRun),
		slog.String("target_coach", req.TargetCoachOnlyUserID))

	sum, err := h.migrator.Run(ctx, migration.Options{
		DryRun:                req.DryRun,
		TargetCoachOnlyUserID: req.TargetCoachOnlyUserID,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, status.FromContextError(err).Err()
		}
		slog.ErrorContext(ctx, "migration failed", slog.Any("err", err))
		return nil, status.Error(codes.Unavailable, "migration could not read its inputs")
	}
	return &rpc.RunMigrationResponse{Summary: sum}, nil
}
