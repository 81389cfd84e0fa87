package handler

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"coach-booking-api/internal/feedback"
	"coach-booking-api/internal/middleware"
	"coach-booking-api/internal/model"
	"coach-booking-api/internal/rpc"
	"coach-booking-api/internal/stats"
)

// GetWeeklyStats is open to the coach themself and to admins.
func (h *Handler) GetWeeklyStats(ctx context.Context, req *rpc.WeeklyStatsRequest) (*rpc.WeeklyStatsResponse, error) {
	if err := h.check(req); err != nil {
		return nil, err
	}
	uid, role := middleware.Identity(ctx)
	if uid == "" {
		return nil, status.Error(codes.Unauthenticated, "not authenticated")
	}
	coach := req.CoachID
	if coach == "" {
		coach = uid
	}
	if coach != uid && role != model.UserRoleAdmin {
		return nil, status.Error(codes.PermissionDenied, "not your stats")
	}

	appts, err := h.store.AppointmentsForCoach(ctx, coach)
	if err != nil {
		slog.ErrorContext(ctx, "load appointments", slog.Any("err", err))
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &rpc.WeeklyStatsResponse{
		CoachID: coach,
		Weeks:   stats.Weekly(appts, req.Weeks, h.now()),
	}, nil
}

// ListSessionFeedback pairs client and coach feedback. Non-admins may only
// ask about sessions they created or coach.
func (h *Handler) ListSessionFeedback(ctx context.Context, req *rpc.ListFeedbackRequest) (*rpc.ListFeedbackResponse, error) {
	if err := h.check(req); err != nil {
		return nil, err
	}
	uid, role := middleware.Identity(ctx)
	if uid == "" {
		return nil, status.Error(codes.Unauthenticated, "not authenticated")
	}

	if role != model.UserRoleAdmin {
		mine, err := h.store.AppointmentsForCoach(ctx, uid)
		if err != nil {
			slog.ErrorContext(ctx, "load appointments", slog.Any("err", err))
			return nil, status.Error(codes.Internal, "internal error")
		}
		allowed := make(map[string]bool, len(mine))
		for _, a := range mine {
			allowed[a.ID] = true
		}
		for _, id := range req.AppointmentIDs {
			if !allowed[id] {
				// don't leak whether it exists
				return nil, status.Error(codes.NotFound, "appointment not found")
			}
		}
	}

	byAppt, err := h.store.FeedbackFor(ctx, req.AppointmentIDs)
	if err != nil {
		slog.ErrorContext(ctx, "load feedback", slog.Any("err", err))
		return nil, status.Error(codes.Internal, "internal error")
	}
	pairs := feedback.Pair(req.AppointmentIDs, byAppt)
	avg, n := feedback.AverageRating(pairs)
	return &rpc.ListFeedbackResponse{Sessions: pairs, AverageRating: avg, Rated: n}, nil
}
