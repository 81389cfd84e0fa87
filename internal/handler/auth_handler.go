package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"coach-booking-api/internal/auth"
	"coach-booking-api/internal/model"
	"coach-booking-api/internal/rpc"
)

// Login issues a token for admins and coaches. Clients have no use for
// this service and get the same answer as a bad password.
func (h *Handler) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	if err := h.check(req); err != nil {
		return nil, err
	}

	u, err := h.store.UserByEmail(ctx, req.Email)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}
	if u.Role != model.UserRoleAdmin && u.Role != model.UserRoleCoach {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}

	tok, err := auth.MakeToken(u.ID, u.Role, h.secret)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &rpc.LoginResponse{Token: tok, UserID: u.ID, Name: u.Name, Role: u.Role}, nil
}
