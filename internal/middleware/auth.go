package middleware

import (
	"context"
	"strings"

	"coach-booking-api/internal/auth"
	"coach-booking-api/internal/model"
	"coach-booking-api/internal/rpc"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	UserIDKey ctxKey = "uid"
	RoleKey   ctxKey = "role"
)

// skip auth for these
var open = map[string]bool{
	rpc.MethodLogin: true,
}

// admin only
var adminOnly = map[string]bool{
	rpc.MethodRunMigration: true,
}

func Auth(secret string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if open[info.FullMethod] {
			return next(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		// token from Authorization: Bearer <jwt>
		raw := ""
		if vals := md.Get("authorization"); len(vals) > 0 {
			raw = strings.TrimPrefix(vals[0], "Bearer ")
		}
		if raw == "" {
			return nil, status.Error(codes.Unauthenticated, "no token")
		}

		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "bad token")
		}

		if adminOnly[info.FullMethod] && claims.Role != model.UserRoleAdmin {
			return nil, status.Error(codes.PermissionDenied, "admin only")
		}

		ctx = WithIdentity(ctx, claims.UserID, claims.Role)
		return next(ctx, req)
	}
}

// WithIdentity stores the caller in ctx the same way Auth does.
func WithIdentity(ctx context.Context, uid, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, uid)
	return context.WithValue(ctx, RoleKey, role)
}

func Identity(ctx context.Context) (uid, role string) {
	uid, _ = ctx.Value(UserIDKey).(string)
	role, _ = ctx.Value(RoleKey).(string)
	return uid, role
}
