package handler

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"coach-booking-api/internal/migration"
	"coach-booking-api/internal/rpc"
	"coach-booking-api/internal/store"
)

var _ rpc.AdminServer = (*Handler)(nil)

type Handler struct {
	store    *store.Store
	migrator *migration.Migrator
	secret   string
	validate *validator.Validate
	now      func() time.Time
}

func New(st *store.Store, mig *migration.Migrator, secret string) *Handler {
	return &Handler{
		store:    st,
		migrator: mig,
		secret:   secret,
		validate: validator.New(),
		now:      time.Now,
	}
}

// SetClock overrides the time source used for weekly windows.
func (h *Handler) SetClock(now func() time.Time) { h.now = now }

func (h *Handler) check(req any) error {
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return status.Errorf(codes.InvalidArgument, "invalid %s", verrs[0].Field())
		}
		return status.Error(codes.InvalidArgument, "invalid request")
	}
	return nil
}
