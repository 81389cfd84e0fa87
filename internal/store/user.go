package store

import (
	"context"
	"errors"
	"strings"

	"coach-booking-api/internal/docstore"
	"coach-booking-api/internal/model"
)

var ErrEmailTaken = errors.New("email already registered")

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if _, err := s.UserByEmail(ctx, u.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return err
	}
	id, err := s.docs.Insert(ctx, s.cols.Users, map[string]any{
		"email":        u.Email,
		"passwordHash": u.PasswordHash,
		"name":         u.Name,
		"role":         u.Role,
		"createdAt":    docstore.ServerTimestamp,
	})
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	docs, err := s.docs.Query(ctx, s.cols.Users, "email", strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, docstore.ErrNotFound
	}
	d := docs[0]
	u := &model.User{ID: d.ID}
	u.Email, _ = d.String("email")
	u.PasswordHash, _ = d.String("passwordHash")
	u.Name, _ = d.String("name")
	u.Role, _ = d.String("role")
	if u.Role == "" {
		u.Role = model.UserRoleClient
	}
	return u, nil
}
