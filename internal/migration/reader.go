package migration

import (
	"context"
	"log/slog"

	"coach-booking-api/internal/docstore"
	"coach-booking-api/internal/model"
)

// readLegacy loads every record of every legacy collection. A collection
// that cannot be read is logged and left out.
func (m *Migrator) readLegacy(ctx context.Context) []model.LegacyParticipant {
	var out []model.LegacyParticipant
	for _, name := range m.cols.Legacy {
		docs, err := m.store.ReadAll(ctx, name)
		if err != nil {
			m.log.WarnContext(ctx, "legacy collection unreadable, skipping",
				slog.String("collection", name), slog.Any("err", err))
			continue
		}
		for _, d := range docs {
			out = append(out, legacyFromDocument(name, d))
		}
		m.log.DebugContext(ctx, "legacy collection loaded",
			slog.String("collection", name), slog.Int("records", len(docs)))
	}
	return out
}

func legacyFromDocument(source string, d docstore.Document) model.LegacyParticipant {
	lp := model.LegacyParticipant{ID: d.ID, Source: source}
	if v, ok := d.String("appointmentId"); ok {
		lp.AppointmentID = ptr(v)
	}
	if v, ok := d.String("userId"); ok {
		lp.UserID = ptr(v)
	}
	if v, ok := d.String("email"); ok {
		lp.Email = ptr(normalizeEmail(v))
	}
	if v, ok := d.String("role"); ok {
		switch r := model.Role(v); r {
		case model.RoleCoach, model.RoleClient:
			lp.Role = ptr(r)
		}
	}
	if v, ok := d.String("status"); ok {
		switch s := model.ParticipantStatus(v); s {
		case model.ParticipantPending, model.ParticipantAccepted, model.ParticipantDeclined:
			lp.Status = ptr(s)
		}
	}
	return lp
}

// userIndex maps both ways between user ids and emails.
type userIndex struct {
	byEmail map[string]string
	byID    map[string]string
}

// readUsers never fails the run; without users invites stay unresolved.
func (m *Migrator) readUsers(ctx context.Context) userIndex {
	idx := userIndex{byEmail: map[string]string{}, byID: map[string]string{}}
	docs, err := m.store.ReadAll(ctx, m.cols.Users)
	if err != nil {
		m.log.WarnContext(ctx, "users unreadable, invited emails will not be resolved",
			slog.String("collection", m.cols.Users), slog.Any("err", err))
		return idx
	}
	for _, d := range docs {
		email, ok := d.String("email")
		if !ok {
			continue
		}
		email = normalizeEmail(email)
		if _, dup := idx.byEmail[email]; !dup {
			idx.byEmail[email] = d.ID
		}
		idx.byID[d.ID] = email
	}
	return idx
}
