package migration

import (
	"strings"

	"coach-booking-api/internal/model"
)

// Source says where a candidate came from. The declaration order is the
// tie-break order used by dedupe: creator, coach, invite, legacy.
type Source string

const (
	SourceCreator Source = "creator"
	SourceCoach   Source = "coach"
	SourceInvite  Source = "invite"
	SourceLegacy  Source = "legacy"
)

// Partial is a participant whose fields may be missing. Presence is
// explicit: nil means absent, never "empty".
type Partial struct {
	AppointmentID string
	UserID        *string
	Email         *string
	Role          *model.Role
	Status        *model.ParticipantStatus
}

// Candidate is one proposed normalized participant. Collection is set for
// legacy candidates only.
type Candidate struct {
	Source     Source
	Collection string
	Fields     Partial
}

// Key identifies a normalized participant: (appointment, identity-or-email, role).
type Key struct {
	AppointmentID string
	Who           string
	Role          model.Role
}

// keyOf returns false when the candidate has neither identity nor email.
func keyOf(p Partial) (Key, bool) {
	k := Key{AppointmentID: p.AppointmentID, Role: model.RoleClient}
	if p.Role != nil && *p.Role != "" {
		k.Role = *p.Role
	}
	switch {
	case p.UserID != nil && *p.UserID != "":
		k.Who = *p.UserID
	case p.Email != nil && *p.Email != "":
		k.Who = *p.Email
	default:
		return Key{}, false
	}
	return k, true
}

func (c Candidate) identity() (string, bool) {
	if c.Fields.UserID == nil || *c.Fields.UserID == "" {
		return "", false
	}
	return *c.Fields.UserID, true
}

func (c Candidate) role() model.Role {
	if c.Fields.Role == nil || *c.Fields.Role == "" {
		return model.RoleClient
	}
	return *c.Fields.Role
}

func (c Candidate) status() model.ParticipantStatus {
	if c.Fields.Status == nil || *c.Fields.Status == "" {
		return model.ParticipantPending
	}
	return *c.Fields.Status
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func ptr[T any](v T) *T { return &v }
