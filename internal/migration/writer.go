package migration

import (
	"context"
	"log/slog"

	"coach-booking-api/internal/docstore"
	"coach-booking-api/internal/model"
)

// writer inserts missing normalized participants and refreshes the summary
// arrays on appointments. existing holds every key already in the target
// collection and grows as records are written.
type writer struct {
	store    docstore.Client
	target   string
	appts    string
	dryRun   bool
	existing map[Key]bool
	rep      *report
	log      *slog.Logger
}

func (w *writer) write(ctx context.Context, cands []Candidate) {
	for _, c := range cands {
		k, ok := keyOf(c.Fields)
		if !ok {
			continue
		}
		if w.existing[k] {
			w.rep.skipped()
			continue
		}
		if w.dryRun {
			w.existing[k] = true
			w.rep.created()
			continue
		}
		if _, err := w.store.Insert(ctx, w.target, participantFields(c)); err != nil {
			w.rep.failed()
			w.log.WarnContext(ctx, "participant insert failed",
				slog.String("appointment", k.AppointmentID),
				slog.String("who", k.Who),
				slog.String("role", string(k.Role)),
				slog.Any("err", err))
			continue
		}
		w.existing[k] = true
		w.rep.created()
	}
}

// syncSummary recomputes participantsIds and coachIds from cands and writes
// them when they differ from what the appointment stores.
func (w *writer) syncSummary(ctx context.Context, a model.Appointment, cands []Candidate) {
	participants, coaches := summaryArrays(cands)
	if sameSet(participants, a.ParticipantIDs) && sameSet(coaches, a.CoachIDs) {
		return
	}
	if w.dryRun {
		w.rep.updatedAppointment()
		return
	}
	err := w.store.Update(ctx, w.appts, a.ID, map[string]any{
		"participantsIds": participants,
		"coachIds":        coaches,
	})
	if err != nil {
		w.rep.failed()
		w.log.WarnContext(ctx, "appointment summary update failed",
			slog.String("appointment", a.ID), slog.Any("err", err))
		return
	}
	w.rep.updatedAppointment()
}

// summaryArrays returns the identities of cands in first-seen order, and
// the subset that are coaches. Unresolved emails are not identities.
func summaryArrays(cands []Candidate) (participants, coaches []string) {
	participants, coaches = []string{}, []string{}
	seenP := map[string]bool{}
	seenC := map[string]bool{}
	for _, c := range cands {
		uid, ok := c.identity()
		if !ok {
			continue
		}
		if !seenP[uid] {
			seenP[uid] = true
			participants = append(participants, uid)
		}
		if c.role() == model.RoleCoach && !seenC[uid] {
			seenC[uid] = true
			coaches = append(coaches, uid)
		}
	}
	return participants, coaches
}

func participantFields(c Candidate) map[string]any {
	f := map[string]any{
		"appointmentId": c.Fields.AppointmentID,
		"userId":        nil,
		"email":         "",
		"role":          string(c.role()),
		"status":        string(c.status()),
		"migratedAt":    docstore.ServerTimestamp,
		"migratedFrom":  string(c.Source),
	}
	if uid, ok := c.identity(); ok {
		f["userId"] = uid
	}
	if c.Fields.Email != nil {
		f["email"] = *c.Fields.Email
	}
	if c.Collection != "" {
		f["migratedFrom"] = c.Collection
	}
	return f
}

func keyOfDocument(d docstore.Document) (Key, bool) {
	p := Partial{}
	p.AppointmentID, _ = d.String("appointmentId")
	if v, ok := d.String("userId"); ok {
		p.UserID = ptr(v)
	}
	if v, ok := d.String("email"); ok {
		p.Email = ptr(normalizeEmail(v))
	}
	if v, ok := d.String("role"); ok {
		p.Role = ptr(model.Role(v))
	}
	if p.AppointmentID == "" {
		return Key{}, false
	}
	return keyOf(p)
}

func sameSet(a, b []string) bool {
	sa := make(map[string]bool, len(a))
	for _, v := range a {
		sa[v] = true
	}
	sb := make(map[string]bool, len(b))
	for _, v := range b {
		sb[v] = true
	}
	if len(sa) != len(sb) {
		return false
	}
	for v := range sa {
		if !sb[v] {
			return false
		}
	}
	return true
}
