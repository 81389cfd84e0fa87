package migration

import "coach-booking-api/internal/model"

// derive lists the participants implied by one appointment, in source order:
// creator, coaches, invited emails, then matching legacy records. Absent
// fields contribute nothing.
func derive(a model.Appointment, legacy []model.LegacyParticipant, users userIndex) []Candidate {
	var out []Candidate

	if a.CreatedBy != "" {
		out = append(out, Candidate{Source: SourceCreator, Fields: Partial{
			AppointmentID: a.ID,
			UserID:        ptr(a.CreatedBy),
			Email:         users.emailOf(a.CreatedBy),
			Role:          ptr(model.RoleClient),
			Status:        ptr(model.ParticipantAccepted),
		}})
	}

	for _, uid := range a.CoachIDs {
		out = append(out, Candidate{Source: SourceCoach, Fields: Partial{
			AppointmentID: a.ID,
			UserID:        ptr(uid),
			Email:         users.emailOf(uid),
			Role:          ptr(model.RoleCoach),
			Status:        ptr(model.ParticipantPending),
		}})
	}

	for _, raw := range a.InvitedEmails {
		email := normalizeEmail(raw)
		if email == "" {
			continue
		}
		c := Candidate{Source: SourceInvite, Fields: Partial{
			AppointmentID: a.ID,
			Email:         ptr(email),
			Role:          ptr(model.RoleClient),
			Status:        ptr(model.ParticipantPending),
		}}
		if uid, ok := users.byEmail[email]; ok {
			c.Fields.UserID = ptr(uid)
		}
		out = append(out, c)
	}

	for _, lp := range legacy {
		c := Candidate{Source: SourceLegacy, Collection: lp.Source, Fields: Partial{
			AppointmentID: a.ID,
			UserID:        lp.UserID,
			Email:         lp.Email,
			Role:          lp.Role,
			Status:        lp.Status,
		}}
		if c.Fields.UserID == nil && c.Fields.Email != nil {
			if uid, ok := users.byEmail[*c.Fields.Email]; ok {
				c.Fields.UserID = ptr(uid)
			}
		}
		if c.Fields.Email == nil && c.Fields.UserID != nil {
			c.Fields.Email = users.emailOf(*c.Fields.UserID)
		}
		out = append(out, c)
	}
	return out
}

func (u userIndex) emailOf(uid string) *string {
	if e, ok := u.byID[uid]; ok {
		return ptr(e)
	}
	return nil
}

// inScope implements the coach-only filter. An empty target matches all.
func inScope(a model.Appointment, target string) bool {
	return target == "" || a.Involves(target)
}

// indexLegacy groups legacy records by appointment. Records pointing at no
// known appointment are returned separately.
func indexLegacy(legacy []model.LegacyParticipant, known map[string]bool) (map[string][]model.LegacyParticipant, []model.LegacyParticipant) {
	byAppt := make(map[string][]model.LegacyParticipant)
	var orphans []model.LegacyParticipant
	for _, lp := range legacy {
		if lp.AppointmentID == nil || !known[*lp.AppointmentID] {
			orphans = append(orphans, lp)
			continue
		}
		byAppt[*lp.AppointmentID] = append(byAppt[*lp.AppointmentID], lp)
	}
	return byAppt, orphans
}
