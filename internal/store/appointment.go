package store

import (
	"context"

	"coach-booking-api/internal/docstore"
	"coach-booking-api/internal/model"
)

func (s *Store) Appointments(ctx context.Context) ([]model.Appointment, error) {
	docs, err := s.docs.ReadAll(ctx, s.cols.Appointments)
	if err != nil {
		return nil, err
	}
	out := make([]model.Appointment, 0, len(docs))
	for _, d := range docs {
		out = append(out, AppointmentFromDocument(d))
	}
	return out, nil
}

// AppointmentsForCoach returns appointments the user created or coaches.
func (s *Store) AppointmentsForCoach(ctx context.Context, uid string) ([]model.Appointment, error) {
	all, err := s.Appointments(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Appointment
	for _, a := range all {
		if a.Involves(uid) {
			out = append(out, a)
		}
	}
	return out, nil
}

// AppointmentFromDocument reads an appointment optimistically; absent fields stay zero.
func AppointmentFromDocument(d docstore.Document) model.Appointment {
	a := model.Appointment{
		ID:             d.ID,
		CoachIDs:       d.Strings("coachIds"),
		InvitedEmails:  d.Strings("invitedEmails"),
		ParticipantIDs: d.Strings("participantsIds"),
	}
	a.CreatedBy, _ = d.String("createdBy")
	a.Date, _ = d.String("date")
	a.Time, _ = d.String("time")
	a.Duration, _ = d.Int("duration")
	a.Location, _ = d.String("location")
	a.Status, _ = d.String("status")
	return a
}
