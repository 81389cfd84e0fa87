package store

import (
	"context"

	"coach-booking-api/internal/model"
)

// FeedbackFor loads feedback left on the given appointments, grouped by appointment.
func (s *Store) FeedbackFor(ctx context.Context, appointmentIDs []string) (map[string][]model.Feedback, error) {
	out := make(map[string][]model.Feedback, len(appointmentIDs))
	for _, id := range appointmentIDs {
		if _, done := out[id]; done {
			continue
		}
		docs, err := s.docs.Query(ctx, s.cols.Feedback, "appointmentId", id)
		if err != nil {
			return nil, err
		}
		list := make([]model.Feedback, 0, len(docs))
		for _, d := range docs {
			f := model.Feedback{ID: d.ID, AppointmentID: id}
			f.AuthorID, _ = d.String("authorId")
			role, _ := d.String("role")
			f.Role = model.Role(role)
			f.Rating, _ = d.Int("rating")
			f.Comment, _ = d.String("comment")
			f.CreatedAt, _ = d.Time("createdAt")
			list = append(list, f)
		}
		out[id] = list
	}
	return out, nil
}
