// Package feedback pairs the client's and the coach's feedback on a session.
package feedback

import "coach-booking-api/internal/model"

type SessionFeedback struct {
	AppointmentID string          `json:"appointmentId"`
	Client        *model.Feedback `json:"client,omitempty"`
	Coach         *model.Feedback `json:"coach,omitempty"`
	Complete      bool            `json:"complete"`
}

// Pair returns one entry per appointment id, in the given order, holding
// the latest feedback from each side. Duplicate ids are reported once.
// Feedback without a role is ignored.
func Pair(appointmentIDs []string, byAppt map[string][]model.Feedback) []SessionFeedback {
	out := make([]SessionFeedback, 0, len(appointmentIDs))
	seen := make(map[string]bool, len(appointmentIDs))
	for _, id := range appointmentIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		sf := SessionFeedback{AppointmentID: id}
		for i := range byAppt[id] {
			f := byAppt[id][i]
			switch f.Role {
			case model.RoleClient:
				sf.Client = latest(sf.Client, f)
			case model.RoleCoach:
				sf.Coach = latest(sf.Coach, f)
			}
		}
		sf.Complete = sf.Client != nil && sf.Coach != nil
		out = append(out, sf)
	}
	return out
}

func latest(cur *model.Feedback, f model.Feedback) *model.Feedback {
	if cur == nil || f.CreatedAt.After(cur.CreatedAt) {
		return &f
	}
	return cur
}

// AverageRating over the coach-facing ratings left by clients.
func AverageRating(pairs []SessionFeedback) (float64, int) {
	var sum, n int
	for _, p := range pairs {
		if p.Client != nil && p.Client.Rating > 0 {
			sum += p.Client.Rating
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return float64(sum) / float64(n), n
}
