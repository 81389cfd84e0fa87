package model

import "time"

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	Role         string `json:"role"`
}

// user roles
const (
	UserRoleClient = "client"
	UserRoleCoach  = "coach"
	UserRoleAdmin  = "admin"
)

// appointment lifecycle
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Appointment struct {
	ID             string   `json:"id"`
	CreatedBy      string   `json:"createdBy,omitempty"`
	CoachIDs       []string `json:"coachIds,omitempty"`
	InvitedEmails  []string `json:"invitedEmails,omitempty"`
	ParticipantIDs []string `json:"participantsIds,omitempty"`
	Date           string   `json:"date,omitempty"` // 2006-01-02
	Time           string   `json:"time,omitempty"` // 15:04
	Duration       int      `json:"duration,omitempty"`
	Location       string   `json:"location,omitempty"`
	Status         string   `json:"status,omitempty"`
}

// StartsAt combines Date and Time in UTC. Time defaults to midnight.
func (a *Appointment) StartsAt() (time.Time, bool) {
	if a.Date == "" {
		return time.Time{}, false
	}
	if a.Time != "" {
		if t, err := time.Parse("2006-01-02 15:04", a.Date+" "+a.Time); err == nil {
			return t, true
		}
	}
	t, err := time.Parse("2006-01-02", a.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Involves reports whether uid created the appointment or coaches it.
func (a *Appointment) Involves(uid string) bool {
	if a.CreatedBy == uid {
		return true
	}
	for _, c := range a.CoachIDs {
		if c == uid {
			return true
		}
	}
	return false
}

type Feedback struct {
	ID            string    `json:"id"`
	AppointmentID string    `json:"appointmentId"`
	AuthorID      string    `json:"authorId"`
	Role          Role      `json:"role"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
