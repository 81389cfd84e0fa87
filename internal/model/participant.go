package model

import "time"

type Role string

const (
	RoleCoach  Role = "coach"
	RoleClient Role = "client"
)

type ParticipantStatus string

const (
	ParticipantPending  ParticipantStatus = "pending"
	ParticipantAccepted ParticipantStatus = "accepted"
	ParticipantDeclined ParticipantStatus = "declined"
)

// LegacyParticipant is a record from one of the pre-normalization
// collections. Every field except ID and Source may be absent.
type LegacyParticipant struct {
	ID            string
	Source        string
	AppointmentID *string
	UserID        *string
	Email         *string
	Role          *Role
	Status        *ParticipantStatus
}

// Participant is the normalized shape. UserID is nil for invites that never
// resolved to an account.
type Participant struct {
	ID            string            `json:"id"`
	AppointmentID string            `json:"appointmentId"`
	UserID        *string           `json:"userId"`
	Email         string            `json:"email"`
	Role          Role              `json:"role"`
	Status        ParticipantStatus `json:"status"`
	MigratedAt    time.Time         `json:"migratedAt"`
}

type MigrationSummary struct {
	Created             int  `json:"created"`
	Skipped             int  `json:"skipped"`
	UpdatedAppointments int  `json:"updatedAppointments"`
	Errors              int  `json:"errors"`
	Orphans             int  `json:"orphans"`
	DryRun              bool `json:"dryRun"`
}
