package rpc

import (
	"coach-booking-api/internal/feedback"
	"coach-booking-api/internal/model"
	"coach-booking-api/internal/stats"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type RunMigrationRequest struct {
	DryRun                bool   `json:"dryRun"`
	TargetCoachOnlyUserID string `json:"targetCoachOnlyUserId,omitempty" validate:"omitempty,max=128"`
}

type RunMigrationResponse struct {
	Summary model.MigrationSummary `json:"summary"`
}

type WeeklyStatsRequest struct {
	// CoachID defaults to the caller.
	CoachID string `json:"coachId,omitempty" validate:"omitempty,max=128"`
	Weeks   int    `json:"weeks,omitempty" validate:"omitempty,min=1,max=52"`
}

type WeeklyStatsResponse struct {
	CoachID string             `json:"coachId"`
	Weeks   []stats.WeekBucket `json:"weeks"`
}

type ListFeedbackRequest struct {
	AppointmentIDs []string `json:"appointmentIds" validate:"required,min=1,max=100,dive,required"`
}

type ListFeedbackResponse struct {
	Sessions      []feedback.SessionFeedback `json:"sessions"`
	AverageRating float64                    `json:"averageRating"`
	Rated         int                        `json:"rated"`
}
