package dto

import (
	"atithi_backend/internal/models"
)

type UpdateProfileRequest struct {
	FullName    string `json:"fullName" validate:"omitempty,min=2"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,min=7"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// CustomerDashboard is the landing payload for a signed-in customer: how many
// applications they have per kind, where the newest one of each stands, and
// the latest notifications.
type CustomerDashboard struct {
	JobApplications     int64                    `json:"jobApplications"`
	LoanApplications    int64                    `json:"loanApplications"`
	LatestJobStatus     models.ApplicationStatus `json:"latestJobStatus,omitempty"`
	LatestLoanStatus    models.ApplicationStatus `json:"latestLoanStatus,omitempty"`
	RecentNotifications []models.Notification    `json:"recentNotifications"`
}
