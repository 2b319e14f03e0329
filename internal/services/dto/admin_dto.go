package dto

import (
	"time"

	"atithi_backend/internal/models"
)

type UpdateUserRequest struct {
	FullName    string          `json:"fullName" validate:"omitempty,min=2"`
	PhoneNumber string          `json:"phoneNumber" validate:"omitempty,min=7"`
	Role        models.UserRole `json:"role" validate:"omitempty,oneof=customer admin"`
}

type UserListItem struct {
	ID               string          `json:"id"`
	FullName         string          `json:"fullName"`
	Email            string          `json:"email"`
	PhoneNumber      string          `json:"phoneNumber"`
	Role             models.UserRole `json:"role"`
	ApplicationCount int64           `json:"applicationCount"`
	CreatedAt        time.Time       `json:"createdAt"`
}

type CreateAdminRequest struct {
	FullName    string `json:"fullName" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	PhoneNumber string `json:"phoneNumber" validate:"required,min=7"`
}

// UserDetails is the admin drill-down: the account plus every submission.
type UserDetails struct {
	User             UserResponse             `json:"user"`
	JobApplications  []models.JobApplication  `json:"jobApplications"`
	LoanApplications []models.LoanApplication `json:"loanApplications"`
}

type UpdateSettingsRequest struct {
	SiteName        *string  `json:"siteName"`
	MaintenanceMode *bool    `json:"maintenanceMode"`
	ApplicationFee  *float64 `json:"applicationFee" validate:"omitempty,gte=0"`
}

type ReplyInquiryRequest struct {
	ReplyMessage string `json:"replyMessage" validate:"required,min=1"`
}

// DashboardStats is the headline block of the admin dashboard.
type DashboardStats struct {
	TotalUsers          int64                 `json:"totalUsers"`
	TotalApplications   int64                 `json:"totalApplications"`
	JobApplications     int64                 `json:"jobApplications"`
	LoanApplications    int64                 `json:"loanApplications"`
	PendingApplications int64                 `json:"pendingApplications"`
	ApprovedThisMonth   int64                 `json:"approvedThisMonth"`
	NewInquiries        int64                 `json:"newInquiries"`
	StatusHistogram     []StatusSlice         `json:"statusHistogram"`
	RecentApplications  []ApplicationListItem `json:"recentApplications"`
}

type StatusSlice struct {
	Status models.ApplicationStatus `json:"status"`
	Count  int64                    `json:"count"`
}

type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

type PositionCount struct {
	Position string `json:"position"`
	Count    int64  `json:"count"`
}

// Analytics is the chart payload for the admin analytics page.
type Analytics struct {
	JobStatusDistribution  []StatusSlice   `json:"jobStatusDistribution"`
	LoanStatusDistribution []StatusSlice   `json:"loanStatusDistribution"`
	DailyVolume            []DailyCount    `json:"dailyVolume"`
	TopPositions           []PositionCount `json:"topPositions"`
	OverallSuccessRate     float64         `json:"overallSuccessRate"`
	JobSuccessRate         float64         `json:"jobSuccessRate"`
	LoanSuccessRate        float64         `json:"loanSuccessRate"`
	AvgApprovalDays        float64         `json:"avgApprovalDays"`
	TotalInPeriod          int64           `json:"totalInPeriod"`
	TotalUsers             int64           `json:"totalUsers"`
}
