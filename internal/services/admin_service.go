package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"atithi_backend/internal/auth"
	"atithi_backend/internal/models"
	"atithi_backend/internal/repositories"
	"atithi_backend/internal/services/dto"
	"atithi_backend/pkg/apperrors"
)

// AdminService backs the admin dashboard: the status workflow, listings,
// aggregations, user management and the settings singleton.
type AdminService interface {
	UpdateApplicationStatus(ctx context.Context, kind models.ApplicationKind, id string, status models.ApplicationStatus) (*repositories.ApplicationView, error)
	ListApplications(ctx context.Context, kind models.ApplicationKind, status models.ApplicationStatus, search string, page, limit int) ([]dto.ApplicationListItem, dto.Pagination, error)
	ExportApplications(ctx context.Context, kind models.ApplicationKind) (any, error)

	GetDashboardStats(ctx context.Context) (*dto.DashboardStats, error)
	GetAnalytics(ctx context.Context, days int) (*dto.Analytics, error)

	ListUsers(ctx context.Context, search string, page, limit int) ([]dto.UserListItem, dto.Pagination, error)
	GetUserDetails(ctx context.Context, id string) (*dto.UserDetails, error)
	CreateAdmin(ctx context.Context, req *dto.CreateAdminRequest) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (*models.Setting, error)
	UpdateSettings(ctx context.Context, req *dto.UpdateSettingsRequest) (*models.Setting, error)
}

type adminService struct {
	jobRepo         repositories.JobApplicationRepository
	loanRepo        repositories.LoanApplicationRepository
	userRepo        repositories.UserRepository
	inquiryRepo     repositories.InquiryRepository
	settingRepo     repositories.SettingRepository
	notificationSvc NotificationService
}

func NewAdminService(
	jobRepo repositories.JobApplicationRepository,
	loanRepo repositories.LoanApplicationRepository,
	userRepo repositories.UserRepository,
	inquiryRepo repositories.InquiryRepository,
	settingRepo repositories.SettingRepository,
	notificationSvc NotificationService,
) AdminService {
	return &adminService{
		jobRepo:         jobRepo,
		loanRepo:        loanRepo,
		userRepo:        userRepo,
		inquiryRepo:     inquiryRepo,
		settingRepo:     settingRepo,
		notificationSvc: notificationSvc,
	}
}

// repoFor resolves the store for a kind once, so nothing downstream branches
// on the kind string again.
func (s *adminService) repoFor(kind models.ApplicationKind) (repositories.ApplicationRepository, error) {
	switch kind {
	case models.ApplicationKindJob:
		return s.jobRepo, nil
	case models.ApplicationKindLoan:
		return s.loanRepo, nil
	default:
		return nil, apperrors.NewInvalidApplicationKind(string(kind))
	}
}

// UpdateApplicationStatus moves an application to any member of the status
// enum and records the in-app notification for the applicant. The
// notification carries the new status and the application title; guest
// applications get no notification.
func (s *adminService) UpdateApplicationStatus(ctx context.Context, kind models.ApplicationKind, id string, status models.ApplicationStatus) (*repositories.ApplicationView, error) {
	if !models.ValidApplicationStatus(status) {
		return nil, apperrors.NewInvalidApplicationStatus(string(status))
	}

	repo, err := s.repoFor(kind)
	if err != nil {
		return nil, err
	}

	view, err := repo.UpdateStatus(ctx, id, status)
	if errors.Is(err, repositories.ErrApplicationNotFound) {
		return nil, apperrors.NewApplicationNotFound()
	}
	if err != nil {
		return nil, apperrors.InternalError("Failed to update application status", err)
	}

	if err := s.notificationSvc.NotifyStatusChange(ctx, view.UserID, kind, view.Title, status); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *adminService) ListApplications(ctx context.Context, kind models.ApplicationKind, status models.ApplicationStatus, search string, page, limit int) ([]dto.ApplicationListItem, dto.Pagination, error) {
	repo, err := s.repoFor(kind)
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	if status != "" && !models.ValidApplicationStatus(status) {
		return nil, dto.Pagination{}, apperrors.NewInvalidApplicationStatus(string(status))
	}

	views, total, err := repo.FindWithFilter(ctx, repositories.ApplicationCriteria{
		Status: status,
		Search: search,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, dto.Pagination{}, apperrors.InternalError("Failed to fetch applications", err)
	}

	items := make([]dto.ApplicationListItem, 0, len(views))
	for i := range views {
		items = append(items, toListItem(kind, &views[i]))
	}
	return items, dto.NewPagination(page, limit, total), nil
}

func (s *adminService) ExportApplications(ctx context.Context, kind models.ApplicationKind) (any, error) {
	switch kind {
	case models.ApplicationKindJob:
		apps, err := s.jobRepo.ExportAll(ctx)
		if err != nil {
			return nil, apperrors.InternalError("Failed to export applications", err)
		}
		return apps, nil
	case models.ApplicationKindLoan:
		apps, err := s.loanRepo.ExportAll(ctx)
		if err != nil {
			return nil, apperrors.InternalError("Failed to export applications", err)
		}
		return apps, nil
	default:
		return nil, apperrors.NewInvalidApplicationKind(string(kind))
	}
}

func (s *adminService) GetDashboardStats(ctx context.Context) (*dto.DashboardStats, error) {
	totalUsers, err := s.userRepo.CountByRole(ctx, models.UserRoleCustomer)
	if err != nil {
		return nil, apperrors.InternalError("Failed to compute dashboard stats", err)
	}

	jobCount, err := s.jobRepo.Count(ctx)
	if err != nil {
		return nil, apperrors.InternalError("Failed to compute dashboard stats", err)
	}
	loanCount, err := s.loanRepo.Count(ctx)
	if err != nil {
		return nil, apperrors.InternalError("Failed to compute dashboard stats", err)
	}

	histogram, err := s.statusHistogram(ctx)
	if err != nil {
		return nil, err
	}
	var pending int64
	for _, slice := range histogram {
		if slice.Status == models.ApplicationStatusPending {
			pending = slice.Count
		}
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var approvedThisMonth int64
	for _, repo := range []repositories.ApplicationRepository{s.jobRepo, s.loanRepo} {
		n, err := repo.CountApprovedSince(ctx, monthStart)
		if err != nil {
			return nil, apperrors.InternalError("Failed to compute dashboard stats", err)
		}
		approvedThisMonth += n
	}

	_, newInquiries, err := s.inquiryRepo.FindWithFilter(ctx, repositories.InquiryCriteria{
		Status: models.InquiryStatusNew,
		Limit:  1,
	})
	if err != nil {
		return nil, apperrors.InternalError("Failed to compute dashboard stats", err)
	}

	recent, err := s.recentApplications(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStats{
		TotalUsers:          totalUsers,
		TotalApplications:   jobCount + loanCount,
		JobApplications:     jobCount,
		LoanApplications:    loanCount,
		PendingApplications: pending,
		ApprovedThisMonth:   approvedThisMonth,
		NewInquiries:        newInquiries,
		StatusHistogram:     histogram,
		RecentApplications:  recent,
	}, nil
}

// statusHistogram merges the job and loan distributions by status label.
func (s *adminService) statusHistogram(ctx context.Context) ([]dto.StatusSlice, error) {
	merged := make(map[models.ApplicationStatus]int64)
	for _, repo := range []repositories.ApplicationRepository{s.jobRepo, s.loanRepo} {
		dist, err := repo.StatusDistribution(ctx, time.Time{})
		if err != nil {
			return nil, apperrors.InternalError("Failed to compute dashboard stats", err)
		}
		for _, row := range dist {
			merged[row.Status] += row.Count
		}
	}

	histogram := make([]dto.StatusSlice, 0, len(merged))
	for _, status := range models.ApplicationStatuses() {
		if count, ok := merged[status]; ok {
			histogram = append(histogram, dto.StatusSlice{Status: status, Count: count})
		}
	}
	return histogram, nil
}

// recentApplications merges the newest rows of both kinds into one feed.
func (s *adminService) recentApplications(ctx context.Context, limit int) ([]dto.ApplicationListItem, error) {
	jobs, err := s.jobRepo.Recent(ctx, limit)
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch recent applications", err)
	}
	loans, err := s.loanRepo.Recent(ctx, limit)
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch recent applications", err)
	}

	items := make([]dto.ApplicationListItem, 0, len(jobs)+len(loans))
	for i := range jobs {
		items = append(items, toListItem(models.ApplicationKindJob, &jobs[i]))
	}
	for i := range loans {
		items = append(items, toListItem(models.ApplicationKindLoan, &loans[i]))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// GetAnalytics aggregates the chart payload over the given trailing window.
// Every aggregate honors the window, only applications submitted inside it
// count. The average approval latency is a single mean over every approved
// application of both kinds, so a kind with more approvals weighs more.
func (s *adminService) GetAnalytics(ctx context.Context, days int) (*dto.Analytics, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	jobDist, err := s.jobRepo.StatusDistribution(ctx, since)
	if err != nil {
		return nil, apperrors.InternalError("Failed to compute analytics", err)
	}
	loanDist, err := s.loanRepo.StatusDistribution(ctx, since)
	if err != nil {
		return nil, apperrors.InternalError("Failed to compute analytics", err)
	}

	jobStats, err := s.jobRepo.SuccessStats(ctx, since)
	if err != nil {
		return nil, apperrors.InternalError("Failed to compute analytics", err)
	}
	loanStats, err := s.loanRepo.SuccessStats(ctx, since)
	if err != nil {
		return nil, apperrors.InternalError("Failed to compute analytics", err)
	}

	jobLatencies, err := s.jobRepo.ApprovalLatencies(ctx, since)
	if err != nil {
		return nil, apperrors.InternalError("Failed to compute analytics", err)
	}
	loanLatencies, err := s.loanRepo.ApprovalLatencies(ctx, since)
	if err != nil {
		return nil, apperrors.InternalError("Failed to compute analytics", err)
	}

	jobStamps, err := s.jobRepo.CreatedTimestamps(ctx, since)
	if err != nil {
		return nil, apperrors.InternalError("Failed to compute analytics", err)
	}
	loanStamps, err := s.loanRepo.CreatedTimestamps(ctx, since)
	if err != nil {
		return nil, apperrors.InternalError("Failed to compute analytics", err)
	}

	topPositions, err := s.jobRepo.TopPositions(ctx, since, 5)
	if err != nil {
		return nil, apperrors.InternalError("Failed to compute analytics", err)
	}

	totalUsers, err := s.userRepo.CountByRole(ctx, models.UserRoleCustomer)
	if err != nil {
		return nil, apperrors.InternalError("Failed to compute analytics", err)
	}

	return &dto.Analytics{
		JobStatusDistribution:  toSlices(jobDist),
		LoanStatusDistribution: toSlices(loanDist),
		DailyVolume:            bucketByDay(append(jobStamps, loanStamps...)),
		TopPositions:           toPositionCounts(topPositions),
		OverallSuccessRate:     successRate(jobStats.Approved+loanStats.Approved, jobStats.Rejected+loanStats.Rejected),
		JobSuccessRate:         successRate(jobStats.Approved, jobStats.Rejected),
		LoanSuccessRate:        successRate(loanStats.Approved, loanStats.Rejected),
		AvgApprovalDays:        mean(append(jobLatencies, loanLatencies...)),
		TotalInPeriod:          int64(len(jobStamps) + len(loanStamps)),
		TotalUsers:             totalUsers,
	}, nil
}

func (s *adminService) ListUsers(ctx context.Context, search string, page, limit int) ([]dto.UserListItem, dto.Pagination, error) {
	users, total, err := s.userRepo.FindWithFilter(ctx, repositories.UserCriteria{
		Role:   models.UserRoleCustomer,
		Search: search,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, dto.Pagination{}, apperrors.InternalError("Failed to fetch users", err)
	}

	ids := make([]string, 0, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
	}
	counts, err := s.userRepo.CountApplicationsByUser(ctx, ids)
	if err != nil {
		return nil, dto.Pagination{}, apperrors.InternalError("Failed to fetch users", err)
	}

	items := make([]dto.UserListItem, 0, len(users))
	for i := range users {
		items = append(items, dto.UserListItem{
			ID:               users[i].ID,
			FullName:         users[i].FullName,
			Email:            users[i].Email,
			PhoneNumber:      users[i].PhoneNumber,
			Role:             users[i].Role,
			ApplicationCount: counts[users[i].ID],
			CreatedAt:        users[i].CreatedAt,
		})
	}
	return items, dto.NewPagination(page, limit, total), nil
}

// GetUserDetails returns the account together with every submission of both
// kinds, newest first.
func (s *adminService) GetUserDetails(ctx context.Context, id string) (*dto.UserDetails, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.NewUserNotFound()
	}
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch user", err)
	}

	jobs, err := s.jobRepo.GetByUser(ctx, id)
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch user applications", err)
	}
	loans, err := s.loanRepo.GetByUser(ctx, id)
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch user applications", err)
	}

	return &dto.UserDetails{
		User:             dto.NewUserResponse(user),
		JobApplications:  jobs,
		LoanApplications: loans,
	}, nil
}

func (s *adminService) CreateAdmin(ctx context.Context, req *dto.CreateAdminRequest) (*dto.UserResponse, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.NewEmailAlreadyExists()
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError("Failed to check existing account", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError("Failed to hash password", err)
	}

	user := &models.User{
		FullName:        req.FullName,
		Email:           req.Email,
		PasswordHash:    hash,
		PhoneNumber:     req.PhoneNumber,
		Role:            models.UserRoleAdmin,
		IsEmailVerified: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.InternalError("Failed to create admin account", err)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.NewUserNotFound()
	}
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch user", err)
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Role != "" {
		user.Role = req.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperrors.InternalError("Failed to update user", err)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// DeleteUser removes the account and everything it submitted. Applications go
// first so a failed user delete never strands orphaned rows unnoticed.
func (s *adminService) DeleteUser(ctx context.Context, id string) error {
	if err := s.jobRepo.DeleteByUser(ctx, id); err != nil {
		return apperrors.InternalError("Failed to delete user applications", err)
	}
	if err := s.loanRepo.DeleteByUser(ctx, id); err != nil {
		return apperrors.InternalError("Failed to delete user applications", err)
	}

	err := s.userRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.NewUserNotFound()
	}
	if err != nil {
		return apperrors.InternalError("Failed to delete user", err)
	}
	return nil
}

func (s *adminService) GetSettings(ctx context.Context) (*models.Setting, error) {
	setting, err := s.settingRepo.Get(ctx)
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch settings", err)
	}
	return setting, nil
}

func (s *adminService) UpdateSettings(ctx context.Context, req *dto.UpdateSettingsRequest) (*models.Setting, error) {
	patch := map[string]any{}
	if req.SiteName != nil {
		patch["site_name"] = *req.SiteName
	}
	if req.MaintenanceMode != nil {
		patch["maintenance_mode"] = *req.MaintenanceMode
	}
	if req.ApplicationFee != nil {
		patch["application_fee"] = *req.ApplicationFee
	}

	setting, err := s.settingRepo.Update(ctx, patch)
	if err != nil {
		return nil, apperrors.InternalError("Failed to update settings", err)
	}
	return setting, nil
}

// --- helpers ---

func toListItem(kind models.ApplicationKind, view *repositories.ApplicationView) dto.ApplicationListItem {
	return dto.ApplicationListItem{
		ID:        view.ID,
		Kind:      kind,
		Applicant: view.FullName,
		Email:     view.Email,
		Title:     view.Title,
		Status:    view.Status,
		Guest:     view.UserID == nil,
		CreatedAt: view.CreatedAt,
		UpdatedAt: view.UpdatedAt,
	}
}

func toSlices(dist []repositories.StatusCount) []dto.StatusSlice {
	slices := make([]dto.StatusSlice, 0, len(dist))
	for _, row := range dist {
		slices = append(slices, dto.StatusSlice{Status: row.Status, Count: row.Count})
	}
	return slices
}

func toPositionCounts(rows []repositories.PositionCount) []dto.PositionCount {
	counts := make([]dto.PositionCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, dto.PositionCount{Position: row.Position, Count: row.Count})
	}
	return counts
}

// successRate is approved over decided, as a percentage. Pending and
// in-review applications do not count against the rate.
func successRate(approved, rejected int64) float64 {
	decided := approved + rejected
	if decided == 0 {
		return 0
	}
	return float64(approved) / float64(decided) * 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func bucketByDay(stamps []time.Time) []dto.DailyCount {
	counts := make(map[string]int64)
	for _, t := range stamps {
		counts[t.Format("2006-01-02")]++
	}
	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]dto.DailyCount, 0, len(days))
	for _, day := range days {
		out = append(out, dto.DailyCount{Date: day, Count: counts[day]})
	}
	return out
}
