package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atithi_backend/internal/models"
	"atithi_backend/internal/repositories"
	"atithi_backend/internal/services"
	"atithi_backend/internal/services/dto"
	"atithi_backend/internal/testutil"
	"atithi_backend/pkg/apperrors"
	"gorm.io/gorm"
)

type fixture struct {
	db               *gorm.DB
	userRepo         repositories.UserRepository
	jobRepo          repositories.JobApplicationRepository
	loanRepo         repositories.LoanApplicationRepository
	notificationRepo repositories.NotificationRepository
	mailer           *testutil.RecordingMailer
	admin            services.AdminService
	inquiry          services.InquiryService
	apps             services.ApplicationService
	notifications    services.NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	cfg := testutil.TestConfig()
	mailer := &testutil.RecordingMailer{}

	userRepo := repositories.NewUserRepository(db)
	jobRepo := repositories.NewJobApplicationRepository(db)
	loanRepo := repositories.NewLoanApplicationRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	inquiryRepo := repositories.NewInquiryRepository(db)
	settingRepo := repositories.NewSettingRepository(db)

	notificationSvc := services.NewNotificationService(notificationRepo)

	return &fixture{
		db:               db,
		userRepo:         userRepo,
		jobRepo:          jobRepo,
		loanRepo:         loanRepo,
		notificationRepo: notificationRepo,
		mailer:           mailer,
		admin:            services.NewAdminService(jobRepo, loanRepo, userRepo, inquiryRepo, settingRepo, notificationSvc),
		inquiry:          services.NewInquiryService(inquiryRepo, mailer, cfg),
		apps:             services.NewApplicationService(jobRepo, loanRepo, mailer, cfg),
		notifications:    notificationSvc,
	}
}

func (f *fixture) seedCustomer(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{
		FullName:     "Customer",
		Email:        email,
		PasswordHash: "x",
		PhoneNumber:  "1234567890",
		Role:         models.UserRoleCustomer,
	}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	return user
}

func (f *fixture) seedJob(t *testing.T, userID *string, position string) *models.JobApplication {
	t.Helper()
	app := &models.JobApplication{
		UserID:          userID,
		Status:          models.ApplicationStatusPending,
		FullName:        "Test Applicant",
		Address:         "1 Main Street",
		City:            "Mumbai",
		State:           "MH",
		Zip:             "400001",
		Phone:           "9876543210",
		Email:           "applicant@example.com",
		Position:        position,
		ExpectedSalary:  "50000",
		Experience:      3,
		CurrentLocation: "Mumbai",
		PreferLocation:  "Pune",
		Declaration:     true,
		PaymentDetails:  models.PaymentDetails{OrderID: "o", PaymentID: "p", Amount: 450},
	}
	require.NoError(t, f.jobRepo.Create(context.Background(), app))
	return app
}

func (f *fixture) seedLoan(t *testing.T, userID *string, purpose string) *models.LoanApplication {
	t.Helper()
	app := &models.LoanApplication{
		UserID:         userID,
		Status:         models.ApplicationStatusPending,
		FullName:       "Test Applicant",
		PAN:            "ABCDE1234F",
		Contact:        "9876543210",
		Email:          "applicant@example.com",
		Address:        "1 Main Street",
		City:           "Mumbai",
		PostalCode:     "400001",
		Position:       "Engineer",
		MonthlyIncome:  "80000",
		LoanAmount:     "500000",
		LoanPurpose:    purpose,
		NomineeName:    "Nominee",
		NomineeContact: "9123456780",
		NomineeAadhaar: "123412341234",
		Declaration:    true,
		PaymentDetails: []byte(`{"orderId":"o","paymentId":"p","amount":450}`),
	}
	require.NoError(t, f.loanRepo.Create(context.Background(), app))
	return app
}

func TestUpdateApplicationStatus_NotifiesOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.seedCustomer(t, "owner@example.com")
	app := f.seedJob(t, &user.ID, "Analyst")

	view, err := f.admin.UpdateApplicationStatus(ctx, models.ApplicationKindJob, app.ID, models.ApplicationStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, view.Status)

	var notifications []models.Notification
	require.NoError(t, f.db.Where("user_id = ?", user.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Text, "Approved")
	assert.Contains(t, notifications[0].Text, "Analyst")
	assert.Equal(t, models.NotificationTypeUpdate, notifications[0].Type)
	assert.False(t, notifications[0].Read)
}

func TestUpdateApplicationStatus_LoanNotificationCarriesPurpose(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.seedCustomer(t, "borrower@example.com")
	app := f.seedLoan(t, &user.ID, "Home renovation")

	_, err := f.admin.UpdateApplicationStatus(ctx, models.ApplicationKindLoan, app.ID, models.ApplicationStatusApproved)
	require.NoError(t, err)

	var notifications []models.Notification
	require.NoError(t, f.db.Where("user_id = ?", user.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Text, "Home renovation")
	assert.Contains(t, notifications[0].Text, "Approved")
	assert.NotContains(t, notifications[0].Text, "500000")

	// A row without a purpose falls back to the amount label.
	blank := f.seedLoan(t, &user.ID, "")
	_, err = f.admin.UpdateApplicationStatus(ctx, models.ApplicationKindLoan, blank.ID, models.ApplicationStatusInReview)
	require.NoError(t, err)

	require.NoError(t, f.db.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&notifications).Error)
	require.Len(t, notifications, 2)
	assert.Contains(t, notifications[0].Text, "Loan of 500000")
}

func TestUpdateApplicationStatus_GuestGetsNoNotification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	app := f.seedJob(t, nil, "Analyst")

	_, err := f.admin.UpdateApplicationStatus(ctx, models.ApplicationKindJob, app.ID, models.ApplicationStatusRejected)
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUpdateApplicationStatus_RejectsUnknownStatusAndKind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	app := f.seedJob(t, nil, "Analyst")

	_, err := f.admin.UpdateApplicationStatus(ctx, models.ApplicationKindJob, app.ID, "Archived")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)

	_, err = f.admin.UpdateApplicationStatus(ctx, "mortgage", app.ID, models.ApplicationStatusApproved)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	_, err = f.admin.UpdateApplicationStatus(ctx, models.ApplicationKindJob, "missing", models.ApplicationStatusApproved)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestGetAnalytics_SuccessRate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		app := f.seedJob(t, nil, "Analyst")
		_, err := f.admin.UpdateApplicationStatus(ctx, models.ApplicationKindJob, app.ID, models.ApplicationStatusApproved)
		require.NoError(t, err)
	}
	rejected := f.seedJob(t, nil, "Clerk")
	_, err := f.admin.UpdateApplicationStatus(ctx, models.ApplicationKindJob, rejected.ID, models.ApplicationStatusRejected)
	require.NoError(t, err)

	// Pending rows do not count against the rate.
	f.seedJob(t, nil, "Peon")

	analytics, err := f.admin.GetAnalytics(ctx, 30)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, analytics.OverallSuccessRate, 0.001)
	assert.InDelta(t, 75.0, analytics.JobSuccessRate, 0.001)
	assert.Zero(t, analytics.LoanSuccessRate)
	assert.NotEmpty(t, analytics.DailyVolume)
}

func TestGetAnalytics_WindowExcludesOldDecisions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Approved well outside the 30-day window.
	old := f.seedJob(t, nil, "Analyst")
	_, err := f.admin.UpdateApplicationStatus(ctx, models.ApplicationKindJob, old.ID, models.ApplicationStatusApproved)
	require.NoError(t, err)
	require.NoError(t, f.db.Model(old).UpdateColumns(map[string]any{
		"created_at": time.Now().AddDate(0, 0, -100),
		"updated_at": time.Now().AddDate(0, 0, -99),
	}).Error)

	recent := f.seedJob(t, nil, "Clerk")
	_, err = f.admin.UpdateApplicationStatus(ctx, models.ApplicationKindJob, recent.ID, models.ApplicationStatusRejected)
	require.NoError(t, err)

	analytics, err := f.admin.GetAnalytics(ctx, 30)
	require.NoError(t, err)

	// Only the recent rejection counts, so the rate is 0, not 50.
	assert.Zero(t, analytics.OverallSuccessRate)
	assert.Zero(t, analytics.AvgApprovalDays)
	assert.Equal(t, int64(1), analytics.TotalInPeriod)
	require.Len(t, analytics.TopPositions, 1)
	assert.Equal(t, "Clerk", analytics.TopPositions[0].Position)
	require.Len(t, analytics.JobStatusDistribution, 1)
	assert.Equal(t, models.ApplicationStatusRejected, analytics.JobStatusDistribution[0].Status)
}

func TestListUsers_BatchesApplicationCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	busy := f.seedCustomer(t, "busy@example.com")
	f.seedCustomer(t, "idle@example.com")
	f.seedJob(t, &busy.ID, "Analyst")
	f.seedJob(t, &busy.ID, "Clerk")
	f.seedLoan(t, &busy.ID, "Car purchase")

	items, _, err := f.admin.ListUsers(ctx, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byEmail := make(map[string]int64, len(items))
	for _, item := range items {
		byEmail[item.Email] = item.ApplicationCount
	}
	assert.Equal(t, int64(3), byEmail["busy@example.com"])
	assert.Zero(t, byEmail["idle@example.com"])
}

func TestInquiryReply_FlipsStatusOnlyAfterDelivery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.inquiry.Submit(ctx, &dto.ContactRequest{
		Name:    "Guest",
		Email:   "guest@example.com",
		Phone:   "9876543210",
		Subject: "Visa help",
		Message: "Please call me back",
	})
	require.NoError(t, err)
	assert.Equal(t, models.InquiryStatusNew, created.Status)

	// Delivery failure: status stays New and the error surfaces.
	f.mailer.Fail = true
	_, err = f.inquiry.Reply(ctx, created.ID, "We will call you today.")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)

	var stored models.ContactInquiry
	require.NoError(t, f.db.First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, models.InquiryStatusNew, stored.Status)

	// Retry succeeds and flips the status.
	f.mailer.Fail = false
	replied, err := f.inquiry.Reply(ctx, created.ID, "We will call you today.")
	require.NoError(t, err)
	assert.Equal(t, models.InquiryStatusReplied, replied.Status)

	require.NoError(t, f.db.First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, models.InquiryStatusReplied, stored.Status)

	last := f.mailer.Last()
	assert.Equal(t, "guest@example.com", last.To)
	assert.Contains(t, last.Body, "We will call you today.")
}

func TestSubmitJob_RequiresPaymentAndDeclaration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := &dto.SubmitJobApplicationRequest{
		FullName:        "Guest Applicant",
		Address:         "1 Main Street",
		City:            "Mumbai",
		State:           "MH",
		Zip:             "400001",
		Phone:           "9876543210",
		Email:           "guest@example.com",
		Position:        "Analyst",
		ExpectedSalary:  "50000",
		CurrentLocation: "Mumbai",
		PreferLocation:  "Pune",
		Declaration:     false,
		PaymentDetails:  &dto.PaymentDetailsRequest{OrderID: "o", PaymentID: "p", Amount: 450},
	}

	_, err := f.apps.SubmitJob(ctx, nil, req)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	req.Declaration = true
	req.PaymentDetails = nil
	_, err = f.apps.SubmitJob(ctx, nil, req)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	req.PaymentDetails = &dto.PaymentDetailsRequest{OrderID: "o", PaymentID: "p", Amount: 450}
	app, err := f.apps.SubmitJob(ctx, nil, req)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	assert.Nil(t, app.UserID)

	// Guest submission: applicant confirmation plus admin alert.
	assert.Equal(t, 2, f.mailer.Count())
}

func TestSubmitJob_EmailFailureDoesNotFailSubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mailer.Fail = true

	user := f.seedCustomer(t, "cust@example.com")
	req := &dto.SubmitJobApplicationRequest{
		FullName:        "Customer",
		Address:         "1 Main Street",
		City:            "Mumbai",
		State:           "MH",
		Zip:             "400001",
		Phone:           "9876543210",
		Email:           "cust@example.com",
		Position:        "Analyst",
		ExpectedSalary:  "50000",
		CurrentLocation: "Mumbai",
		PreferLocation:  "Pune",
		Declaration:     true,
		PaymentDetails:  &dto.PaymentDetailsRequest{OrderID: "o", PaymentID: "p", Amount: 450},
	}

	app, err := f.apps.SubmitJob(ctx, &user.ID, req)
	require.NoError(t, err)
	require.NotNil(t, app.UserID)
	assert.Equal(t, user.ID, *app.UserID)
}

func TestGetDashboardStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.seedCustomer(t, "dash@example.com")
	f.seedJob(t, &user.ID, "Analyst")
	approved := f.seedJob(t, nil, "Clerk")
	_, err := f.admin.UpdateApplicationStatus(ctx, models.ApplicationKindJob, approved.ID, models.ApplicationStatusApproved)
	require.NoError(t, err)

	stats, err := f.admin.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalApplications)
	assert.Equal(t, int64(1), stats.PendingApplications)
	assert.Equal(t, int64(1), stats.ApprovedThisMonth)
	require.Len(t, stats.StatusHistogram, 2)
	assert.Equal(t, models.ApplicationStatusPending, stats.StatusHistogram[0].Status)
	assert.Len(t, stats.RecentApplications, 2)
}

func TestCreateAdmin_DuplicateEmailConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := &dto.CreateAdminRequest{
		FullName:    "Second Admin",
		Email:       "admin2@example.com",
		Password:    "supersecret1",
		PhoneNumber: "9876543210",
	}
	created, err := f.admin.CreateAdmin(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleAdmin, created.Role)

	_, err = f.admin.CreateAdmin(ctx, req)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.Equal(t, 409, appErr.HTTPCode)
}

func TestDeleteUser_RemovesApplications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.seedCustomer(t, "gone@example.com")
	f.seedJob(t, &user.ID, "Analyst")
	f.seedJob(t, &user.ID, "Clerk")
	survivor := f.seedJob(t, nil, "Peon")

	require.NoError(t, f.admin.DeleteUser(ctx, user.ID))

	var count int64
	require.NoError(t, f.db.Model(&models.JobApplication{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var remaining models.JobApplication
	require.NoError(t, f.db.First(&remaining, "id = ?", survivor.ID).Error)

	_, err := f.userRepo.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestGetUserDetails_IncludesBothKinds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.seedCustomer(t, "detail@example.com")
	f.seedJob(t, &user.ID, "Analyst")

	details, err := f.admin.GetUserDetails(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, details.User.ID)
	assert.Len(t, details.JobApplications, 1)
	assert.Empty(t, details.LoanApplications)

	_, err = f.admin.GetUserDetails(ctx, "missing")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestListUsers_PaginationEnvelope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		f.seedCustomer(t, fmt.Sprintf("customer%02d@example.com", i))
	}

	items, pagination, err := f.admin.ListUsers(ctx, "", 2, 5)
	require.NoError(t, err)
	assert.Len(t, items, 5)
	assert.Equal(t, 2, pagination.CurrentPage)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.Equal(t, int64(12), pagination.TotalDocuments)
}
