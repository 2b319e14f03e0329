package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atithi_backend/internal/auth"
	"atithi_backend/internal/models"
	"atithi_backend/internal/services"
	"atithi_backend/internal/services/dto"
	"atithi_backend/pkg/apperrors"
)

func TestMyApplications_MergesBothKindsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := services.NewCustomerService(f.userRepo, f.jobRepo, f.loanRepo, f.notificationRepo)

	user := f.seedCustomer(t, "mine@example.com")

	older := f.seedJob(t, &user.ID, "Analyst")
	require.NoError(t, f.db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)

	loan := &models.LoanApplication{
		UserID:         &user.ID,
		Status:         models.ApplicationStatusPending,
		FullName:       "Customer",
		PAN:            "ABCDE1234F",
		Contact:        "9876543210",
		Email:          "mine@example.com",
		Address:        "1 Main Street",
		City:           "Mumbai",
		PostalCode:     "400001",
		Position:       "Engineer",
		MonthlyIncome:  "80000",
		LoanAmount:     "500000",
		NomineeName:    "Nominee",
		NomineeContact: "9123456780",
		NomineeAadhaar: "123412341234",
		Declaration:    true,
		PaymentDetails: []byte(`{"paymentId":"p"}`),
	}
	require.NoError(t, f.loanRepo.Create(ctx, loan))

	// Someone else's application must not leak in.
	stranger := f.seedCustomer(t, "stranger@example.com")
	f.seedJob(t, &stranger.ID, "Clerk")

	apps, err := svc.MyApplications(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, models.ApplicationKindLoan, apps[0].Kind)
	assert.Equal(t, models.ApplicationKindJob, apps[1].Kind)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := services.NewCustomerService(f.userRepo, f.jobRepo, f.loanRepo, f.notificationRepo)

	hash, err := auth.HashPassword("oldpassword")
	require.NoError(t, err)
	user := &models.User{
		FullName:     "Customer",
		Email:        "pw@example.com",
		PasswordHash: hash,
		PhoneNumber:  "1234567890",
		Role:         models.UserRoleCustomer,
	}
	require.NoError(t, f.userRepo.Create(ctx, user))

	err = svc.ChangePassword(ctx, user.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newpassword1",
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidCredentials, appErr.Code)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "oldpassword",
		NewPassword:     "newpassword1",
	}))

	updated, err := f.userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPasswordHash("newpassword1", updated.PasswordHash))
}

func TestDashboard_SummarizesOwnState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := services.NewCustomerService(f.userRepo, f.jobRepo, f.loanRepo, f.notificationRepo)

	user := f.seedCustomer(t, "dashboard@example.com")
	app := f.seedJob(t, &user.ID, "Analyst")
	_, err := f.admin.UpdateApplicationStatus(ctx, models.ApplicationKindJob, app.ID, models.ApplicationStatusInReview)
	require.NoError(t, err)

	dashboard, err := svc.Dashboard(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dashboard.JobApplications)
	assert.Zero(t, dashboard.LoanApplications)
	assert.Equal(t, models.ApplicationStatusInReview, dashboard.LatestJobStatus)
	assert.Empty(t, dashboard.LatestLoanStatus)
	require.Len(t, dashboard.RecentNotifications, 1)
	assert.Contains(t, dashboard.RecentNotifications[0].Text, "In Review")
}

func TestMyApplication_OwnerScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := services.NewCustomerService(f.userRepo, f.jobRepo, f.loanRepo, f.notificationRepo)

	owner := f.seedCustomer(t, "owner2@example.com")
	stranger := f.seedCustomer(t, "stranger2@example.com")
	app := f.seedJob(t, &owner.ID, "Analyst")

	got, err := svc.MyApplication(ctx, owner.ID, models.ApplicationKindJob, app.ID)
	require.NoError(t, err)
	require.IsType(t, &models.JobApplication{}, got)
	assert.Equal(t, app.ID, got.(*models.JobApplication).ID)

	// A mismatched owner looks exactly like a missing id.
	_, err = svc.MyApplication(ctx, stranger.ID, models.ApplicationKindJob, app.ID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)

	_, err = svc.MyApplication(ctx, owner.ID, "mortgage", app.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestDeleteNotification_OwnerScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedCustomer(t, "notif@example.com")
	stranger := f.seedCustomer(t, "intruder@example.com")
	app := f.seedJob(t, &owner.ID, "Analyst")
	_, err := f.admin.UpdateApplicationStatus(ctx, models.ApplicationKindJob, app.ID, models.ApplicationStatusApproved)
	require.NoError(t, err)

	list, err := f.notifications.GetUserNotifications(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	err = f.notifications.Delete(ctx, list[0].ID, stranger.ID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)

	require.NoError(t, f.notifications.Delete(ctx, list[0].ID, owner.ID))
	list, err = f.notifications.GetUserNotifications(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateProfile_IgnoresEmptyFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := services.NewCustomerService(f.userRepo, f.jobRepo, f.loanRepo, f.notificationRepo)

	user := f.seedCustomer(t, "profile@example.com")

	resp, err := svc.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{PhoneNumber: "9999999999"})
	require.NoError(t, err)
	assert.Equal(t, "Customer", resp.FullName)
	assert.Equal(t, "9999999999", resp.PhoneNumber)

	stored, err := f.userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "9999999999", stored.PhoneNumber)
}
