package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"atithi_backend/internal/models"
)

var ErrApplicationNotFound = errors.New("application not found")

// ApplicationView is the kind-agnostic projection used by status updates,
// dashboards and the admin listing. Title is the position for job
// applications and the loan purpose for loan applications.
type ApplicationView struct {
	ID        string
	UserID    *string
	Title     string
	FullName  string
	Email     string
	Status    models.ApplicationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplicationCriteria narrows admin application listings. Search matches the
// applicant snapshot name and email, case-insensitively.
type ApplicationCriteria struct {
	Status models.ApplicationStatus
	Search string
	Offset int
	Limit  int
}

type StatusCount struct {
	Status models.ApplicationStatus
	Count  int64
}

// SuccessStats counts decided applications for success-rate reporting.
type SuccessStats struct {
	Approved int64
	Rejected int64
}

// PositionCount is one row of the top-positions ranking.
type PositionCount struct {
	Position string
	Count    int64
}

// ApplicationRepository is the per-kind store behind every operation that
// does not depend on form fields. Callers resolve the right implementation
// by kind once and work against this interface.
type ApplicationRepository interface {
	Kind() models.ApplicationKind
	FindByID(ctx context.Context, id string) (*ApplicationView, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) (*ApplicationView, error)
	FindWithFilter(ctx context.Context, criteria ApplicationCriteria) ([]ApplicationView, int64, error)
	FindByUser(ctx context.Context, userID string) ([]ApplicationView, error)
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountApprovedSince(ctx context.Context, since time.Time) (int64, error)
	DeleteByUser(ctx context.Context, userID string) error
	Recent(ctx context.Context, limit int) ([]ApplicationView, error)
	StatusDistribution(ctx context.Context, since time.Time) ([]StatusCount, error)
	SuccessStats(ctx context.Context, since time.Time) (SuccessStats, error)
	ApprovalLatencies(ctx context.Context, since time.Time) ([]float64, error)
	CreatedTimestamps(ctx context.Context, since time.Time) ([]time.Time, error)
}

// JobApplicationRepository adds the operations that need the full job form.
type JobApplicationRepository interface {
	ApplicationRepository
	Create(ctx context.Context, app *models.JobApplication) error
	GetByID(ctx context.Context, id string) (*models.JobApplication, error)
	GetByUser(ctx context.Context, userID string) ([]models.JobApplication, error)
	ExportAll(ctx context.Context) ([]models.JobApplication, error)
	TopPositions(ctx context.Context, since time.Time, limit int) ([]PositionCount, error)
}

type LoanApplicationRepository interface {
	ApplicationRepository
	Create(ctx context.Context, app *models.LoanApplication) error
	GetByID(ctx context.Context, id string) (*models.LoanApplication, error)
	GetByUser(ctx context.Context, userID string) ([]models.LoanApplication, error)
	ExportAll(ctx context.Context) ([]models.LoanApplication, error)
}

type jobApplicationRepositoryImpl struct {
	db *gorm.DB
}

type loanApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewJobApplicationRepository(db *gorm.DB) JobApplicationRepository {
	return &jobApplicationRepositoryImpl{db: db}
}

func NewLoanApplicationRepository(db *gorm.DB) LoanApplicationRepository {
	return &loanApplicationRepositoryImpl{db: db}
}

func (r *jobApplicationRepositoryImpl) Kind() models.ApplicationKind  { return models.ApplicationKindJob }
func (r *loanApplicationRepositoryImpl) Kind() models.ApplicationKind { return models.ApplicationKindLoan }

func (r *jobApplicationRepositoryImpl) Create(ctx context.Context, app *models.JobApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *loanApplicationRepositoryImpl) Create(ctx context.Context, app *models.LoanApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *jobApplicationRepositoryImpl) GetByID(ctx context.Context, id string) (*models.JobApplication, error) {
	var app models.JobApplication
	err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *loanApplicationRepositoryImpl) GetByID(ctx context.Context, id string) (*models.LoanApplication, error) {
	var app models.LoanApplication
	err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *jobApplicationRepositoryImpl) GetByUser(ctx context.Context, userID string) ([]models.JobApplication, error) {
	var apps []models.JobApplication
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *loanApplicationRepositoryImpl) GetByUser(ctx context.Context, userID string) ([]models.LoanApplication, error) {
	var apps []models.LoanApplication
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *jobApplicationRepositoryImpl) ExportAll(ctx context.Context) ([]models.JobApplication, error) {
	var apps []models.JobApplication
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&apps).Error
	return apps, err
}

func (r *loanApplicationRepositoryImpl) ExportAll(ctx context.Context) ([]models.LoanApplication, error) {
	var apps []models.LoanApplication
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&apps).Error
	return apps, err
}

func (r *jobApplicationRepositoryImpl) FindByID(ctx context.Context, id string) (*ApplicationView, error) {
	app, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return jobView(app), nil
}

func (r *loanApplicationRepositoryImpl) FindByID(ctx context.Context, id string) (*ApplicationView, error) {
	app, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return loanView(app), nil
}

func (r *jobApplicationRepositoryImpl) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) (*ApplicationView, error) {
	if err := updateStatus(ctx, r.db, &models.JobApplication{}, id, status); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *loanApplicationRepositoryImpl) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) (*ApplicationView, error) {
	if err := updateStatus(ctx, r.db, &models.LoanApplication{}, id, status); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func updateStatus(ctx context.Context, db *gorm.DB, model any, id string, status models.ApplicationStatus) error {
	res := db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *jobApplicationRepositoryImpl) FindWithFilter(ctx context.Context, criteria ApplicationCriteria) ([]ApplicationView, int64, error) {
	query := filterApplications(r.db.WithContext(ctx).Model(&models.JobApplication{}), criteria)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []models.JobApplication
	err := query.Order("created_at DESC").
		Offset(criteria.Offset).
		Limit(criteria.Limit).
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}

	views := make([]ApplicationView, 0, len(apps))
	for i := range apps {
		views = append(views, *jobView(&apps[i]))
	}
	return views, total, nil
}

func (r *loanApplicationRepositoryImpl) FindWithFilter(ctx context.Context, criteria ApplicationCriteria) ([]ApplicationView, int64, error) {
	query := filterApplications(r.db.WithContext(ctx).Model(&models.LoanApplication{}), criteria)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []models.LoanApplication
	err := query.Order("created_at DESC").
		Offset(criteria.Offset).
		Limit(criteria.Limit).
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}

	views := make([]ApplicationView, 0, len(apps))
	for i := range apps {
		views = append(views, *loanView(&apps[i]))
	}
	return views, total, nil
}

func filterApplications(query *gorm.DB, criteria ApplicationCriteria) *gorm.DB {
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.Search != "" {
		pattern := "%" + criteria.Search + "%"
		query = query.Where("LOWER(full_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern)
	}
	return query
}

func (r *jobApplicationRepositoryImpl) FindByUser(ctx context.Context, userID string) ([]ApplicationView, error) {
	apps, err := r.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]ApplicationView, 0, len(apps))
	for i := range apps {
		views = append(views, *jobView(&apps[i]))
	}
	return views, nil
}

func (r *loanApplicationRepositoryImpl) FindByUser(ctx context.Context, userID string) ([]ApplicationView, error) {
	apps, err := r.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]ApplicationView, 0, len(apps))
	for i := range apps {
		views = append(views, *loanView(&apps[i]))
	}
	return views, nil
}

func (r *jobApplicationRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.JobApplication{}).Count(&count).Error
	return count, err
}

func (r *loanApplicationRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LoanApplication{}).Count(&count).Error
	return count, err
}

func (r *jobApplicationRepositoryImpl) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.JobApplication{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *loanApplicationRepositoryImpl) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LoanApplication{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *jobApplicationRepositoryImpl) CountApprovedSince(ctx context.Context, since time.Time) (int64, error) {
	return countApprovedSince(ctx, r.db, &models.JobApplication{}, since)
}

func (r *loanApplicationRepositoryImpl) CountApprovedSince(ctx context.Context, since time.Time) (int64, error) {
	return countApprovedSince(ctx, r.db, &models.LoanApplication{}, since)
}

// Approval time is the last update of an approved row.
func countApprovedSince(ctx context.Context, db *gorm.DB, model any, since time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(model).
		Where("status = ? AND updated_at >= ?", models.ApplicationStatusApproved, since).
		Count(&count).Error
	return count, err
}

func (r *jobApplicationRepositoryImpl) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.JobApplication{}).Error
}

func (r *loanApplicationRepositoryImpl) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.LoanApplication{}).Error
}

func (r *jobApplicationRepositoryImpl) TopPositions(ctx context.Context, since time.Time, limit int) ([]PositionCount, error) {
	var rows []PositionCount
	err := windowed(r.db.WithContext(ctx).Model(&models.JobApplication{}), since).
		Select("position, COUNT(*) AS count").
		Group("position").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *jobApplicationRepositoryImpl) Recent(ctx context.Context, limit int) ([]ApplicationView, error) {
	var apps []models.JobApplication
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&apps).Error
	if err != nil {
		return nil, err
	}
	views := make([]ApplicationView, 0, len(apps))
	for i := range apps {
		views = append(views, *jobView(&apps[i]))
	}
	return views, nil
}

func (r *loanApplicationRepositoryImpl) Recent(ctx context.Context, limit int) ([]ApplicationView, error) {
	var apps []models.LoanApplication
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&apps).Error
	if err != nil {
		return nil, err
	}
	views := make([]ApplicationView, 0, len(apps))
	for i := range apps {
		views = append(views, *loanView(&apps[i]))
	}
	return views, nil
}

// windowed limits an aggregation to applications submitted after since. A
// zero since means all time, which is what the dashboard histogram wants.
func windowed(db *gorm.DB, since time.Time) *gorm.DB {
	if since.IsZero() {
		return db
	}
	return db.Where("created_at >= ?", since)
}

func (r *jobApplicationRepositoryImpl) StatusDistribution(ctx context.Context, since time.Time) ([]StatusCount, error) {
	return statusDistribution(ctx, r.db, &models.JobApplication{}, since)
}

func (r *loanApplicationRepositoryImpl) StatusDistribution(ctx context.Context, since time.Time) ([]StatusCount, error) {
	return statusDistribution(ctx, r.db, &models.LoanApplication{}, since)
}

func statusDistribution(ctx context.Context, db *gorm.DB, model any, since time.Time) ([]StatusCount, error) {
	var rows []StatusCount
	err := windowed(db.WithContext(ctx).Model(model), since).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *jobApplicationRepositoryImpl) SuccessStats(ctx context.Context, since time.Time) (SuccessStats, error) {
	return successStats(ctx, r.db, &models.JobApplication{}, since)
}

func (r *loanApplicationRepositoryImpl) SuccessStats(ctx context.Context, since time.Time) (SuccessStats, error) {
	return successStats(ctx, r.db, &models.LoanApplication{}, since)
}

func successStats(ctx context.Context, db *gorm.DB, model any, since time.Time) (SuccessStats, error) {
	var stats SuccessStats
	err := windowed(db.WithContext(ctx).Model(model), since).
		Select(
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS approved, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS rejected",
			models.ApplicationStatusApproved, models.ApplicationStatusRejected,
		).
		Scan(&stats).Error
	return stats, err
}

// ApprovalLatencies returns the created-to-last-update span in days for every
// approved application. The division happens in Go to keep the query portable
// across Postgres and the sqlite test database.
func (r *jobApplicationRepositoryImpl) ApprovalLatencies(ctx context.Context, since time.Time) ([]float64, error) {
	return approvalLatencies(ctx, r.db, &models.JobApplication{}, since)
}

func (r *loanApplicationRepositoryImpl) ApprovalLatencies(ctx context.Context, since time.Time) ([]float64, error) {
	return approvalLatencies(ctx, r.db, &models.LoanApplication{}, since)
}

func approvalLatencies(ctx context.Context, db *gorm.DB, model any, since time.Time) ([]float64, error) {
	var spans []struct {
		CreatedAt time.Time
		UpdatedAt time.Time
	}
	err := windowed(db.WithContext(ctx).Model(model), since).
		Select("created_at, updated_at").
		Where("status = ?", models.ApplicationStatusApproved).
		Scan(&spans).Error
	if err != nil {
		return nil, err
	}
	latencies := make([]float64, 0, len(spans))
	for _, s := range spans {
		latencies = append(latencies, s.UpdatedAt.Sub(s.CreatedAt).Hours()/24)
	}
	return latencies, nil
}

func (r *jobApplicationRepositoryImpl) CreatedTimestamps(ctx context.Context, since time.Time) ([]time.Time, error) {
	return createdTimestamps(ctx, r.db, &models.JobApplication{}, since)
}

func (r *loanApplicationRepositoryImpl) CreatedTimestamps(ctx context.Context, since time.Time) ([]time.Time, error) {
	return createdTimestamps(ctx, r.db, &models.LoanApplication{}, since)
}

func createdTimestamps(ctx context.Context, db *gorm.DB, model any, since time.Time) ([]time.Time, error) {
	var stamps []time.Time
	err := db.WithContext(ctx).Model(model).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Pluck("created_at", &stamps).Error
	return stamps, err
}

func jobView(app *models.JobApplication) *ApplicationView {
	return &ApplicationView{
		ID:        app.ID,
		UserID:    app.UserID,
		Title:     app.Position,
		FullName:  app.FullName,
		Email:     app.Email,
		Status:    app.Status,
		CreatedAt: app.CreatedAt,
		UpdatedAt: app.UpdatedAt,
	}
}

func loanView(app *models.LoanApplication) *ApplicationView {
	return &ApplicationView{
		ID:        app.ID,
		UserID:    app.UserID,
		Title:     app.Title(),
		FullName:  app.FullName,
		Email:     app.Email,
		Status:    app.Status,
		CreatedAt: app.CreatedAt,
		UpdatedAt: app.UpdatedAt,
	}
}
