package testutil

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"atithi_backend/internal/config"
	"atithi_backend/internal/models"
)

// NewTestDB opens a fresh in-memory database with all models migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache memory database keeps the pool's connections on
	// the same data while staying private to the test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.TempUser{},
		&models.JobApplication{},
		&models.LoanApplication{},
		&models.Notification{},
		&models.ContactInquiry{},
		&models.Setting{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// SentEmail is one message captured by RecordingMailer.
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// RecordingMailer captures outgoing mail instead of sending it. Setting Fail
// makes every Send return an error.
type RecordingMailer struct {
	mu   sync.Mutex
	Fail bool
	Sent []SentEmail
}

func (m *RecordingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return errors.New("smtp unavailable")
	}
	m.Sent = append(m.Sent, SentEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *RecordingMailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

func (m *RecordingMailer) Last() SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return SentEmail{}
	}
	return m.Sent[len(m.Sent)-1]
}

// TestConfig returns a config filled with inert values.
func TestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Env = "development"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	cfg.Email.FromEmail = "no-reply@test.local"
	cfg.Email.FromName = "Test"
	cfg.Admin.NotificationEmail = "admin@test.local"
	cfg.Payment.SecretKey = "cf-test-secret"
	cfg.Payment.AppID = "cf-test-app"
	cfg.Frontend.BaseURL = "http://localhost:3000"
	return cfg
}
