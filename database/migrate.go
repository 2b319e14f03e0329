package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"atithi_backend/internal/config"
	"atithi_backend/internal/models"
)

var gormDB *gorm.DB

// ConnectGorm opens the connection described by config. The handle is cached
// so repeated calls share one pool.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	dsn := config.AppConfig.Database.DSN
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate migrates every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.TempUser{},
		&models.JobApplication{},
		&models.LoanApplication{},
		&models.Notification{},
		&models.ContactInquiry{},
		&models.Setting{},
	)
}
