package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"atithi_backend/database"
	"atithi_backend/internal/auth"
	"atithi_backend/internal/config"
	"atithi_backend/internal/email"
	"atithi_backend/internal/handlers"
	"atithi_backend/internal/logger"
	"atithi_backend/internal/middleware"
	"atithi_backend/internal/models"
	"atithi_backend/internal/routes"
	"atithi_backend/internal/services"
	"atithi_backend/internal/validator"
	"atithi_backend/internal/workers"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter, svc := SetupRouter(cfg, gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	workers.NewTempUserWorker(svc.UserRepo).Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *services.ServiceContainer) {
	mailer := email.NewMailer(cfg)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)

	serviceContainer := services.NewServiceContainer(gormDB, cfg, mailer, tokens)
	appHandlers := handlers.NewAppHandlers(serviceContainer, validator.New())

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers, tokens)

	return ginRouter, serviceContainer
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(),
	)
	return ginRouter
}

// seedFirstAdmin creates the bootstrap admin account on an empty install.
// It is a no-op when the configured admin email already exists.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.Admin.FirstAdminEmail == "" || cfg.Admin.FirstAdminPassword == "" {
		logger.Warn("first admin credentials not configured, skipping seed")
		return nil
	}

	var existing models.User
	err := db.First(&existing, "email = ?", cfg.Admin.FirstAdminEmail).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.Admin.FirstAdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		FullName:        "Administrator",
		Email:           cfg.Admin.FirstAdminEmail,
		PasswordHash:    hash,
		PhoneNumber:     "0000000000",
		Role:            models.UserRoleAdmin,
		IsEmailVerified: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logger.Info("Seeded first admin user", "email", admin.Email)
	return nil
}
