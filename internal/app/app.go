package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"assesshub_backend/internal/auth"
	"assesshub_backend/internal/config"
	"assesshub_backend/internal/database"
	"assesshub_backend/internal/email"
	"assesshub_backend/internal/handlers"
	"assesshub_backend/internal/logger"
	"assesshub_backend/internal/middleware"
	"assesshub_backend/internal/models"
	"assesshub_backend/internal/repositories"
	"assesshub_backend/internal/routes"
	"assesshub_backend/internal/services"
)

// Run boots the whole application: config, logging, database, migrations,
// seed data and the HTTP server.
func Run() error {
	config.LoadConfig()
	cfg := config.GetConfig()

	logger.Init(cfg.Server.Env)

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	if err := seedFirstAdmin(db, cfg); err != nil {
		return err
	}
	if err := repositories.NewUserRepository(db).CleanExpiredRefreshTokens(); err != nil {
		logger.Warn("failed to clean expired refresh tokens", "error", err)
	}

	engine := SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "addr", addr, "env", cfg.Server.Env)
	return engine.Run(addr)
}

// SetupRouter builds the gin engine with all middleware and routes. Split out
// of Run so tests can drive a fully wired router against their own database.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.CORSMiddleware())

	sc := services.NewServiceContainer(db, cfg, newEmailProvider(cfg))
	routes.RegisterRoutes(engine, handlers.NewAppHandlers(sc))
	return engine
}

func newEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.Provider == "smtp" {
		provider, err := email.NewSMTPProvider(email.Config{
			SMTPHost:  cfg.Email.SMTPHost,
			SMTPPort:  cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			PortalURL: cfg.Email.PortalURL,
		})
		if err == nil {
			return provider
		}
		logger.Warn("smtp provider unavailable, falling back to console", "error", err)
	}
	return email.NewConsoleProvider(cfg.Email.PortalURL)
}

// seedFirstAdmin creates the bootstrap super admin when configured and
// missing. Reruns are no-ops.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.FirstAdminEmail == "" || cfg.FirstAdminPassword == "" {
		return nil
	}

	userRepo := repositories.NewUserRepository(db)
	if _, err := userRepo.FindByEmail(cfg.FirstAdminEmail); err == nil {
		return nil
	} else if err != repositories.ErrUserNotFound {
		return err
	}

	hash, err := auth.HashPassword(cfg.FirstAdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        cfg.FirstAdminEmail,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         models.UserRoleSuperAdmin,
		Status:       models.UserStatusActive,
	}
	if err := userRepo.Create(admin); err != nil {
		return err
	}
	logger.Info("seeded first admin account", "email", cfg.FirstAdminEmail)
	return nil
}
