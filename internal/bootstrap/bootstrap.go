package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/undergraduation/ugadmin/internal/app/controllers"
	appMigrations "github.com/undergraduation/ugadmin/internal/app/migrations"
	appRepos "github.com/undergraduation/ugadmin/internal/app/repositories"
	appRoutes "github.com/undergraduation/ugadmin/internal/app/routes"
	appServices "github.com/undergraduation/ugadmin/internal/app/services"
	"github.com/undergraduation/ugadmin/internal/config"
	"github.com/undergraduation/ugadmin/internal/db"
	appMiddleware "github.com/undergraduation/ugadmin/internal/middleware"
	pkgAuth "github.com/undergraduation/ugadmin/internal/pkg/auth"
	"github.com/undergraduation/ugadmin/internal/pkg/email"
	"github.com/undergraduation/ugadmin/internal/pkg/logger"
	"github.com/undergraduation/ugadmin/internal/pkg/storage"
	"github.com/undergraduation/ugadmin/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                  *appRepos.Repositories
	Storage                storage.Storage
	EmailSender            email.Sender
	JWTService             *pkgAuth.JWTService
	AuditService           *appServices.AuditService
	StudentService         *appServices.StudentService
	BulkService            *appServices.BulkService
	SearchService          *appServices.SearchService
	FileService            *appServices.FileService
	NotificationService    *appServices.NotificationService
	UserService            *appServices.UserService
	StudentController      *appControllers.StudentController
	SearchController       *appControllers.SearchController
	BulkController         *appControllers.BulkController
	FileController         *appControllers.FileController
	NotificationController *appControllers.NotificationController
	AuditController        *appControllers.AuditController
	UserController         *appControllers.UserController
	HealthController       *appControllers.HealthController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  prettyLog,
		Service: cfg.App.Name,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.App.SeedDevData {
		seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancelSeed()
		if err := seed.CreateDevData(seedCtx, database.Pool, lgr); err != nil {
			lgr.Error().Err(err).Msg("Development data seed error")
			database.Close()
			return nil, fmt.Errorf("development data seed failed: %w", err)
		}
	}

	return database, nil
}

// BuildDependencies initializes repositories, services, controllers and middleware.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	store, err := storage.NewMinIO(storage.MinIOConfig{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize object storage")
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	deps.Storage = store

	deps.EmailSender = email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Auth.JWTSecret,
		TokenIssuer: cfg.Auth.Issuer,
		Audience:    cfg.Auth.Audience,
	})

	// Audit first, everything else records through it
	deps.AuditService = appServices.NewAuditService(deps.Repos.AuditRepository)
	deps.StudentService = appServices.NewStudentService(deps.Repos.StudentRepository, deps.AuditService)
	deps.BulkService = appServices.NewBulkService(deps.Repos.StudentRepository, deps.AuditService)
	deps.SearchService = appServices.NewSearchService(deps.Repos.StudentRepository, deps.AuditService)
	deps.FileService = appServices.NewFileService(
		deps.Repos.FileRepository,
		deps.Repos.StudentRepository,
		deps.Storage,
		cfg.GetPresignExpiry(),
		deps.AuditService,
	)
	deps.NotificationService = appServices.NewNotificationService(
		deps.Repos.EmailLogRepository,
		deps.Repos.StudentRepository,
		deps.EmailSender,
		deps.AuditService,
	)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, deps.AuditService)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.UserService)

	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.SearchController = appControllers.NewSearchController(deps.SearchService)
	deps.BulkController = appControllers.NewBulkController(deps.BulkService)
	deps.FileController = appControllers.NewFileController(deps.FileService)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService)
	deps.AuditController = appControllers.NewAuditController(deps.AuditService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.HealthController = appControllers.NewHealthController(cfg, database)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestID())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.StudentController,
		deps.SearchController,
		deps.BulkController,
		deps.FileController,
		deps.NotificationController,
		deps.AuditController,
		deps.UserController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	return router
}
