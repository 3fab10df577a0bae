package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/talabahamkor/choyxona/internal/app/controllers"
	appMigrations "github.com/talabahamkor/choyxona/internal/app/migrations"
	appRepos "github.com/talabahamkor/choyxona/internal/app/repositories"
	appRoutes "github.com/talabahamkor/choyxona/internal/app/routes"
	appServices "github.com/talabahamkor/choyxona/internal/app/services"
	"github.com/talabahamkor/choyxona/internal/config"
	"github.com/talabahamkor/choyxona/internal/db"
	appMiddleware "github.com/talabahamkor/choyxona/internal/middleware"
	pkgAuth "github.com/talabahamkor/choyxona/internal/pkg/auth"
	"github.com/talabahamkor/choyxona/internal/pkg/logger"
	"github.com/talabahamkor/choyxona/internal/pkg/notifications"
	"github.com/talabahamkor/choyxona/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services             *appServices.Services
	PostController       *appControllers.PostController
	CommentController    *appControllers.CommentController
	EngagementController *appControllers.EngagementController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	Notifier             notifications.Notifier
	Logger               zerolog.Logger
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
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if strings.ToLower(cfg.Server.Mode) != "production" {
		if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    config.ParseDurationOr(cfg.JWT.TokenExpiration, 24*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	if cfg.Notifications.WebhookURL != "" {
		deps.Notifier = notifications.NewWebhookNotifier(
			cfg.Notifications.WebhookURL,
			config.ParseDurationOr(cfg.Notifications.Timeout, 5*time.Second),
		)
	} else {
		deps.Notifier = notifications.NoopNotifier{}
		lgr.Info().Msg("Notification webhook not configured, feed events will be dropped")
	}

	deps.Services = appServices.NewServices(deps.Repos, cfg, deps.Notifier, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.PostController = appControllers.NewPostController(deps.Services.PostService)
	deps.CommentController = appControllers.NewCommentController(deps.Services.CommentService)
	deps.EngagementController = appControllers.NewEngagementController(deps.Services.EngagementService)

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

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

	// Setup Swagger
	appRoutes.SetupSwagger(router)

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.PostController,
		deps.CommentController,
		deps.EngagementController,
		deps.AuthMiddleware,
	)

	return router
}
