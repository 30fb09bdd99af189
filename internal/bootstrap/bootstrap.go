package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/selinay/moraled/internal/app/controllers"
	appMigrations "github.com/selinay/moraled/internal/app/migrations"
	appRepos "github.com/selinay/moraled/internal/app/repositories"
	appRoutes "github.com/selinay/moraled/internal/app/routes"
	appServices "github.com/selinay/moraled/internal/app/services"
	"github.com/selinay/moraled/internal/config"
	"github.com/selinay/moraled/internal/db"
	appMiddleware "github.com/selinay/moraled/internal/middleware"
	pkgAuth "github.com/selinay/moraled/internal/pkg/auth"
	"github.com/selinay/moraled/internal/pkg/helpers"
	"github.com/selinay/moraled/internal/pkg/logger"
	"github.com/selinay/moraled/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService            *appServices.AuthService
	UserService            *appServices.UserService
	GradeService           *appServices.GradeService
	ClassService           *appServices.ClassService
	RuleService            *appServices.RuleService
	ScoreService           *appServices.ScoreService
	SubmissionService      *appServices.SubmissionService
	AwardService           *appServices.AwardService
	RelationshipService    *appServices.RelationshipService
	NotificationService    *appServices.NotificationService
	ReportService          *appServices.ReportService
	AuthController         *appControllers.AuthController
	UserController         *appControllers.UserController
	GradeController        *appControllers.GradeController
	ClassController        *appControllers.ClassController
	RuleController         *appControllers.RuleController
	ScoreController        *appControllers.ScoreController
	SubmissionController   *appControllers.SubmissionController
	AwardController        *appControllers.AwardController
	RelationshipController *appControllers.RelationshipController
	NotificationController *appControllers.NotificationController
	ReportController       *appControllers.ReportController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
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

	// Default data is convenience, not a startup requirement.
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)

	deps.NotificationService = appServices.NewNotificationService(
		deps.Repos.NotificationRepository,
		deps.Repos.UserRepository,
		lgr,
	)

	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, deps.Repos.ClassRepository, lgr)
	deps.GradeService = appServices.NewGradeService(deps.Repos.GradeRepository)
	deps.ClassService = appServices.NewClassService(deps.Repos.ClassRepository, deps.Repos.GradeRepository, deps.Repos.UserRepository)
	deps.RuleService = appServices.NewRuleService(deps.Repos.RuleRepository)
	deps.ScoreService = appServices.NewScoreService(
		deps.Repos.ScoreRepository,
		deps.Repos.UserRepository,
		deps.Repos.ClassRepository,
		deps.NotificationService,
		lgr,
	)
	deps.SubmissionService = appServices.NewSubmissionService(
		deps.Repos.SubmissionRepository,
		deps.Repos.RelationshipRepository,
		deps.Repos.UserRepository,
		deps.NotificationService,
		lgr,
	)
	deps.AwardService = appServices.NewAwardService(
		deps.Repos.AwardRepository,
		deps.Repos.UserRepository,
		deps.NotificationService,
	)
	deps.RelationshipService = appServices.NewRelationshipService(
		deps.Repos.RelationshipRepository,
		deps.Repos.UserRepository,
	)
	deps.ReportService = appServices.NewReportService(
		deps.Repos.ScoreRepository,
		deps.Repos.SubmissionRepository,
		deps.Repos.AwardRepository,
		deps.Repos.UserRepository,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository, deps.UserService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.GradeController = appControllers.NewGradeController(deps.GradeService)
	deps.ClassController = appControllers.NewClassController(deps.ClassService)
	deps.RuleController = appControllers.NewRuleController(deps.RuleService)
	deps.ScoreController = appControllers.NewScoreController(deps.ScoreService)
	deps.SubmissionController = appControllers.NewSubmissionController(deps.SubmissionService)
	deps.AwardController = appControllers.NewAwardController(deps.AwardService)
	deps.RelationshipController = appControllers.NewRelationshipController(deps.RelationshipService)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService)
	deps.ReportController = appControllers.NewReportController(deps.ReportService)

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

	router := gin.Default()

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.GradeController,
		deps.ClassController,
		deps.RuleController,
		deps.ScoreController,
		deps.SubmissionController,
		deps.AwardController,
		deps.RelationshipController,
		deps.NotificationController,
		deps.ReportController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
