package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-portal/config"
	deliveryHttp "clinic-portal/internal/delivery/http"
	"clinic-portal/internal/delivery/http/handler"
	"clinic-portal/internal/delivery/http/middleware"
	"clinic-portal/internal/infrastructure/cache"
	"clinic-portal/internal/infrastructure/database"
	"clinic-portal/internal/infrastructure/metrics"
	"clinic-portal/internal/repository"
	"clinic-portal/internal/service"
	"clinic-portal/internal/usecase"
	"clinic-portal/pkg/jwt"
	"clinic-portal/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config       *config.Config
	Log          *logrus.Logger
	DB           *gorm.DB
	RedisClient  *redis.Client
	Server       *http.Server
	loginLimiter *middleware.RateLimiter
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := NewLogger(cfg.App.LogLevel)
	app.Log = log
	log.Info("Configuration loaded successfully")

	if cfg.DB.AutoMigrate {
		if err := Migrate(cfg.DB); err != nil {
			return nil, err
		}
		log.Info("Database schema is up to date")
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize all layers
	app.initializeServer()

	return app, nil
}

// NewLogger returns a JSON logger writing to stdout at the given level.
// Unknown levels fall back to info.
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// Migrate applies pending schema migrations.
func Migrate(cfg config.DBConfig) error {
	migrator, err := database.NewMigrator(cfg)
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}
	defer migrator.Close()

	return migrator.Up()
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() {
	cfg, db, log := app.Config, app.DB, app.Log

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()
	referenceRepo := repository.NewReferenceRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	tokenStore := service.NewTokenStore(app.RedisClient)
	referenceCache := service.NewReferenceCache(app.RedisClient, cfg.Cache.ReferenceTTL)
	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	horizon := cfg.Upcoming.Horizon
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, jwtService, tokenStore, auditService)
	patientUsecase := usecase.NewPatientUsecase(db, log, customValidator, usecase.SystemClock, horizon,
		userRepo, appointmentRepo, prescriptionRepo, auditService, tokenStore)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, customValidator, usecase.SystemClock, horizon,
		userRepo, appointmentRepo, auditService)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(db, log, customValidator, usecase.SystemClock, horizon,
		userRepo, prescriptionRepo, auditService)
	referenceUsecase := usecase.NewReferenceUsecase(db, log, referenceRepo, referenceCache)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := referenceUsecase.WarmCache(ctx); err != nil {
		log.Warnf("Failed to warm reference cache: %+v", err)
	}
	cancel()

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:         handler.NewAuthHandler(authUsecase, customValidator),
		Patient:      handler.NewPatientHandler(patientUsecase),
		Appointment:  handler.NewAppointmentHandler(appointmentUsecase),
		Prescription: handler.NewPrescriptionHandler(prescriptionUsecase),
		Reference:    handler.NewReferenceHandler(referenceUsecase),
		AuditLog:     handler.NewAuditLogHandler(auditLogUsecase),
		Health: handler.NewHealthHandler(map[string]handler.HealthCheck{
			"database": app.pingDatabase,
			"redis": func(ctx context.Context) error {
				return app.RedisClient.Ping(ctx).Err()
			},
		}),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)
	app.loginLimiter = middleware.NewRateLimiter(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst, cfg.RateLimit.TrustProxy)

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, log, authMiddleware, corsMiddleware, app.loginLimiter, httpMetrics, registry)

	// Create server
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (app *App) pingDatabase(ctx context.Context) error {
	sqlDB, err := app.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close stops background work and closes all connections (database, redis)
func (app *App) Close() {
	if app.loginLimiter != nil {
		app.loginLimiter.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
