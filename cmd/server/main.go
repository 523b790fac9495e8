package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/eduplatform/backend/internal/application/billing"
	catalogapp "github.com/eduplatform/backend/internal/application/catalog"
	enrollmentapp "github.com/eduplatform/backend/internal/application/enrollment"
	identityapp "github.com/eduplatform/backend/internal/application/identity"
	"github.com/eduplatform/backend/internal/infrastructure/auth"
	"github.com/eduplatform/backend/internal/infrastructure/config"
	"github.com/eduplatform/backend/internal/infrastructure/logger"
	"github.com/eduplatform/backend/internal/infrastructure/persistence"
	"github.com/eduplatform/backend/internal/infrastructure/telemetry"
	"github.com/eduplatform/backend/internal/interfaces/http/handler"
	"github.com/eduplatform/backend/internal/interfaces/http/middleware"
	"github.com/eduplatform/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Warn("Tracer provider shutdown failed", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log, cfg.Log.Level))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Database close failed", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName))

	if tracerProvider.IsEnabled() {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			SlowQueryThresh: telemetry.DefaultDBTracingConfig().SlowQueryThresh,
			DBSystem:        "postgresql",
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			return fmt.Errorf("register db tracing: %w", err)
		}
	}

	blacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	jwtService := auth.NewJWTService(cfg.JWT)

	userRepo := persistence.NewGormUserRepository(db.DB)
	courseRepo := persistence.NewGormCourseRepository(db.DB)
	enrollmentRepo := persistence.NewGormEnrollmentRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)

	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, log)
	courseService := catalogapp.NewCourseService(courseRepo)
	enrollmentService := enrollmentapp.NewEnrollmentService(enrollmentRepo, courseRepo, invoiceRepo)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo)

	engine := buildEngine(cfg, log, jwtService, blacklist)

	router.Setup(engine, router.Handlers{
		Auth:       handler.NewAuthHandler(authService, log),
		User:       handler.NewUserHandler(userService, log),
		Course:     handler.NewCourseHandler(courseService, log),
		Enrollment: handler.NewEnrollmentHandler(enrollmentService, log),
		Invoice:    handler.NewInvoiceHandler(invoiceService, log),
		System:     handler.NewSystemHandler(db.DB, log),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening",
			zap.Int("port", cfg.App.Port),
			zap.String("environment", cfg.App.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

func buildEngine(cfg *config.Config, log *zap.Logger, jwtService *auth.JWTService, blacklist auth.TokenBlacklist) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.RequestLogger(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodyBytes))

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  cfg.HTTP.RateLimitRPS,
		Burst: cfg.HTTP.RateLimitBurst,
	})
	engine.Use(limiter.Middleware())

	engine.Use(middleware.JWTAuth(jwtService, blacklist, log))
	engine.Use(middleware.TracingAttributeInjector())

	return engine
}
