package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yamdb/database"
	"yamdb/internal/config"
	"yamdb/internal/microservices/http-api/handler"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/router"
	"yamdb/internal/microservices/http-api/service"
	"yamdb/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// Setup structured logging
	logger := config.NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Error("database_connect_failed", "error", err.Error())
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db, logger); err != nil {
		logger.Error("database_migrate_failed", "error", err.Error())
		os.Exit(1)
	}

	checks := map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	// Confirmation codes live in redis when configured, otherwise in postgres
	codeStore := repository.NewConfirmationCodeRepository(db)
	if cfg.RedisURL != "" {
		client, err := repository.NewRedisClient(cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			logger.Error("redis_connect_failed", "error", err.Error())
			os.Exit(1)
		}
		defer client.Close()
		codeStore = repository.NewRedisConfirmationCodeStore(client)
		checks["redis"] = redisCheck(client)
		logger.Info("confirmation_store_selected", "store", "redis")
	}

	var notifier service.NotificationChannel
	if cfg.SMTPHost != "" {
		notifier = notify.NewSMTPChannel(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
		})
	} else {
		notifier = notify.NewLogChannel(cfg.EmailFrom, logger)
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	issuer := service.NewJWTTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	resolver := service.NewResolver(titleRepo, reviewRepo, commentRepo)

	services := router.Services{
		Auth:       service.NewAuthService(userRepo, codeStore, notifier, issuer, cfg.ConfirmationCodeTTL),
		Users:      service.NewUserService(userRepo),
		Categories: service.NewCategoryService(categoryRepo),
		Genres:     service.NewGenreService(genreRepo),
		Titles:     service.NewTitleService(titleRepo, categoryRepo, genreRepo),
		Reviews:    service.NewReviewService(reviewRepo, resolver),
		Comments:   service.NewCommentService(commentRepo, resolver),
	}

	opts := router.Options{
		Logger:       logger,
		Limits:       handler.PageLimits{Default: cfg.DefaultPageSize, Max: cfg.MaxPageSize},
		HealthChecks: checks,
	}
	if cfg.PrometheusEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts.Metrics = middleware.NewMetrics(registry)
		opts.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	r, err := router.New(services, opts)
	if err != nil {
		logger.Error("router_setup_failed", "error", err.Error())
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting_http_server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("received_shutdown_signal")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("server_shutdown_failed", "error", err.Error())
		}
		logger.Info("server_stopped_gracefully")
	case err := <-errChan:
		logger.Error("server_error", "error", err.Error())
		os.Exit(1)
	}
}

func redisCheck(client *redis.Client) handler.HealthCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
