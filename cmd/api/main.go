// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carterperez-dev/saasify-contacts/internal/auth"
	"github.com/carterperez-dev/saasify-contacts/internal/config"
	"github.com/carterperez-dev/saasify-contacts/internal/contact"
	"github.com/carterperez-dev/saasify-contacts/internal/core"
	"github.com/carterperez-dev/saasify-contacts/internal/health"
	"github.com/carterperez-dev/saasify-contacts/internal/metrics"
	"github.com/carterperez-dev/saasify-contacts/internal/middleware"
	"github.com/carterperez-dev/saasify-contacts/internal/server"
	"github.com/carterperez-dev/saasify-contacts/internal/tenant"
	"github.com/carterperez-dev/saasify-contacts/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		logger.Info("database schema applied")
	}

	hasher, err := core.NewPasswordHasher(cfg.Password)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
		m.RegisterPools(db.DB.DB, redis.Client)
	}

	tenantRepo := tenant.NewRepository(db.DB)
	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, tenantRepo, db, hasher)

	authSvc := auth.NewService(jwtManager, userSvc, hasher, m)
	contactSvc := contact.NewService(contact.NewRepository(db.DB), m)

	healthHandler := health.NewHandler(cfg.App.Name, db, redis)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	newLimiter := func(
		name string,
		key func(*http.Request) string,
		requests, burst int,
	) *middleware.RateLimiter {
		return middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Name:    name,
			Limit:   middleware.PerWindow(requests, burst, cfg.RateLimit.Window),
			KeyFunc: key,
			Metrics: m,
		})
	}

	mountRoutes(srv.Router(), routes{
		Config:   cfg,
		Logger:   logger,
		Metrics:  m,
		JWT:      jwtManager,
		Users:    userSvc,
		Health:   healthHandler,
		Auth:     auth.NewHandler(authSvc),
		User:     user.NewHandler(userSvc),
		Contacts: contact.NewHandler(contactSvc),
		GlobalLimiter: newLimiter(
			"ip",
			middleware.KeyByIP,
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
		),
		TenantLimiter: newLimiter(
			"tenant",
			middleware.KeyByTenantUser,
			cfg.RateLimit.TenantRequests,
			cfg.RateLimit.TenantBurst,
		),
	})

	logger.Info("routes mounted",
		"address", cfg.Server.Address(),
		"metrics", cfg.Metrics.Enabled,
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
