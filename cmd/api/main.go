// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zyclope0/mathakine-sub004/internal/account"
	"github.com/zyclope0/mathakine-sub004/internal/admin"
	"github.com/zyclope0/mathakine-sub004/internal/auth"
	"github.com/zyclope0/mathakine-sub004/internal/authz"
	"github.com/zyclope0/mathakine-sub004/internal/badge"
	"github.com/zyclope0/mathakine-sub004/internal/cache"
	"github.com/zyclope0/mathakine-sub004/internal/challenge"
	"github.com/zyclope0/mathakine-sub004/internal/config"
	"github.com/zyclope0/mathakine-sub004/internal/core"
	"github.com/zyclope0/mathakine-sub004/internal/exercise"
	"github.com/zyclope0/mathakine-sub004/internal/health"
	"github.com/zyclope0/mathakine-sub004/internal/leaderboard"
	"github.com/zyclope0/mathakine-sub004/internal/middleware"
	"github.com/zyclope0/mathakine-sub004/internal/server"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// accessVerifier adapts the token manager to the authenticator
// middleware, pinning verification to the access kind.
type accessVerifier struct {
	tokens *auth.TokenManager
}

func (v accessVerifier) VerifyAccess(
	ctx context.Context,
	token string,
) (*middleware.TokenClaims, error) {
	claims, err := v.tokens.Verify(ctx, token, auth.TokenKindAccess)
	if err != nil {
		return nil, err
	}

	return &middleware.TokenClaims{
		Subject: claims.Subject,
		Role:    claims.Role,
	}, nil
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

	tokenManager, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		return err
	}
	logger.Info("token manager initialized",
		"algorithm", "HS256",
		"access_ttl", cfg.Auth.AccessTokenExpire,
		"refresh_ttl", cfg.Auth.RefreshTokenExpire,
	)

	txManager := core.NewTxManager(db.DB)
	statsCache := cache.New(cfg.Cache.StatsTTL)

	accountRepo := account.NewRepository(db.DB)
	cascade := account.NewCoordinator(txManager)
	accountSvc := account.NewService(accountRepo, cascade, cfg.Auth.GracePeriod)
	accountHandler := account.NewHandler(accountSvc)

	authSvc := auth.NewService(accountSvc, tokenManager, cfg.Auth.GracePeriod)
	cookies := auth.NewCookieManager(cfg.Auth)
	authHandler := auth.NewHandler(authSvc, cookies, cfg.Auth.AccessTokenExpire)

	boardSvc := leaderboard.NewService(redis.Client)
	boardHandler := leaderboard.NewHandler(boardSvc)

	exerciseRepo := exercise.NewRepository(db.DB)
	exerciseSvc := exercise.NewService(exerciseRepo, accountSvc, txManager, boardSvc)
	exerciseHandler := exercise.NewHandler(exerciseSvc)

	badgeRepo := badge.NewRepository(db.DB)
	badgeSvc := badge.NewService(badgeRepo, accountSvc, statsCache)
	badgeHandler := badge.NewHandler(badgeSvc)

	challengeRepo := challenge.NewRepository(db.DB)
	challengeSvc := challenge.NewService(challengeRepo, accountSvc, boardSvc, badgeSvc)
	challengeHandler := challenge.NewHandler(challengeSvc)

	healthHandler := health.NewHandler(
		health.Check{Name: "postgres", Target: db},
		health.Check{Name: "redis", Target: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		StatsCache: statsCache,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	authenticator := middleware.Authenticator(accessVerifier{tokens: tokenManager})
	withScope := middleware.WithScope(accountSvc)

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)
		accountHandler.RegisterRoutes(r, authenticator)
		exerciseHandler.RegisterRoutes(r, authenticator, withScope)
		challengeHandler.RegisterRoutes(r, authenticator, withScope)
		boardHandler.RegisterRoutes(r, authenticator, withScope)
		badgeHandler.RegisterRoutes(r, authenticator, withScope)
		adminHandler.RegisterRoutes(
			r,
			authenticator,
			middleware.RequireRank(authz.RoleAdmin),
		)
	})

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
