// Command portal-server starts the calendar/admin portal HTTP API.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"calendar-admin/internal/chat"
	"calendar-admin/internal/config"
	"calendar-admin/internal/errs"
	"calendar-admin/internal/limiter"
	"calendar-admin/internal/migrate"
	"calendar-admin/internal/model"
	"calendar-admin/internal/repository/postgres"
	httpserver "calendar-admin/internal/server/http"
	"calendar-admin/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration, runs migrations, and starts the HTTP server.
func main() {
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	db, err := postgres.New(ctx, cfg.DSN)
	if err != nil {
		logger.Fatal("postgres.New", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	eventRepo := postgres.NewEventRepo(db)
	messageRepo := postgres.NewMessageRepo(db)

	var lim limiter.Limiter = limiter.Noop{}
	if cfg.LoginMaxFails > 0 {
		lim = limiter.NewPGWithQuerier(db.Pool, cfg.LoginWindow, cfg.LoginMaxFails, cfg.LoginBlockFor)
	}

	// Services
	authSvc := service.NewAuthService(userRepo, sessionRepo, lim, cfg.SessionTTL)
	userSvc := service.NewUserService(userRepo)
	eventSvc := service.NewEventService(eventRepo)
	messageSvc := service.NewMessageService(messageRepo)
	relay := chat.NewOpenAI(cfg.ChatBaseURL, cfg.ChatAPIKey, cfg.ChatModel, cfg.ChatTimeout)

	if err := seedAdmin(ctx, cfg, userSvc); err != nil {
		logger.Fatal("seed admin", zap.Error(err))
	}

	srv := httpserver.New(authSvc, userSvc, eventSvc, messageSvc, relay, logger, httpserver.Options{
		CORSOrigins:      cfg.CORSOrigins,
		CookieSecure:     cfg.CookieSecure,
		SessionTTL:       cfg.SessionTTL,
		OpenRegistration: cfg.OpenRegistration,
		PublicUserList:   cfg.PublicUserList,
	})
	app := srv.App()

	// Periodic cleanup of expired sessions (best-effort).
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := sessionRepo.DeleteExpired(ctx); err != nil {
					logger.Warn("session sweep", zap.Error(err))
				} else if n > 0 {
					logger.Info("session sweep", zap.Int64("deleted", n))
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- app.Listen(cfg.Addr)
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

// seedAdmin creates the bootstrap admin account when configured and absent.
func seedAdmin(ctx context.Context, cfg *config.Config, users service.UserService) error {
	if cfg.AdminUsername == "" {
		return nil
	}
	_, err := users.Create(ctx, cfg.AdminUsername, cfg.AdminPassword, model.RoleAdmin)
	if errors.Is(err, errs.ErrAlreadyExists) {
		return nil
	}
	return err
}
