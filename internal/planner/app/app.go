package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/squadcap/squadcap/internal/planner/http"
	"github.com/squadcap/squadcap/internal/planner/mail"
	"github.com/squadcap/squadcap/internal/planner/service"
	"github.com/squadcap/squadcap/internal/planner/store"
	"github.com/squadcap/squadcap/internal/planner/store/drivers/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/squadcap/squadcap/pkg/jwtx"
	"github.com/squadcap/squadcap/pkg/ratelimit"
	"github.com/squadcap/squadcap/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the squad planner service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	signer  *jwtx.Signer
	limiter ratelimit.Limiter
	mailer  mail.Sender

	authService         *service.AuthService
	inviteService       *service.InviteService
	squadService        *service.SquadService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "squadcap",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}
	app.signer = &jwtx.Signer{
		Secret: []byte(cfg.SessionSecret),
		Issuer: cfg.Issuer,
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	app.initLimiter()
	app.initMailer()

	if err := service.SeedAdmin(
		context.Background(), app.db, app.logger, cfg.AdminEmail, cfg.AdminPassword,
	); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("squad planner starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down squad planner...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("squad planner stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initLimiter builds the rate limiter stack. With REDIS_ADDR set the
// shared sliding window is primary and the in-process window takes over
// when Redis is unreachable; without it the local window stands alone.
func (app *Application) initLimiter() {
	local := ratelimit.NewLocalWindow()

	if app.cfg.RedisAddr == "" {
		app.limiter = local
		app.logger.Info("rate limiting using in-process window")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
	})
	distributed, err := ratelimit.NewDistributedWindow(context.Background(), client)
	if err != nil {
		app.logger.Warn("redis unreachable at startup, rate limiting degraded to in-process window",
			"addr", app.cfg.RedisAddr, "error", err)
		_ = client.Close()
		app.limiter = local
		return
	}

	app.limiter = &ratelimit.Failover{
		Primary:  distributed,
		Fallback: local,
		Logger:   app.logger,
	}
	app.logger.Info("rate limiting using redis sliding window with local failover",
		"addr", app.cfg.RedisAddr)
}

func (app *Application) initMailer() {
	if app.cfg.SMTPHost == "" {
		app.mailer = &mail.LogSender{Logger: app.logger}
		return
	}
	app.mailer = mail.NewSMTPSender(mail.SMTPConfig{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.SMTPFrom,
	})
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:  app.db,
		Signer: app.signer,
	}
	app.inviteService = &service.InviteService{
		Store:   app.db,
		Mailer:  app.mailer,
		Auditor: service.NewAuditor(app.db),
		BaseURL: app.cfg.BaseURL,
		TTL:     app.cfg.InvitationTTL,
	}
	app.squadService = &service.SquadService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.inviteService,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		app.limiter,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.InviteService = app.inviteService
	router.SquadService = app.squadService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
