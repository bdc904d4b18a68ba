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

	"github.com/takaio/ipgate/internal/discord"
	httpapi "github.com/takaio/ipgate/internal/http"
	"github.com/takaio/ipgate/internal/service"
	"github.com/takaio/ipgate/internal/store"
	"github.com/takaio/ipgate/internal/store/drivers/sqlite"
	"github.com/takaio/ipgate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the gate service with all its dependencies:
// the store, the lifecycle/approval services, the HTTP gate surface and
// the Discord approval surface.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db  store.Store
	bot *discord.Bot

	lifecycleService    *service.LifecycleService
	approvalService     *service.ApprovalService
	settingsService     *service.SettingsService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized. The
// Discord session is constructed here but not opened until Run.
func New(cfg Config) (*Application, error) {
	if cfg.DiscordToken == "" {
		return nil, errors.New("DISCORD_TOKEN is required")
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "ipgate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	bot, err := discord.NewBot(cfg.DiscordToken, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.bot = bot

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	if err := app.bot.Open(); err != nil {
		return fmt.Errorf("discord startup failed: %w", err)
	}

	app.housekeepingService.Start()

	app.logger.Info("ipgate starting", "port", app.cfg.Port, "version", BuildVersion)

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
	app.logger.Info("shutting down ipgate...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.bot.Close(); err != nil {
		app.logger.Error("error closing discord session", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("ipgate stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
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

// initServices initializes the business logic services and wires the bot
// to them in both directions: the bot drives approvals and the approval
// bridge notifies through the bot.
func (app *Application) initServices() {
	app.lifecycleService = &service.LifecycleService{
		Store:   app.db,
		CodeTTL: app.cfg.CodeTTL,
		AuthTTL: app.cfg.AuthTTL,
	}

	app.settingsService = &service.SettingsService{Store: app.db}

	app.approvalService = &service.ApprovalService{
		Lifecycle: app.lifecycleService,
		Store:     app.db,
		Notifier:  app.bot,
	}

	app.bot.ApprovalService = app.approvalService
	app.bot.SettingsService = app.settingsService

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)
	router.LifecycleService = app.lifecycleService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
