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

	httpapi "github.com/aussiebroadwan/edura/internal/auth/http"
	"github.com/aussiebroadwan/edura/internal/auth/service"
	"github.com/aussiebroadwan/edura/internal/auth/store"
	"github.com/aussiebroadwan/edura/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/edura/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/edura/pkg/cryptox"
	"github.com/aussiebroadwan/edura/pkg/httpx"
	"github.com/aussiebroadwan/edura/pkg/mailx"
	"github.com/aussiebroadwan/edura/pkg/slogx"
)

// ErrMissingSMTPHost is returned outside dev when no relay is configured.
var ErrMissingSMTPHost = errors.New("SMTP_HOST must be set unless ENV=dev")

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	hasher cryptox.Hasher
	mailer mailx.Sender

	// Services
	tokenService        *service.TokenService
	authService         *service.AuthService
	userService         *service.UserService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewArgon2Hasher(pepper)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slogx.Err(err))
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", slogx.Err(err))
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", slogx.Err(err))
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase opens the configured driver and applies migrations
func (app *Application) initDatabase() error {
	db, err := OpenStore(context.Background(), app.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// OpenStore opens the store selected by cfg.DatabaseDriver without migrating it.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.DatabaseDriver {
	case "", "sqlite":
		st, err := sqlite.NewStore(cfg.DatabaseFile)
		if err != nil {
			return nil, err
		}
		return st, nil
	case "postgres":
		st, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	tokens, err := service.NewTokenService(service.TokenConfig{
		Key:      []byte(app.cfg.JWTKey),
		Issuer:   app.cfg.JWTIssuer,
		Audience: app.cfg.JWTAudience,
		TTL:      app.cfg.JWTExpiration,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	app.tokenService = tokens

	mailer, err := newMailer(app.cfg, app.logger)
	if err != nil {
		return err
	}
	app.mailer = mailer

	app.authService = &service.AuthService{
		Store:  app.db,
		Hasher: app.hasher,
		Tokens: app.tokenService,
		Codes:  &service.ResetCodeService{Store: app.db},
		Mailer: app.mailer,
	}
	app.userService = &service.UserService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// newMailer picks the SMTP relay. Logging mail instead is only allowed in
// dev, since the log line carries the verification code.
func newMailer(cfg Config, logger *slog.Logger) (mailx.Sender, error) {
	if cfg.SMTPHost != "" {
		sender, err := mailx.NewSMTPSender(mailx.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		if err != nil {
			return nil, err
		}
		return sender, nil
	}

	if cfg.Env != "dev" {
		return nil, ErrMissingSMTPHost
	}
	logger.Warn("SMTP_HOST not set, verification codes will only be logged")
	return mailx.LogSender{Logger: logger}, nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokenService,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.UserService = app.userService
	router.SupportEmail = app.cfg.SupportEmail
	router.ExposeErrorDetail = app.cfg.Env == "dev"
	router.TrustedProxies = app.cfg.TrustedProxies
	if app.cfg.RateLimitEnabled {
		router.StrictLimit = httpx.ParseRateLimitFromEnv("STRICT", httpx.StrictLimit)
		router.LenientLimit = httpx.ParseRateLimitFromEnv("LENIENT", httpx.LenientLimit)
	} else {
		router.StrictLimit = httpx.NoLimit
		router.LenientLimit = httpx.NoLimit
	}
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
