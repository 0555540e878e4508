// Package server initializes and runs the authentication service. It wires
// configuration, storage, the mailer, OAuth providers and the HTTP endpoint,
// and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uscre/auth-service/internal/logging"
	"github.com/uscre/auth-service/internal/server/config"
	"github.com/uscre/auth-service/internal/server/httpapi"
	"github.com/uscre/auth-service/internal/server/mailer"
	"github.com/uscre/auth-service/internal/server/oauth"
	"github.com/uscre/auth-service/internal/server/repositories/repomanager"
	"github.com/uscre/auth-service/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	repos  repomanager.RepositoryManager
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	notifier := newNotifier(cfg, logger)

	authService := services.NewAuthService(db, rm, notifier, logger, cfg)
	avatarService := services.NewAvatarService(cfg)

	srv := httpapi.NewServer(authService, avatarService, configuredProviders(cfg), cfg, logger)

	return &App{config: cfg, logger: logger, db: db, repos: rm, server: srv}, nil
}

// newNotifier picks SMTP delivery when credentials are present and falls back
// to log-only delivery otherwise, so dev setups work without a mail account.
func newNotifier(cfg *config.Config, logger logging.Logger) mailer.Notifier {
	if cfg.MailUsername == "" || cfg.MailPassword == "" {
		logger.Warn(context.Background(), "mail credentials unset, verification emails will only be logged")
		return mailer.NewLogNotifier(logger)
	}
	return mailer.NewSMTPNotifier(cfg.MailServer, cfg.MailPort, cfg.MailUsername, cfg.MailPassword, cfg.MailSenderName)
}

func configuredProviders(cfg *config.Config) []oauth.Provider {
	var providers []oauth.Provider
	if gh := oauth.NewGitHubClient(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubRedirectURI, http.DefaultClient); gh.Configured() {
		providers = append(providers, gh)
	}
	if g := oauth.NewGoogleClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI, http.DefaultClient); g.Configured() {
		providers = append(providers, g)
	}
	return providers
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migration error", "error", err)
		return
	}

	go func() {
		if err := app.server.Start(); err != nil && err != http.ErrServerClosed {
			app.logger.Error(ctx, "http server error", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err)
	}
}
