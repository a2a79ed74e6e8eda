package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/inception-api/internal/config"
	"github.com/phrazzld/inception-api/internal/events"
	"github.com/phrazzld/inception-api/internal/generation"
	"github.com/phrazzld/inception-api/internal/platform/gemini"
	"github.com/phrazzld/inception-api/internal/platform/sqlstore"
	"github.com/phrazzld/inception-api/internal/platform/telemetry"
	"github.com/phrazzld/inception-api/internal/service"
	"github.com/phrazzld/inception-api/internal/service/auth"
	"github.com/phrazzld/inception-api/internal/service/deck_review"
	"github.com/phrazzld/inception-api/internal/store"
)

// application holds the shared dependencies of the server so they can be
// wired once and released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	deckStore store.DeckStore
	itemStore store.ItemStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	generator        generation.TextGenerator
	userService      service.UserService
	deckService      service.DeckService
	reviewService    deck_review.DeckReviewService

	eventEmitter *events.InMemoryEventEmitter

	shutdownTelemetry telemetry.ShutdownFunc
}

// setupTelemetry is swapped in tests.
var setupTelemetry = telemetry.Setup

// newApplication wires stores, services and the event emitter on top of an
// open database. The generator talks to Gemini through a circuit breaker.
// On error the telemetry exporter is already shut down; the caller still
// owns db.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	dialect sqlstore.Dialect,
) (_ *application, err error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.shutdownTelemetry, err = setupTelemetry(ctx, cfg.Telemetry, version)
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		if err != nil {
			app.flushTelemetry()
		}
	}()

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))
	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = sqlstore.NewUserStore(db, dialect, cfg.Auth.BCryptCost)
	app.deckStore = sqlstore.NewDeckStore(db, dialect)
	app.itemStore = sqlstore.NewItemStore(db, dialect)

	gem, err := gemini.NewGeminiGenerator(ctx, logger.With("component", "llm_generator"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	app.generator = generation.NewBreakerGenerator(gem, generation.BreakerConfig{
		Name:         "gemini",
		MinRequests:  cfg.Review.BreakerMinRequests,
		FailureRatio: cfg.Review.BreakerFailureRatio,
		Timeout:      time.Duration(cfg.Review.BreakerTimeoutSeconds) * time.Second,
	}, logger)
	logger.Info("LLM generator initialized", slog.String("model", cfg.LLM.ModelName))

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewLoggingHandler(logger))
	app.eventEmitter.RegisterHandler(events.NewMetricsHandler())

	gate := service.NewAccessGate(app.deckStore)
	app.userService = service.NewUserService(app.userStore, logger)

	app.deckService, err = service.NewDeckService(db, app.deckStore, app.itemStore, gate, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck service: %w", err)
	}

	app.reviewService, err = deck_review.NewDeckReviewService(gate, app.itemStore, app.generator, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck review service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup flushes telemetry and closes the database.
func (app *application) cleanup() {
	app.flushTelemetry()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}

func (app *application) flushTelemetry() {
	if app.shutdownTelemetry == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.shutdownTelemetry(ctx); err != nil {
		app.logger.Error("failed to flush telemetry", slog.String("error", err.Error()))
	}
}
