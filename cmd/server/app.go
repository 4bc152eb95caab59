package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/keepsakehq/keepsake-api/internal/config"
	"github.com/keepsakehq/keepsake-api/internal/domain/shortcode"
	"github.com/keepsakehq/keepsake-api/internal/platform/postgres"
	"github.com/keepsakehq/keepsake-api/internal/platform/supabase"
	"github.com/keepsakehq/keepsake-api/internal/service"
	"github.com/keepsakehq/keepsake-api/internal/service/auth"
	"github.com/keepsakehq/keepsake-api/internal/service/completion"
	"github.com/keepsakehq/keepsake-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore       store.UserStore
	albumStore      store.AlbumStore
	challengeStore  store.ChallengeStore
	memoryStore     store.MemoryStore
	completionStore store.CompletionStore

	// Services
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	codeGenerator    *shortcode.Generator
	tracker          completion.Tracker
	albumService     service.AlbumService
	challengeService service.ChallengeService
	memoryService    service.MemoryService
	storageClient    *supabase.Client
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies that must be established before
// application wiring: configuration, logger, and database connection.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	verifier := auth.NewBcryptVerifier()
	app.passwordHasher = verifier
	app.passwordVerifier = verifier

	// Stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.albumStore = postgres.NewPostgresAlbumStore(db, logger)
	app.challengeStore = postgres.NewPostgresChallengeStore(db, logger)
	app.memoryStore = postgres.NewPostgresMemoryStore(db, logger)
	app.completionStore = postgres.NewPostgresCompletionStore(db, logger)

	// Shareable code generation, time-seeded. The generator only produces
	// candidates; uniqueness is checked against the store.
	app.codeGenerator = shortcode.NewGenerator(rand.NewSource(time.Now().UnixNano()))

	// Completion tracking
	app.tracker = completion.NewTracker(app.completionStore, logger)

	// Domain services
	app.albumService = service.NewAlbumService(app.albumStore, app.codeGenerator, logger)
	app.challengeService = service.NewChallengeService(
		app.challengeStore,
		app.albumStore,
		app.tracker,
		logger,
	)
	app.memoryService = service.NewMemoryService(app.memoryStore, logger)

	// Supabase Storage collaborator for signed uploads
	app.storageClient = supabase.NewClient(cfg.Storage, nil, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("Application shutdown completed")
}
