package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/keepsakehq/keepsake-api/internal/api"
	apiMiddleware "github.com/keepsakehq/keepsake-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.passwordVerifier,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	albumHandler := api.NewAlbumHandler(app.albumService, app.config.Server.ShareBaseURL, app.logger)
	challengeHandler := api.NewChallengeHandler(app.challengeService, app.logger)
	memoryHandler := api.NewMemoryHandler(app.memoryService, app.logger)
	storageHandler := api.NewStorageHandler(app.storageClient, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Guest endpoints. Answer validation runs with optional auth so an
		// authenticated viewer's completions are tracked while anonymous
		// guests still get answers evaluated.
		r.Post("/albums/find", albumHandler.FindByCode)
		r.With(authMiddleware.AuthenticateOptional).
			Post("/challenges/{id}/validate", challengeHandler.ValidateAnswer)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Profile endpoint
			r.Get("/auth/profile", authHandler.Profile)

			// Album endpoints
			r.Post("/albums", albumHandler.CreateAlbum)
			r.Get("/albums", albumHandler.ListAlbums)
			r.Patch("/albums/{id}/bg-image", albumHandler.UpdateBgImage)

			// Challenge endpoints
			r.Post("/albums/{id}/challenges", challengeHandler.CreateChallenge)
			r.Get("/albums/{id}/challenges", challengeHandler.ListAlbumChallenges)
			r.Get("/challenges/{id}", challengeHandler.GetChallenge)
			r.Put("/challenges/{id}", challengeHandler.UpdateChallenge)
			r.Delete("/challenges/{id}", challengeHandler.DeleteChallenge)

			// Memory endpoints
			r.Post("/challenges/{id}/memories", memoryHandler.CreateMemory)

			// Storage endpoints
			r.Post("/storage/sign-upload", storageHandler.SignUpload)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
