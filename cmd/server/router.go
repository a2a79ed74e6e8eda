package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/inception-api/internal/api"
	apiMiddleware "github.com/phrazzld/inception-api/internal/api/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter creates the application router with global middleware, the
// /api routes and the operational endpoints.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Tracing)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.Metrics)
	r.Use(apiMiddleware.CORS(apiMiddleware.CORSConfig{
		AllowedOrigins: app.config.Server.AllowedOrigins,
	}))

	routes := api.Routes{
		Auth:          api.NewAuthHandler(app.userService, app.jwtService, app.passwordVerifier, app.logger),
		Decks:         api.NewDeckHandler(app.deckService, app.logger),
		Items:         api.NewItemHandler(app.deckService, app.logger),
		Reviews:       api.NewReviewHandler(app.reviewService, app.logger),
		Authenticate:  apiMiddleware.NewAuthMiddleware(app.jwtService).Authenticate,
		ReviewLimiter: apiMiddleware.RateLimitPerMinute(app.config.Review.RequestsPerMinute, app.config.Review.Burst),
	}
	routes.Mount(r)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
