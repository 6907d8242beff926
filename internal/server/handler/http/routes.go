package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/atinyakov/restofinder/internal/middleware"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter constructs and returns an HTTP handler that serves the HTML
// pages, the JSON API, health and metrics.
//
// Routes:
//
//	GET|POST /                  → authHandler.LoginPage / Login
//	GET|POST /signup            → authHandler.SignupPage / Signup
//	GET      /logout            → authHandler.Logout
//	GET      /index             → searchHandler.Index            (session required)
//	GET|POST /recommendations   → searchHandler.RecommendationsPage / Recommendations
//	POST     /api/signup        → apiHandler.Signup
//	POST     /api/login         → apiHandler.Login
//	POST     /api/logout        → apiHandler.Logout
//	GET      /api/recommendations → apiHandler.Recommendations (session required)
//	GET      /healthz, /metrics
//
// Middleware chain (applied in order):
//  1. RequestID and Recoverer from chi
//  2. WithRequestLogging(logger)
//  3. WithMetrics
func NewRouter(
	authHandler *AuthHandler,
	searchHandler *SearchHandler,
	apiHandler *APIHandler,
	sessions middleware.SessionSource,
	db Pinger,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.WithMetrics)

	// HTML pages
	r.Get("/", authHandler.LoginPage)
	r.Post("/", authHandler.Login)
	r.Get("/signup", authHandler.SignupPage)
	r.Post("/signup", authHandler.Signup)
	r.Get("/logout", authHandler.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(sessions))
		r.Get("/index", searchHandler.Index)
	})
	r.Get("/recommendations", searchHandler.RecommendationsPage)
	r.Post("/recommendations", searchHandler.Recommendations)

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Post("/signup", apiHandler.Signup)
		r.Post("/login", apiHandler.Login)
		r.Post("/logout", apiHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAPISession(sessions))
			r.Get("/recommendations", apiHandler.Recommendations)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
