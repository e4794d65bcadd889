package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/amotify/amotify/internal/adapter/http/handler"
	"github.com/amotify/amotify/internal/adapter/http/middleware"
	"github.com/amotify/amotify/internal/infrastructure/auth"
	"github.com/amotify/amotify/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler       *handler.AuthHandler
	ExpenseHandler    *handler.ExpenseHandler
	SplitHandler      *handler.SplitHandler
	SettlementHandler *handler.SettlementHandler
	DashboardHandler  *handler.DashboardHandler
	HealthHandler     *handler.HealthHandler
	JWTManager        *auth.JWTManager
	IdempotencyStore  usecase.IdempotencyStore
	Logger            zerolog.Logger
	RateLimit         float64
	RateBurst         int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
		r.Use(limiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
				r.Use(idempotencyMiddleware.Wrap)
			}

			r.Get("/auth/me", cfg.AuthHandler.Me)
			r.Put("/auth/me", cfg.AuthHandler.UpdateProfile)

			r.Get("/users", cfg.AuthHandler.ListUsers)

			r.Get("/dashboard", cfg.DashboardHandler.Get)

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", cfg.ExpenseHandler.Create)
				r.Get("/", cfg.ExpenseHandler.List)
				r.Get("/{id}", cfg.ExpenseHandler.Get)
				r.Put("/{id}", cfg.ExpenseHandler.Update)
				r.Delete("/{id}", cfg.ExpenseHandler.Delete)

				r.Route("/{id}/split", func(r chi.Router) {
					r.Post("/even", cfg.SplitHandler.SplitEvenly)
					r.Post("/reset", cfg.SplitHandler.ResetSplit)
					r.Post("/percentage", cfg.SplitHandler.SetPercentage)
					r.Post("/amount", cfg.SplitHandler.SetAmount)
				})

				r.Post("/{id}/adjustments", cfg.SplitHandler.AddAdjustment)
				r.Delete("/{id}/adjustments", cfg.SplitHandler.RemoveAdjustment)
				r.Delete("/{id}/members/{userId}", cfg.SplitHandler.RemoveMember)

				r.Route("/{id}/settlement", func(r chi.Router) {
					r.Post("/mark-paid", cfg.SettlementHandler.MarkPaid)
					r.Post("/confirm", cfg.SettlementHandler.Confirm)
					r.Post("/revoke", cfg.SettlementHandler.Revoke)
				})
			})
		})
	})

	return r
}
