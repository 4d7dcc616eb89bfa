package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/capitalize-ai/gemini-chat/internal/auth"
	"github.com/capitalize-ai/gemini-chat/internal/middleware"
	"github.com/capitalize-ai/gemini-chat/pkg/logger"
)

// RouterConfig collects the handlers and settings of the HTTP API.
type RouterConfig struct {
	Health      *HealthHandler
	Auth        *AuthHandler
	Chatrooms   *ChatroomHandler
	Messages    *MessageHandler
	Stream      *StreamHandler
	Preferences *PreferencesHandler

	Tokens            *auth.Tokens
	RateLimitRequests int
	RateLimitWindow   time.Duration
	Logger            *logger.Logger
}

// NewRouter builds the chi router for the API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.CORS())

	// Health endpoints (no auth)
	r.Get("/health", cfg.Health.Health)
	r.Get("/ready", cfg.Health.Ready)

	// Metrics endpoint (no auth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Login (no auth)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
			r.Post("/auth/otp", cfg.Auth.RequestOTP)
			r.Delete("/auth/otp", cfg.Auth.ResetOTP)
			r.Post("/auth/verify", cfg.Auth.VerifyOTP)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Tokens))
			r.Use(middleware.RequireScope(auth.ScopeChat))
			r.Use(middleware.UserRateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

			r.Get("/auth/session", cfg.Auth.Session)
			r.Post("/auth/logout", cfg.Auth.Logout)

			r.Route("/chatrooms", func(r chi.Router) {
				r.Get("/", cfg.Chatrooms.List)
				r.Post("/", cfg.Chatrooms.Create)
				r.Get("/{id}", cfg.Chatrooms.Get)
				r.Delete("/{id}", cfg.Chatrooms.Delete)
				r.Put("/{id}/active", cfg.Chatrooms.Activate)
				r.Get("/{id}/messages", cfg.Chatrooms.Messages)
			})

			r.Get("/state", cfg.Chatrooms.State)
			r.Post("/messages", cfg.Messages.Send)

			r.Get("/preferences", cfg.Preferences.Get)
			r.Put("/preferences", cfg.Preferences.Update)
		})

		// The stream is long lived and exempt from the request rate limit.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Tokens))
			r.Use(middleware.RequireScope(auth.ScopeChat))
			r.Get("/stream", cfg.Stream.Stream)
		})
	})

	return r
}
