package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/NazarChaban/RestAPI-app/internal/api/handlers"
	"github.com/NazarChaban/RestAPI-app/internal/api/middleware"
	"github.com/NazarChaban/RestAPI-app/internal/config"
	"github.com/NazarChaban/RestAPI-app/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

func NewRouter(services *service.Services, cfg *config.Config, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth, log)
	userHandler := handlers.NewUserHandler(services.User, log)
	contactHandler := handlers.NewContactHandler(services.Contact, log)

	// The limiter is skipped in the test environment so table-driven handler
	// tests don't trip it.
	limitByIP := func(requests int) func(http.Handler) http.Handler {
		if cfg.Environment == "test" {
			return func(next http.Handler) http.Handler { return next }
		}
		return httprate.LimitByIP(requests, time.Minute)
	}

	r.Route("/api", func(r chi.Router) {
		// Public auth routes, rate limited per client IP
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(limitByIP(3))
				r.Post("/signup", authHandler.Signup)
				r.Post("/login", authHandler.Login)
				r.Get("/refresh_token", authHandler.Refresh)
			})

			r.Group(func(r chi.Router) {
				r.Use(limitByIP(5))
				r.Get("/confirmed_email/{token}", authHandler.ConfirmEmail)
				r.Post("/request_email", authHandler.RequestEmail)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", userHandler.Me)
				r.Patch("/avatar", userHandler.UpdateAvatar)
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Post("/", contactHandler.Create)
				r.Get("/", contactHandler.List)
				r.Get("/search", contactHandler.Search)
				r.Get("/birthdays", contactHandler.Birthdays)
				r.Get("/{contactID}", contactHandler.Get)
				r.Put("/{contactID}", contactHandler.Update)
				r.Patch("/{contactID}", contactHandler.Patch)
				r.Delete("/{contactID}", contactHandler.Delete)
			})
		})
	})

	return r
}
