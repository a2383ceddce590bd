package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/eventix/eventix-be/internal/api/handlers"
	"github.com/eventix/eventix-be/internal/api/middleware"
	"github.com/eventix/eventix-be/internal/auth"
	"github.com/eventix/eventix-be/internal/config"
	"github.com/eventix/eventix-be/internal/metrics"
	"github.com/eventix/eventix-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	tokens *auth.Tokens,
	authService services.AuthServiceProvider,
	eventService services.EventServiceProvider,
	clubService services.ClubServiceProvider,
	categoryService services.CategoryServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	eventHandler := handlers.NewEventHandler(eventService)
	clubHandler := handlers.NewClubHandler(clubService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)

	authLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitAuthRPS), cfg.RateLimitAuthBurst)

	r.Get("/api/health", handlers.Health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Limit)
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(tokens.Middleware)
				r.Get("/me", authHandler.Me)
				r.Get("/check", authHandler.Check)
			})
		})

		r.Route("/events", func(r chi.Router) {
			// Public reads
			r.Get("/", eventHandler.List)
			r.Get("/cards/all", eventHandler.List)
			r.Get("/{id}", eventHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(tokens.Middleware)
				r.Get("/mine", eventHandler.Mine)
			})

			// Writes are for clubs and superadmins only; ownership is
			// enforced in the service layer.
			r.Group(func(r chi.Router) {
				r.Use(tokens.Middleware)
				r.Use(auth.RequireRoles(auth.RoleClub, auth.RoleSuperAdmin))
				r.Post("/", eventHandler.Create)
				r.Put("/{id}", eventHandler.Update)
				r.Delete("/{id}", eventHandler.Delete)
			})
		})

		r.Route("/clubs", func(r chi.Router) {
			r.Get("/", clubHandler.List)
			r.Post("/", clubHandler.Create)
		})

		r.Get("/categories", categoryHandler.List)
	})

	return r
}
