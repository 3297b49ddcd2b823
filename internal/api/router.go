package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mbraun/myflix-be/internal/api/handlers"
	"github.com/mbraun/myflix-be/internal/auth"
	"github.com/mbraun/myflix-be/internal/metrics"
	"github.com/mbraun/myflix-be/internal/ratelimit"
	"github.com/mbraun/myflix-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	userService services.UserServiceProvider,
	movieService services.MovieServiceProvider,
	collector *metrics.Collector,
	limiter *ratelimit.Limiter,
	allowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(collector.Middleware)
	r.Use(limiter.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	movieHandler := handlers.NewMovieHandler(movieService)

	// Public routes
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Welcome to the myFlix API!"}`))
	})
	r.Post("/users", userHandler.Register)
	r.Post("/login", userHandler.Login)
	r.Handle("/metrics", collector.Handler())

	// Token-protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.JWTMiddleware())

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", movieHandler.GetAll)
			r.Get("/genres/{name}", movieHandler.GetGenre)
			r.Get("/directors/{name}", movieHandler.GetDirector)
			r.Get("/{title}", movieHandler.Get)
		})

		r.Get("/users", userHandler.GetAll)
		r.Get("/users/me", userHandler.GetMe)
		r.Route("/users/{username}", func(r chi.Router) {
			r.Get("/", userHandler.Get)

			// Mutations are restricted to the account owner.
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireSelf)
				r.Put("/", userHandler.Update)
				r.Delete("/", userHandler.Delete)
				r.Post("/movies/{movieID}", userHandler.AddFavorite)
				r.Delete("/movies/{movieID}", userHandler.RemoveFavorite)
			})
		})
	})

	return r
}
