package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/smontes/catalog-api/app"
	"github.com/smontes/catalog-api/models"
)

// SetupRoutes configures all application routes and middleware.
//
// The authentication gate runs on every request; it only establishes
// identity. Write endpoints layer RequireAuthority on top, which is where
// anonymous or underprivileged callers are rejected.
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Authentication gate on every request
	r.Use(deps.AuthMiddleware.Authenticate)

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Token issuance
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.AuthHandler.HandleRegister)
			r.Post("/login", deps.AuthHandler.HandleLogin)
		})

		// Catalog reads are public; writes require the admin authority
		r.Route("/products", func(r chi.Router) {
			r.Get("/", deps.ProductHandler.HandleList)
			r.Get("/{id}", deps.ProductHandler.HandleGet)

			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMiddleware.RequireAuthority(models.AuthorityAdmin))
				r.Post("/", deps.ProductHandler.HandleCreate)
				r.Put("/{id}", deps.ProductHandler.HandleUpdate)
				r.Delete("/{id}", deps.ProductHandler.HandleDelete)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", deps.CategoryHandler.HandleList)
			r.Get("/{id}", deps.CategoryHandler.HandleGet)

			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMiddleware.RequireAuthority(models.AuthorityAdmin))
				r.Post("/", deps.CategoryHandler.HandleCreate)
				r.Put("/{id}", deps.CategoryHandler.HandleUpdate)
				r.Delete("/{id}", deps.CategoryHandler.HandleDelete)
			})
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
