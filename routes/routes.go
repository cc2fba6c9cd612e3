package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/midburn/spark-admin/app"
	appmw "github.com/midburn/spark-admin/middleware"
	"github.com/midburn/spark-admin/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS middleware. Credentials are allowed so the Spark session cookie
	// reaches the API from the admin client.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	// Spark login redirects
	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", deps.AuthHandler.HandleLogin)
		r.Get("/logout", deps.AuthHandler.HandleLogout)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Establishes the session itself, so it is not behind RequireSession
		r.Get("/bootstrap", deps.BootstrapHandler.HandleBootstrap)

		r.Route("/allocations", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireSession)

			r.Route("/presale", func(r chi.Router) {
				r.Get("/changes", deps.AllocationsHandler.HandlePendingChanges)
				r.Delete("/changes", deps.AllocationsHandler.HandleDiscardChanges)
				r.Put("/changes/{groupID}", deps.AllocationsHandler.HandleStageChange)
				r.Post("/commit", deps.AllocationsHandler.HandleCommit)
				r.Get("/{groupType}", deps.AllocationsHandler.HandleLoadPresale)
			})

			r.Get("/dgs/{groupType}", deps.AllocationsHandler.HandleLoadDGS)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})

	return r
}
