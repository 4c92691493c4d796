package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskboard-dev/taskboard/backend/internal/setup"
	mw "github.com/taskboard-dev/taskboard/shared/middleware"
	"github.com/taskboard-dev/taskboard/shared/middleware/metrics"
)

// New creates the chi router with all the routes.
// Board routes see every caller; the service decides what an anonymous principal may do.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()
	cfg := deps.Config.Public

	r.Use(chi_middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(chi_middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.SecurityHeaders(cfg.SecureCookies))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(chi_middleware.Timeout(cfg.RequestTimeout))
		}

		r.Route("/auth", func(r chi.Router) {
			r.Use(authMw.NeedAuth())
			r.Post("/refresh", h.Refresh)
			r.Post("/logout", h.Logout)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Use(authMw.Principal())
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)

			r.Route("/{project}", func(r chi.Router) {
				r.Delete("/", h.ArchiveProject)
				r.Put("/members/{user}", h.ShareProject)
				r.Get("/board", h.GetBoard)

				r.Post("/columns", h.CreateColumn)
				r.Post("/columns/{column}/move", h.MoveColumn)
				r.Delete("/columns/{column}", h.ArchiveColumn)

				r.Post("/cards", h.CreateCard)
				r.Patch("/cards/{card}", h.UpdateCard)
				r.Post("/cards/{card}/move", h.MoveCard)
				r.Delete("/cards/{card}", h.ArchiveCard)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	return r
}
