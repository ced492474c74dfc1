package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"ficaetl/internal/config"
	"ficaetl/internal/infrastructure"
	"ficaetl/internal/middleware"
)

// RouterDeps bundles everything the router mounts.
type RouterDeps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Metrics  *infrastructure.Metrics
	Pipeline *PipelineHandler
	KPI      *KPIHandler
	Health   *HealthHandler
}

// NewRouter builds the chi router with the full middleware chain and all
// API routes mounted.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(deps.Logger))
	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RateLimiter(deps.Config.Security.RateLimit))
	r.Use(middleware.CORS(deps.Config.Security.AllowedOrigins))

	r.Handle("/metrics", deps.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", deps.Health.Health)

		r.Route("/pipeline", func(r chi.Router) {
			r.Post("/", deps.Pipeline.Start)
			r.Get("/status", deps.Pipeline.Status)
		})

		r.Route("/kpis", func(r chi.Router) {
			r.Get("/", deps.KPI.List)
			r.Get("/all", deps.KPI.GetAll)
			r.Get("/{id}", deps.KPI.Get)
		})
	})

	return r
}
