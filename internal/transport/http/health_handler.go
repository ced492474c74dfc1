package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// Pinger checks database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db      Pinger
	version string
	logger  *slog.Logger
}

// NewHealthHandler creates a health handler. A nil db marks the database
// check as skipped, which cmd/etl style deployments without a database use.
func NewHealthHandler(db Pinger, version string, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{db: db, version: version, logger: logger.With(slog.String("handler", "health"))}
}

// Health handles GET /api/health. Answers 503 when the database is down.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	database := "skipped"
	code := http.StatusOK

	if h.db != nil {
		database = "up"
		if err := h.db.Ping(ctx); err != nil {
			h.logger.WarnContext(r.Context(), "database ping failed", "error", err)
			status = "degraded"
			database = "down"
			code = http.StatusServiceUnavailable
		}
	}

	render.Status(r, code)
	render.JSON(w, r, map[string]string{
		"status":   status,
		"database": database,
		"version":  h.version,
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}
