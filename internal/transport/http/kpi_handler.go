package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "ficaetl/internal/errors"
	"ficaetl/internal/infrastructure"
	"ficaetl/internal/kpi"
)

// Calculator is the KPI engine surface the handler needs.
type Calculator interface {
	IDs() []string
	Known(id string) bool
	Calculate(ctx context.Context, id string, cohorte int) (kpi.Result, error)
	CalculateAll(ctx context.Context, cohorte int) (map[string]kpi.Result, error)
}

// KPIHandler serves the indicator endpoints.
type KPIHandler struct {
	engine   Calculator
	metrics  *infrastructure.Metrics
	validate *validator.Validate
	logger   *slog.Logger
}

// NewKPIHandler creates a KPI handler.
func NewKPIHandler(engine Calculator, metrics *infrastructure.Metrics, logger *slog.Logger) *KPIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &KPIHandler{
		engine:   engine,
		metrics:  metrics,
		validate: validator.New(),
		logger:   logger.With(slog.String("handler", "kpi")),
	}
}

// cohortQuery carries the validated cohorte query parameter.
type cohortQuery struct {
	Cohorte int `validate:"gte=2000,lte=2100"`
}

func (h *KPIHandler) parseCohorte(r *http.Request) (int, *apierrors.APIError) {
	raw := r.URL.Query().Get("cohorte")
	if raw == "" {
		return kpi.DefaultCohort, nil
	}
	cohorte, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierrors.ErrValidation("cohorte", "must be an integer year")
	}
	if err := h.validate.Struct(cohortQuery{Cohorte: cohorte}); err != nil {
		return 0, apierrors.ErrValidation("cohorte", "must be a year between 2000 and 2100")
	}
	return cohorte, nil
}

// kpiResponse is the envelope for a single indicator.
type kpiResponse struct {
	KPI     string `json:"kpi"`
	Cohorte int    `json:"cohorte"`
	Value   any    `json:"value"`
	Meta    any    `json:"meta"`
}

// List handles GET /api/kpis.
func (h *KPIHandler) List(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"kpis":            h.engine.IDs(),
		"cohorte_default": kpi.DefaultCohort,
	})
}

// Get handles GET /api/kpis/{id}.
func (h *KPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.engine.Known(id) {
		render.Render(w, r, apierrors.NotFoundError("kpi "+id))
		return
	}
	cohorte, apiErr := h.parseCohorte(r)
	if apiErr != nil {
		render.Render(w, r, apiErr)
		return
	}

	h.metrics.KPIRequests.WithLabelValues(id).Inc()
	result, err := h.engine.Calculate(r.Context(), id, cohorte)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "kpi calculation failed",
			"kpi", id,
			"cohorte", cohorte,
			"error", err,
		)
		render.Render(w, r, apierrors.InternalError(err))
		return
	}

	render.JSON(w, r, kpiResponse{KPI: id, Cohorte: cohorte, Value: result.Value, Meta: result.Meta})
}

// GetAll handles GET /api/kpis/all.
func (h *KPIHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	cohorte, apiErr := h.parseCohorte(r)
	if apiErr != nil {
		render.Render(w, r, apiErr)
		return
	}

	h.metrics.KPIRequests.WithLabelValues("all").Inc()
	results, err := h.engine.CalculateAll(r.Context(), cohorte)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "kpi batch calculation failed",
			"cohorte", cohorte,
			"error", err,
		)
		render.Render(w, r, apierrors.InternalError(err))
		return
	}

	out := make(map[string]kpiResponse, len(results))
	for id, result := range results {
		out[id] = kpiResponse{KPI: id, Cohorte: cohorte, Value: result.Value, Meta: result.Meta}
	}
	render.JSON(w, r, map[string]any{
		"cohorte": cohorte,
		"kpis":    out,
	})
}
