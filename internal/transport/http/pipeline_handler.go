package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/render"

	apierrors "ficaetl/internal/errors"
	"ficaetl/internal/files"
	"ficaetl/internal/infrastructure"
	"ficaetl/internal/operations"
	"ficaetl/internal/validation"
)

// PipelineRunner executes a full ingestion run over one source file.
type PipelineRunner interface {
	Run(ctx context.Context, path string) (*operations.RunResult, error)
}

// StatusReader exposes the live state of the current or last run.
type StatusReader interface {
	Busy() bool
	Snapshot() operations.RunSnapshot
}

// PipelineHandler accepts source uploads and reports run status.
type PipelineHandler struct {
	runner         PipelineRunner
	tracker        StatusReader
	uploads        *files.Manager
	validator      *validation.FileValidator
	metrics        *infrastructure.Metrics
	maxUploadBytes int64
	logger         *slog.Logger

	running atomic.Bool
}

// NewPipelineHandler creates a pipeline handler.
func NewPipelineHandler(runner PipelineRunner, tracker StatusReader, uploads *files.Manager, metrics *infrastructure.Metrics, maxUploadBytes int64, logger *slog.Logger) *PipelineHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PipelineHandler{
		runner:         runner,
		tracker:        tracker,
		uploads:        uploads,
		validator:      validation.NewFileValidator(logger),
		metrics:        metrics,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("handler", "pipeline")),
	}
}

// Start handles POST /api/pipeline. It stores the uploaded spreadsheet and
// launches the run in the background; progress is available from Status.
func (h *PipelineHandler) Start(w http.ResponseWriter, r *http.Request) {
	if h.running.Load() || h.tracker.Busy() {
		render.Render(w, r, apierrors.ErrPipelineRunning)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		render.Render(w, r, apierrors.NewWithDetails(http.StatusBadRequest,
			"INVALID_UPLOAD", "Could not read multipart upload", err.Error()))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		render.Render(w, r, apierrors.ErrValidation("file", "missing file field"))
		return
	}
	defer file.Close()

	if !validation.AllowedExtension(header.Filename) {
		render.Render(w, r, apierrors.ErrValidation("file", "expected a .csv or .xlsx file"))
		return
	}

	path, err := h.uploads.SaveUpload(header.Filename, file)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "storing upload failed", "error", err)
		render.Render(w, r, apierrors.InternalError(err))
		return
	}
	if err := h.validator.ValidateSourceFile(path); err != nil {
		render.Render(w, r, apierrors.ErrValidation("file", err.Error()))
		return
	}

	if !h.running.CompareAndSwap(false, true) {
		render.Render(w, r, apierrors.ErrPipelineRunning)
		return
	}
	go h.run(path)

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{
		"status":     "accepted",
		"file":       header.Filename,
		"status_url": "/api/pipeline/status",
	})
}

// run executes the pipeline detached from the request context so a client
// disconnect does not abort ingestion.
func (h *PipelineHandler) run(path string) {
	defer h.running.Store(false)

	ctx := context.Background()
	start := time.Now()
	result, err := h.runner.Run(ctx, path)
	h.metrics.RunDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		h.metrics.PipelineRuns.WithLabelValues("failed").Inc()
		h.logger.ErrorContext(ctx, "background pipeline run failed",
			"file", path,
			"error", err,
		)
		return
	}

	h.metrics.PipelineRuns.WithLabelValues("completed").Inc()
	h.metrics.RowsProcessed.Add(float64(result.Filter.RemainingRows))
}

// Status handles GET /api/pipeline/status.
func (h *PipelineHandler) Status(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.tracker.Snapshot())
}
