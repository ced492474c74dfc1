package operations

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"ficaetl/internal/dataprocessing"
	"ficaetl/internal/gold"
)

// Store persists the pipeline's outputs. Implementations report per-table row
// counts so the run summary can surface them.
type Store interface {
	// InsertBase writes the resolved rows into the base entity tables,
	// skipping rows that already exist.
	InsertBase(ctx context.Context, rows []dataprocessing.StudentRow) (map[string]int, error)
	// UpsertGold replaces the gold table rows for the students in tables.
	UpsertGold(ctx context.Context, tables gold.Tables) (map[string]int, error)
}

// RunResult collects the per-step summaries of one pipeline run.
type RunResult struct {
	RunID       string                          `json:"run_id"`
	Filter      dataprocessing.FilterSummary    `json:"filter"`
	Classify    dataprocessing.ClassifySummary  `json:"classify"`
	Resolve     dataprocessing.ResolveSummary   `json:"resolve"`
	Gold        gold.Summary                    `json:"gold"`
	BaseInserts map[string]int                  `json:"base_inserts"`
	GoldUpserts map[string]int                  `json:"gold_upserts"`

	// Resolved carries the final dataset for exports; omitted from the
	// JSON summary.
	Resolved []dataprocessing.StudentRow `json:"-"`
}

// Pipeline runs the full ingestion sequence over one source file: filter,
// classify, resolve, derive gold tables, persist.
type Pipeline struct {
	store    Store
	listener Listener
	logger   *slog.Logger
}

// NewPipeline wires a pipeline. A nil listener defaults to NopListener.
func NewPipeline(store Store, listener Listener, logger *slog.Logger) *Pipeline {
	if listener == nil {
		listener = NopListener{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{store: store, listener: listener, logger: logger}
}

// Run executes the pipeline over the spreadsheet at path.
func (p *Pipeline) Run(ctx context.Context, path string) (*RunResult, error) {
	runID := uuid.New().String()
	result := &RunResult{RunID: runID}

	p.listener.RunStarted(runID)
	p.logger.InfoContext(ctx, "pipeline run started",
		"run_id", runID,
		"file", path,
	)

	grid, err := dataprocessing.ReadGrid(path)
	if err != nil {
		return nil, p.fail(ctx, runID, StepIDFilter, fmt.Errorf("reading %s: %w", path, err))
	}

	p.listener.StepStarted(runID, StepIDFilter)
	filtered, filterSummary := dataprocessing.FilterCourses(grid)
	result.Filter = filterSummary
	p.listener.StepCompleted(runID, StepIDFilter, map[string]int{
		"total_rows":     filterSummary.TotalRows,
		"removed_rows":   filterSummary.RemovedRows,
		"remaining_rows": filterSummary.RemainingRows,
	})

	p.listener.StepStarted(runID, StepIDClassify)
	classified, classifySummary := dataprocessing.ClassifyRows(filtered)
	result.Classify = classifySummary
	p.listener.StepCompleted(runID, StepIDClassify, map[string]int{
		"total_rows":     classifySummary.TotalRows,
		"processed_rows": classifySummary.ProcessedRows,
		"paes":           classifySummary.GroupCounts[dataprocessing.GroupPAES],
		"pdt":            classifySummary.GroupCounts[dataprocessing.GroupPDT],
		"none":           classifySummary.GroupCounts[dataprocessing.GroupNone],
	})

	p.listener.StepStarted(runID, StepIDResolve)
	resolved, resolveSummary := dataprocessing.ResolveIdentities(classified)
	result.Resolve = resolveSummary
	result.Resolved = resolved
	p.listener.StepCompleted(runID, StepIDResolve, map[string]int{
		"total_rows":     resolveSummary.TotalRows,
		"num_students":   resolveSummary.NumStudents,
		"with_scores":    resolveSummary.WithScores,
		"without_scores": resolveSummary.WithoutScores,
	})

	p.listener.StepStarted(runID, StepIDGold)
	tables := gold.BuildAll(resolved)
	result.Gold = tables.Counts()
	p.listener.StepCompleted(runID, StepIDGold, map[string]int{
		"b1_student":       result.Gold.B1Students,
		"student_ramos":    result.Gold.Ramos,
		"student_aprueba8": result.Gold.Aprueba8,
	})

	p.listener.StepStarted(runID, StepIDPersist)
	baseInserts, err := p.store.InsertBase(ctx, resolved)
	if err != nil {
		return nil, p.fail(ctx, runID, StepIDPersist, fmt.Errorf("persisting base tables: %w", err))
	}
	goldUpserts, err := p.store.UpsertGold(ctx, tables)
	if err != nil {
		return nil, p.fail(ctx, runID, StepIDPersist, fmt.Errorf("persisting gold tables: %w", err))
	}
	result.BaseInserts = baseInserts
	result.GoldUpserts = goldUpserts
	persistSummary := make(map[string]int, len(baseInserts)+len(goldUpserts))
	for table, n := range baseInserts {
		persistSummary[table] = n
	}
	for table, n := range goldUpserts {
		persistSummary[table] = n
	}
	p.listener.StepCompleted(runID, StepIDPersist, persistSummary)

	p.listener.RunCompleted(runID)
	p.logger.InfoContext(ctx, "pipeline run completed",
		"run_id", runID,
		"students", resolveSummary.NumStudents,
		"rows", resolveSummary.TotalRows,
	)
	return result, nil
}

func (p *Pipeline) fail(ctx context.Context, runID, stepID string, err error) error {
	p.listener.RunFailed(runID, stepID, err)
	p.logger.ErrorContext(ctx, "pipeline run failed",
		"run_id", runID,
		"step", stepID,
		"error", err,
	)
	return err
}
