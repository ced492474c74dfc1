package kpi

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultCohort is the entering cohort the indicators were designed around.
const DefaultCohort = 2022

// Engine computes the cohort indicators against a Store.
type Engine struct {
	store  Store
	logger *slog.Logger
}

// NewEngine wires a KPI engine.
func NewEngine(store Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, logger: logger}
}

type calcFunc func(*Engine, context.Context, int) (Result, error)

// kpiRegistry maps indicator identifiers to their calculators, in report
// order.
var kpiRegistry = []struct {
	id   string
	calc calcFunc
}{
	{"1.1", (*Engine).calculate11},
	{"1.2.1", (*Engine).calculate121},
	{"1.2.2", (*Engine).calculate122},
	{"1.3", (*Engine).calculate13},
	{"1.4", (*Engine).calculate14},
	{"1.5", (*Engine).calculate15},
	{"1.6", (*Engine).calculate16},
	{"1.7", (*Engine).calculate17},
	{"1.8", (*Engine).calculate18},
}

// IDs returns the identifiers of all registered indicators in report order.
func (e *Engine) IDs() []string {
	ids := make([]string, 0, len(kpiRegistry))
	for _, entry := range kpiRegistry {
		ids = append(ids, entry.id)
	}
	return ids
}

// Known reports whether id names a registered indicator.
func (e *Engine) Known(id string) bool {
	for _, entry := range kpiRegistry {
		if entry.id == id {
			return true
		}
	}
	return false
}

// Calculate computes a single indicator for the cohort. The returned error
// covers unknown identifiers and store failures only; data insufficiency is
// reported inside the Result.
func (e *Engine) Calculate(ctx context.Context, id string, cohorte int) (Result, error) {
	for _, entry := range kpiRegistry {
		if entry.id != id {
			continue
		}
		result, err := entry.calc(e, ctx, cohorte)
		if err != nil {
			return Result{}, fmt.Errorf("kpi %s: %w", id, err)
		}
		e.logger.InfoContext(ctx, "kpi calculated",
			"kpi", id,
			"cohorte", cohorte,
			"has_value", result.Value != nil,
		)
		return result, nil
	}
	return Result{}, fmt.Errorf("unknown kpi %q", id)
}

// CalculateAll computes every indicator concurrently and returns them keyed
// by identifier. The first store failure cancels the remaining work.
func (e *Engine) CalculateAll(ctx context.Context, cohorte int) (map[string]Result, error) {
	results := make(map[string]Result, len(kpiRegistry))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, entry := range kpiRegistry {
		entry := entry
		g.Go(func() error {
			result, err := entry.calc(e, gctx, cohorte)
			if err != nil {
				return fmt.Errorf("kpi %s: %w", entry.id, err)
			}
			mu.Lock()
			results[entry.id] = result
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
