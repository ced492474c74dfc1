package operations

import (
	"sync"
	"time"
)

// Listener receives progress events from a pipeline run. Implementations must
// be safe for use from the run's goroutine; the pipeline itself never blocks
// on listener errors.
type Listener interface {
	RunStarted(runID string)
	StepStarted(runID, stepID string)
	StepCompleted(runID, stepID string, summary map[string]int)
	RunCompleted(runID string)
	RunFailed(runID, stepID string, err error)
}

// NopListener discards all events.
type NopListener struct{}

func (NopListener) RunStarted(string)                            {}
func (NopListener) StepStarted(string, string)                   {}
func (NopListener) StepCompleted(string, string, map[string]int) {}
func (NopListener) RunCompleted(string)                          {}
func (NopListener) RunFailed(string, string, error)              {}

// Tracker is a Listener that keeps the state of the most recent run for the
// status endpoint, and guards against concurrent runs via Busy.
type Tracker struct {
	mu sync.RWMutex

	runID       string
	status      RunStatus
	currentStep string
	startTime   *time.Time
	endTime     *time.Time
	lastError   string
	steps       map[string]*StepSnapshot
}

// NewTracker returns a Tracker in the idle state.
func NewTracker() *Tracker {
	return &Tracker{status: RunStatusIdle}
}

// Busy reports whether a run is currently in progress.
func (t *Tracker) Busy() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status == RunStatusRunning
}

// Snapshot returns a copy of the tracked state.
func (t *Tracker) Snapshot() RunSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := RunSnapshot{
		RunID:       t.runID,
		Status:      t.status,
		CurrentStep: t.currentStep,
		Error:       t.lastError,
	}
	if t.startTime != nil {
		start := *t.startTime
		snap.StartTime = &start
	}
	if t.endTime != nil {
		end := *t.endTime
		snap.EndTime = &end
	}
	for _, id := range StepOrder {
		step, ok := t.steps[id]
		if !ok {
			continue
		}
		snap.Steps = append(snap.Steps, *step)
	}
	return snap
}

func (t *Tracker) RunStarted(runID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	t.runID = runID
	t.status = RunStatusRunning
	t.currentStep = ""
	t.startTime = &now
	t.endTime = nil
	t.lastError = ""
	t.steps = make(map[string]*StepSnapshot, len(StepOrder))
	for _, id := range StepOrder {
		t.steps[id] = &StepSnapshot{ID: id, Name: StepName(id), Status: StepStatusPending}
	}
}

func (t *Tracker) StepStarted(runID, stepID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if runID != t.runID {
		return
	}
	t.currentStep = stepID
	if step, ok := t.steps[stepID]; ok {
		now := time.Now()
		step.Status = StepStatusActive
		step.StartTime = &now
	}
}

func (t *Tracker) StepCompleted(runID, stepID string, summary map[string]int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if runID != t.runID {
		return
	}
	if step, ok := t.steps[stepID]; ok {
		now := time.Now()
		step.Status = StepStatusCompleted
		step.EndTime = &now
		step.Summary = summary
	}
}

func (t *Tracker) RunCompleted(runID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if runID != t.runID {
		return
	}
	now := time.Now()
	t.status = RunStatusCompleted
	t.currentStep = ""
	t.endTime = &now
}

func (t *Tracker) RunFailed(runID, stepID string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if runID != t.runID {
		return
	}
	now := time.Now()
	t.status = RunStatusFailed
	t.endTime = &now
	if err != nil {
		t.lastError = err.Error()
	}
	if step, ok := t.steps[stepID]; ok {
		step.Status = StepStatusFailed
		step.EndTime = &now
		step.Error = t.lastError
	}
}
