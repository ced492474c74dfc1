package operations

import "time"

// Pipeline step identifiers
const (
	StepIDFilter   = "filter"
	StepIDClassify = "classify"
	StepIDResolve  = "resolve"
	StepIDGold     = "gold"
	StepIDPersist  = "persist"
)

// Pipeline step names
const (
	StepNameFilter   = "Course Filtering"
	StepNameClassify = "Row Classification"
	StepNameResolve  = "Identity Resolution"
	StepNameGold     = "Gold Table Derivation"
	StepNamePersist  = "Database Persistence"
)

// StepOrder lists the step identifiers in execution order.
var StepOrder = []string{StepIDFilter, StepIDClassify, StepIDResolve, StepIDGold, StepIDPersist}

// StepName maps a step identifier to its display name.
func StepName(id string) string {
	switch id {
	case StepIDFilter:
		return StepNameFilter
	case StepIDClassify:
		return StepNameClassify
	case StepIDResolve:
		return StepNameResolve
	case StepIDGold:
		return StepNameGold
	case StepIDPersist:
		return StepNamePersist
	default:
		return id
	}
}

// RunStatus represents the overall pipeline run status.
type RunStatus string

const (
	RunStatusIdle      RunStatus = "idle"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// StepStatus represents the status of a single pipeline step.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepSnapshot is the immutable view of one step after or during a run.
type StepSnapshot struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Status    StepStatus     `json:"status"`
	StartTime *time.Time     `json:"start_time,omitempty"`
	EndTime   *time.Time     `json:"end_time,omitempty"`
	Summary   map[string]int `json:"summary,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// RunSnapshot is the immutable view of a pipeline run, shaped for the status
// endpoint.
type RunSnapshot struct {
	RunID       string         `json:"run_id,omitempty"`
	Status      RunStatus      `json:"status"`
	CurrentStep string         `json:"current_step,omitempty"`
	StartTime   *time.Time     `json:"start_time,omitempty"`
	EndTime     *time.Time     `json:"end_time,omitempty"`
	Steps       []StepSnapshot `json:"steps,omitempty"`
	Error       string         `json:"error,omitempty"`
}
