package run

import (
	"time"

	"github.com/zjrosen/runbook/internal/catalog"
)

// Status is the terminal (or snapshot) state of a run record.
type Status string

const (
	// StatusCompleted means every step was completed.
	StatusCompleted Status = "completed"
	// StatusCancelled means the run was closed before completion, either
	// explicitly or by being superseded by a new run.
	StatusCancelled Status = "cancelled"
	// StatusInProgress appears only on export snapshots of a still-open run.
	StatusInProgress Status = "in-progress"
)

// Record is the immutable snapshot taken when a run closes (or is exported).
type Record struct {
	Workflow         *catalog.Workflow
	StartedAt        time.Time
	CompletedAt      time.Time
	CompletedStepIDs []string
	Notes            []string
	Status           Status
}

// Close snapshots the run into a record with the given status. Progress and
// notes are frozen copies; later transitions on other run values cannot touch
// them.
func (r Run) Close(status Status, at time.Time) Record {
	return Record{
		Workflow:         r.Workflow,
		StartedAt:        r.StartedAt,
		CompletedAt:      at,
		CompletedStepIDs: append([]string(nil), r.CompletedStepIDs...),
		Notes:            append([]string(nil), r.Notes...),
		Status:           status,
	}
}

// Snapshot produces a read-only export record without closing the run. The
// status is completed when every step is done, in-progress otherwise.
func (r Run) Snapshot(at time.Time) Record {
	status := StatusInProgress
	if len(r.CompletedStepIDs) == len(r.Workflow.Steps) {
		status = StatusCompleted
	}
	return r.Close(status, at)
}
