// Package run models a single workflow execution: the active run value, the
// immutable record produced when a run closes, and the bounded history of
// closed runs.
//
// Run is a value type with copy-on-write transitions. Every mutating method
// returns a new Run whose slices are freshly allocated, so a caller holding a
// previous Run (for history or comparison) never observes later changes.
package run

import (
	"math"
	"time"

	"github.com/zjrosen/runbook/internal/catalog"
)

// Run is one in-progress execution of a workflow. The workflow reference is
// shared and read-only; everything else belongs to this run.
type Run struct {
	// Workflow is the definition being executed.
	Workflow *catalog.Workflow

	// StepIndex is the current position, 0 <= StepIndex < len(Workflow.Steps).
	StepIndex int

	// CompletedStepIDs grows monotonically and never contains duplicates.
	CompletedStepIDs []string

	// StartedAt is set once at creation.
	StartedAt time.Time

	// Notes is append-only for the life of the run.
	Notes []string
}

// Start creates a fresh run at step 0 with no progress and no notes.
func Start(wf *catalog.Workflow, at time.Time) Run {
	return Run{
		Workflow:         wf,
		StepIndex:        0,
		CompletedStepIDs: []string{},
		StartedAt:        at,
		Notes:            []string{},
	}
}

// CurrentStep returns the step at StepIndex.
func (r Run) CurrentStep() catalog.Step {
	return r.Workflow.Steps[r.StepIndex]
}

// TotalSteps returns the number of steps in the workflow.
func (r Run) TotalSteps() int {
	return len(r.Workflow.Steps)
}

// AtLastStep reports whether StepIndex is the final step.
func (r Run) AtLastStep() bool {
	return r.StepIndex == len(r.Workflow.Steps)-1
}

// StepCompleted reports whether the given step id has been completed.
func (r Run) StepCompleted(id string) bool {
	for _, done := range r.CompletedStepIDs {
		if done == id {
			return true
		}
	}
	return false
}

// CurrentStepCompleted reports whether the current step is already marked done.
func (r Run) CurrentStepCompleted() bool {
	return r.StepCompleted(r.CurrentStep().ID)
}

// Percent returns progress as a whole percentage, rounded to nearest.
// A workflow with zero steps (which the catalog rejects) reports 0.
func (r Run) Percent() int {
	total := len(r.Workflow.Steps)
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(len(r.CompletedStepIDs)) / float64(total) * 100))
}

// CompletingCurrent returns a copy with the current step id appended to the
// completed list. The caller is responsible for checking CurrentStepCompleted
// first; marking twice would break the no-duplicates invariant.
func (r Run) CompletingCurrent() Run {
	next := r.clone()
	next.CompletedStepIDs = append(next.CompletedStepIDs, r.CurrentStep().ID)
	return next
}

// Advanced returns a copy positioned on the next step.
func (r Run) Advanced() Run {
	next := r.clone()
	next.StepIndex++
	return next
}

// Back returns a copy positioned on the previous step. Going back does not
// unmark a completed step. The caller guards against StepIndex 0.
func (r Run) Back() Run {
	next := r.clone()
	next.StepIndex--
	return next
}

// WithNote returns a copy with the note appended.
func (r Run) WithNote(text string) Run {
	next := r.clone()
	next.Notes = append(next.Notes, text)
	return next
}

// clone deep-copies the run's own slices so transitions never alias state
// reachable from earlier values.
func (r Run) clone() Run {
	next := r
	next.CompletedStepIDs = append([]string(nil), r.CompletedStepIDs...)
	next.Notes = append([]string(nil), r.Notes...)
	return next
}
