package assistant

import (
	"fmt"
	"strings"

	"github.com/zjrosen/runbook/internal/catalog"
	"github.com/zjrosen/runbook/internal/run"
)

// Formatting helpers. All functions here are pure: they render domain values
// into markdown blocks used as reply content, with no side effects and no
// clock access. Optional fields that are empty are omitted rather than
// rendered blank.

const noNotesPlaceholder = "No notes were captured during this run."

const timeLayout = "Jan 2 2006 15:04"

// formatStep renders one step with its 1-based position.
func formatStep(step catalog.Step, position, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Step %d of %d: %s**\n\n", position, total, step.Title)
	b.WriteString(step.Description)
	fmt.Fprintf(&b, "\n\nOwner: %s", step.Owner)
	if step.Duration != "" {
		fmt.Fprintf(&b, "\nEstimated duration: %s", step.Duration)
	}
	if len(step.Outputs) > 0 {
		b.WriteString("\n\nExpected outputs:")
		for _, out := range step.Outputs {
			fmt.Fprintf(&b, "\n- %s", out)
		}
	}
	return b.String()
}

// formatStatus renders progress, the current step, and the most recent notes.
func formatStatus(r run.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** is %d%% complete (%d of %d steps done).\n\n",
		r.Workflow.Name, r.Percent(), len(r.CompletedStepIDs), r.TotalSteps())

	step := r.CurrentStep()
	fmt.Fprintf(&b, "Current step: **%s** (%s)\n%s\n", step.Title, step.Owner, step.Description)

	recent := recentNotes(r.Notes, 3)
	if len(recent) == 0 {
		b.WriteString("\nRecent notes: none yet.")
	} else {
		b.WriteString("\nRecent notes:")
		for _, note := range recent {
			fmt.Fprintf(&b, "\n- %s", note)
		}
	}
	return b.String()
}

// recentNotes returns up to limit notes, most recent first.
func recentNotes(notes []string, limit int) []string {
	if len(notes) == 0 {
		return nil
	}
	if limit > len(notes) {
		limit = len(notes)
	}
	out := make([]string, 0, limit)
	for i := len(notes) - 1; i >= len(notes)-limit; i-- {
		out = append(out, notes[i])
	}
	return out
}

// formatRecord renders a closed or exported run record.
func formatRecord(rec run.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (%s)\n\n", rec.Workflow.Name, rec.Status)
	fmt.Fprintf(&b, "Started: %s\n", rec.StartedAt.Format(timeLayout))
	if rec.Status == run.StatusInProgress {
		fmt.Fprintf(&b, "As of: %s\n", rec.CompletedAt.Format(timeLayout))
	} else {
		fmt.Fprintf(&b, "Closed: %s\n", rec.CompletedAt.Format(timeLayout))
	}
	fmt.Fprintf(&b, "Steps completed: %d of %d\n", len(rec.CompletedStepIDs), len(rec.Workflow.Steps))

	if len(rec.Notes) == 0 {
		b.WriteString("\n" + noNotesPlaceholder)
	} else {
		b.WriteString("\nNotes:")
		for _, note := range rec.Notes {
			fmt.Fprintf(&b, "\n- %s", note)
		}
	}
	return b.String()
}

// formatWorkflowDetails renders the headline, summary, ordered steps,
// checklist, and resources of a workflow.
func formatWorkflowDetails(wf catalog.Workflow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n%s\n", wf.Name, wf.Summary)

	b.WriteString("\nSteps:")
	for i, step := range wf.Steps {
		fmt.Fprintf(&b, "\n%d. **%s** (%s)", i+1, step.Title, step.Owner)
	}
	b.WriteString("\n")

	if len(wf.Checklist) > 0 {
		b.WriteString("\nChecklist:")
		for _, item := range wf.Checklist {
			fmt.Fprintf(&b, "\n- %s", item)
		}
		b.WriteString("\n")
	}
	if len(wf.Resources) > 0 {
		b.WriteString("\nResources:")
		for _, res := range wf.Resources {
			fmt.Fprintf(&b, "\n- %s", res)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatCatalog renders every workflow's name, summary, and metrics.
func formatCatalog(workflows []catalog.Workflow) string {
	var b strings.Builder
	b.WriteString("Here are the workflows I can drive:\n")
	for _, wf := range workflows {
		fmt.Fprintf(&b, "\n**%s** (`%s`)\n%s", wf.Name, wf.ID, wf.Summary)
		if len(wf.Metrics) > 0 {
			fmt.Fprintf(&b, "\nMetrics: %s", strings.Join(wf.Metrics, ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
