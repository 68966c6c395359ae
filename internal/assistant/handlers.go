package assistant

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/zjrosen/runbook/internal/run"
)

// Notes attached by lifecycle transitions.
const (
	supersededNote = "Automatically closed when a new workflow started."
	cancelledNote  = "Run cancelled before completion."
)

const redirectReply = "There's no active run right now. Start a run or list workflows to see what I can drive."

// reply builds a single-message unchanged-state result.
func unchanged(req request, content string) Result {
	return Result{
		Replies: []Message{NewAssistantMessage(content)},
		NextRun: req.current,
	}
}

func (it *Interpreter) handleEmpty(req request) (Result, bool) {
	return unchanged(req, "I'm here when you're ready. Try \"list workflows\" to see what we can run."), true
}

func (it *Interpreter) handleHelp(req request) (Result, bool) {
	var b strings.Builder
	b.WriteString("Hi! I drive operational workflows step by step. You can say:\n")
	b.WriteString("\n- \"list workflows\" to browse the catalog")
	b.WriteString("\n- \"tell me about <workflow>\" for details")
	b.WriteString("\n- \"start <workflow>\" to begin a run")
	b.WriteString("\n- \"complete\" or \"next\" to finish the current step")
	b.WriteString("\n- \"status\" for progress, \"note: <text>\" to capture a note")
	b.WriteString("\n- \"export summary\" for a snapshot, \"cancel\" to stop the run")
	return unchanged(req, b.String()), true
}

func (it *Interpreter) handleCatalog(req request) (Result, bool) {
	return unchanged(req, formatCatalog(it.catalog.List())), true
}

// handleDetails resolves a workflow from the free text. When nothing matches
// and the text never says "workflow", it declines so later rules get a look:
// "show status" must reach the status rule instead of erroring here.
func (it *Interpreter) handleDetails(req request) (Result, bool) {
	if wf := it.catalog.FindByText(req.norm); wf != nil {
		return unchanged(req, formatWorkflowDetails(*wf)), true
	}
	if strings.Contains(req.norm, "workflow") {
		return unchanged(req, "I couldn't find that workflow. Say \"list workflows\" to see every name I know."), true
	}
	return Result{}, false
}

func (it *Interpreter) handleStart(req request) (Result, bool) {
	wf := it.catalog.FindByText(req.norm)
	if wf == nil {
		return unchanged(req, "I couldn't tell which workflow to start. Say \"list workflows\" and then \"start <name>\"."), true
	}

	var closed *run.Record
	var header string
	if req.current != nil && req.current.Workflow.ID != wf.ID {
		rec := req.current.WithNote(supersededNote).Close(run.StatusCancelled, req.now)
		closed = &rec
		header = fmt.Sprintf("Closed the active \"%s\" run.\n\n", req.current.Workflow.Name)
	}

	next := run.Start(wf, req.now)
	content := fmt.Sprintf("%sStarting \"%s\" (%d steps).\n\n%s",
		header, wf.Name, next.TotalSteps(), formatStep(next.CurrentStep(), 1, next.TotalSteps()))

	return Result{
		Replies: []Message{NewAssistantMessage(content)},
		NextRun: &next,
		Closed:  closed,
	}, true
}

func (it *Interpreter) handleAdvance(req request) (Result, bool) {
	if req.current == nil {
		return unchanged(req, redirectReply), true
	}
	current := *req.current
	step := current.CurrentStep()

	if current.CurrentStepCompleted() {
		return unchanged(req, fmt.Sprintf("\"%s\" is already marked complete.", step.Title)), true
	}

	marked := current.CompletingCurrent()
	if current.AtLastStep() {
		rec := marked.Close(run.StatusCompleted, req.now)
		content := fmt.Sprintf("That was the last step. \"%s\" is complete!\n\n%s",
			current.Workflow.Name, formatRecord(rec))
		return Result{
			Replies: []Message{NewAssistantMessage(content)},
			NextRun: nil,
			Closed:  &rec,
		}, true
	}

	next := marked.Advanced()
	content := fmt.Sprintf("Marked \"%s\" complete.\n\n%s",
		step.Title, formatStep(next.CurrentStep(), next.StepIndex+1, next.TotalSteps()))
	return Result{
		Replies: []Message{NewAssistantMessage(content)},
		NextRun: &next,
	}, true
}

func (it *Interpreter) handleStatus(req request) (Result, bool) {
	if req.current == nil {
		return unchanged(req, redirectReply), true
	}
	return unchanged(req, formatStatus(*req.current)), true
}

// Note extraction patterns, tried in order on the raw input so the note keeps
// its original casing.
var (
	notePattern    = regexp.MustCompile(`(?i)note\s*[:\-]?\s*(.+)$`)
	addNotePattern = regexp.MustCompile(`(?i)add\s+note\s+(.*)$`)
)

func (it *Interpreter) handleNote(req request) (Result, bool) {
	if req.current == nil {
		return unchanged(req, redirectReply), true
	}

	text := extractNote(req.raw)
	if text == "" {
		return unchanged(req, "To capture a note, say \"note: <text>\"."), true
	}

	next := req.current.WithNote(text)
	return Result{
		Replies: []Message{NewAssistantMessage(fmt.Sprintf("Noted: \"%s\"", text))},
		NextRun: &next,
	}, true
}

// extractNote pulls the note text out of the raw input, preferring the
// "note:" form over the "add note" form.
func extractNote(raw string) string {
	if m := notePattern.FindStringSubmatch(raw); m != nil {
		if text := strings.TrimSpace(m[1]); text != "" {
			return text
		}
	}
	if m := addNotePattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func (it *Interpreter) handleCancel(req request) (Result, bool) {
	if req.current == nil {
		return unchanged(req, redirectReply), true
	}
	rec := req.current.WithNote(cancelledNote).Close(run.StatusCancelled, req.now)
	content := fmt.Sprintf("Cancelled \"%s\".\n\n%s", req.current.Workflow.Name, formatRecord(rec))
	return Result{
		Replies: []Message{NewAssistantMessage(content)},
		NextRun: nil,
		Closed:  &rec,
	}, true
}

// handleExport is a read-only snapshot: the run stays active and Closed stays
// nil, unlike the completion and cancellation closures.
func (it *Interpreter) handleExport(req request) (Result, bool) {
	if req.current == nil {
		return unchanged(req, redirectReply), true
	}
	rec := req.current.Snapshot(req.now)
	return unchanged(req, formatRecord(rec)), true
}

func (it *Interpreter) handleBack(req request) (Result, bool) {
	if req.current == nil {
		return unchanged(req, redirectReply), true
	}
	if req.current.StepIndex == 0 {
		return unchanged(req, "We're already on the first step, there's nowhere further back to go."), true
	}
	prev := req.current.Back()
	content := fmt.Sprintf("Stepping back.\n\n%s",
		formatStep(prev.CurrentStep(), prev.StepIndex+1, prev.TotalSteps()))
	return Result{
		Replies: []Message{NewAssistantMessage(content)},
		NextRun: &prev,
	}, true
}

func (it *Interpreter) fallback(req request) Result {
	content := fmt.Sprintf("I'm not sure how to help with \"%s\". Try \"list workflows\", \"start <workflow>\", \"status\", or \"complete\".", req.raw)
	return unchanged(req, content)
}
