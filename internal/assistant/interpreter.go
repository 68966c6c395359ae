package assistant

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/runbook/internal/catalog"
	"github.com/zjrosen/runbook/internal/log"
	"github.com/zjrosen/runbook/internal/run"
)

// Result is what one Interpret call produces: the assistant replies, the run
// state the caller must commit, and an optional freshly closed run record.
// NextRun and Closed are both populated on supersession (starting workflow B
// while A is active), which is the only transition with two outputs.
type Result struct {
	Replies []Message
	NextRun *run.Run
	Closed  *run.Record
}

// Interpreter classifies free-text input into intents and executes them
// against the current run. It never returns an error: every invalid input is
// a modeled conversational outcome that leaves state unchanged.
type Interpreter struct {
	catalog *catalog.Catalog
	clock   func() time.Time
	tracer  trace.Tracer
	rules   []rule
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithClock overrides the clock, used by tests for deterministic timestamps.
func WithClock(clock func() time.Time) Option {
	return func(it *Interpreter) { it.clock = clock }
}

// WithTracer overrides the otel tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(it *Interpreter) { it.tracer = tracer }
}

// New creates an interpreter over the given catalog.
func New(cat *catalog.Catalog, opts ...Option) *Interpreter {
	it := &Interpreter{
		catalog: cat,
		clock:   time.Now,
		tracer:  otel.Tracer("github.com/zjrosen/runbook/internal/assistant"),
	}
	for _, opt := range opts {
		opt(it)
	}
	it.rules = it.buildRules()
	return it
}

// request carries one Interpret call's inputs. The normalized text is used
// for matching only; raw text is echoed back with its original casing.
type request struct {
	raw     string
	norm    string
	now     time.Time
	current *run.Run
}

// rule pairs an intent predicate with its handler. Rules are evaluated in
// order and the first matching predicate wins; a handler may decline (return
// handled=false) to let later rules see overlapping keywords, which only the
// details rule does.
type rule struct {
	intent string
	match  func(norm string) bool
	handle func(req request) (Result, bool)
}

// Interpret classifies input and executes the matched intent against current.
// The clock is read once per call; there is no other I/O. The caller must
// commit the returned NextRun/Closed before calling again.
func (it *Interpreter) Interpret(ctx context.Context, input string, current *run.Run) Result {
	_, span := it.tracer.Start(ctx, "assistant.interpret")
	defer span.End()

	req := request{
		raw:     strings.TrimSpace(input),
		norm:    strings.ToLower(strings.TrimSpace(input)),
		now:     it.clock(),
		current: current,
	}

	for _, r := range it.rules {
		if !r.match(req.norm) {
			continue
		}
		res, handled := r.handle(req)
		if !handled {
			continue
		}
		span.SetAttributes(attribute.String("assistant.intent", r.intent))
		log.Debug(log.CatAssistant, "interpreted input", "intent", r.intent)
		return res
	}

	span.SetAttributes(attribute.String("assistant.intent", "fallback"))
	return it.fallback(req)
}

// buildRules assembles the dispatch table. Order matters: categories overlap
// on purpose ("show" appears in both details and "show status") and priority
// resolves the ambiguity deterministically.
func (it *Interpreter) buildRules() []rule {
	return []rule{
		{intent: "idle", match: func(n string) bool { return n == "" }, handle: it.handleEmpty},
		{intent: "help", match: matchGreeting, handle: it.handleHelp},
		{intent: "catalog", match: matchCatalog, handle: it.handleCatalog},
		{intent: "details", match: matchDetails, handle: it.handleDetails},
		{intent: "start", match: matchStart, handle: it.handleStart},
		{intent: "advance", match: matchAdvance, handle: it.handleAdvance},
		{intent: "status", match: matchStatus, handle: it.handleStatus},
		{intent: "note", match: matchNote, handle: it.handleNote},
		{intent: "cancel", match: matchCancel, handle: it.handleCancel},
		{intent: "export", match: matchExport, handle: it.handleExport},
		{intent: "back", match: matchBack, handle: it.handleBack},
	}
}

func matchGreeting(n string) bool {
	return hasToken(n, "hi") || hasToken(n, "hello") || hasToken(n, "hey") ||
		strings.Contains(n, "help")
}

func matchCatalog(n string) bool {
	return strings.Contains(n, "list workflows") || n == "list" ||
		strings.Contains(n, "show workflows") || strings.Contains(n, "catalog")
}

func matchDetails(n string) bool {
	return strings.Contains(n, "details") || strings.Contains(n, "show") ||
		strings.Contains(n, "tell me about")
}

func matchStart(n string) bool {
	return strings.Contains(n, "start ") || strings.HasPrefix(n, "run ") ||
		strings.HasPrefix(n, "kick") || strings.Contains(n, "launch")
}

func matchAdvance(n string) bool {
	return strings.Contains(n, "complete") || strings.HasPrefix(n, "next") ||
		strings.Contains(n, "advance") || strings.Contains(n, "done")
}

func matchStatus(n string) bool {
	return strings.Contains(n, "status") || strings.Contains(n, "progress") ||
		strings.Contains(n, "where are we") || strings.Contains(n, "how far")
}

func matchNote(n string) bool {
	return strings.Contains(n, "note")
}

func matchCancel(n string) bool {
	return strings.Contains(n, "cancel") || strings.Contains(n, "stop run") ||
		strings.Contains(n, "abort")
}

func matchExport(n string) bool {
	return strings.Contains(n, "export") || strings.Contains(n, "summary")
}

func matchBack(n string) bool {
	return strings.Contains(n, "previous step") || strings.Contains(n, "go back")
}

var tokenSplit = regexp.MustCompile(`[^a-z0-9']+`)

// hasToken reports whether word appears as a whole token in the normalized
// text, so "hi" matches "hi there" but not "this".
func hasToken(norm, word string) bool {
	for _, tok := range tokenSplit.Split(norm, -1) {
		if tok == word {
			return true
		}
	}
	return false
}
