// Package chat implements the bubbletea chat surface. The model owns the
// caller-side state the interpreter does not: the current run, the bounded
// run history, and the message list. Every submitted line goes through
// assistant.Interpret and the returned state is committed before the next
// call, so the interpreter never sees stale state.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/runbook/internal/assistant"
	"github.com/zjrosen/runbook/internal/catalog"
	"github.com/zjrosen/runbook/internal/log"
	"github.com/zjrosen/runbook/internal/run"
	"github.com/zjrosen/runbook/internal/ui/styles"
)

// CatalogReloadedMsg swaps in a freshly loaded catalog, typically sent by the
// fsnotify watcher when the user workflow directory changes.
type CatalogReloadedMsg struct {
	Catalog *catalog.Catalog
}

// Config configures a chat model.
type Config struct {
	Interpreter *assistant.Interpreter

	// HistoryCap bounds the closed-run history strip. Zero means the default.
	HistoryCap int

	ShowHistory      bool
	ShowQuickActions bool
}

// Model holds the chat UI state.
type Model struct {
	interp *assistant.Interpreter

	messages    []assistant.Message
	current     *run.Run
	history     *run.History
	suggestions []string

	input    textinput.Model
	viewport viewport.Model

	renderer    *glamour.TermRenderer
	renderCache *gocache.Cache

	showHistory      bool
	showQuickActions bool

	width  int
	height int
	ready  bool
}

// New creates a chat model. The welcome message and initial quick actions are
// in place before the first render.
func New(cfg Config) Model {
	input := textinput.New()
	input.Placeholder = "Type a command, e.g. \"list workflows\""
	input.Focus()

	m := Model{
		interp:           cfg.Interpreter,
		history:          run.NewHistory(cfg.HistoryCap),
		suggestions:      assistant.Suggest(nil),
		input:            input,
		renderCache:      gocache.New(10*time.Minute, 15*time.Minute),
		showHistory:      cfg.ShowHistory,
		showQuickActions: cfg.ShowQuickActions,
	}
	m.messages = append(m.messages, assistant.NewAssistantMessage(
		"Welcome to runbook. Say \"hi\" for a tour, or \"list workflows\" to get started."))
	return m
}

// Messages returns the conversation so far.
func (m Model) Messages() []assistant.Message {
	return m.messages
}

// CurrentRun returns the active run, or nil.
func (m Model) CurrentRun() *run.Run {
	return m.current
}

// History returns the closed-run history.
func (m Model) History() *run.History {
	return m.history
}

// Suggestions returns the current quick actions.
func (m Model) Suggestions() []string {
	return m.suggestions
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit(), nil
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			for i, suggestion := range m.suggestions {
				if zone.Get(quickActionZone(i)).InBounds(msg) {
					m.input.SetValue(suggestion)
					m.input.CursorEnd()
					return m, nil
				}
			}
		}

	case CatalogReloadedMsg:
		m.interp = assistant.New(msg.Catalog)
		log.Info(log.CatUI, "catalog reloaded", "workflows", msg.Catalog.Len())
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit runs one interpreter round trip and commits its outputs.
func (m Model) submit() Model {
	text := m.input.Value()
	m.input.Reset()

	m.messages = append(m.messages, assistant.NewUserMessage(text))
	res := m.interp.Interpret(context.Background(), text, m.current)

	m.current = res.NextRun
	if res.Closed != nil {
		m.history.Push(*res.Closed)
	}
	m.messages = append(m.messages, res.Replies...)
	m.suggestions = assistant.Suggest(m.current)

	m.refreshViewport()
	m.viewport.GotoBottom()
	return m
}

func (m Model) resize(width, height int) Model {
	m.width = width
	m.height = height

	chromeHeight := 2 // input box with its top border
	if m.showHistory {
		chromeHeight++
	}
	if m.showQuickActions {
		chromeHeight += 3 // bordered chips
	}
	vpHeight := height - chromeHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.input.Width = width - 4

	// Rendered markdown depends on the wrap width, so both the renderer and
	// the per-message cache are tied to the current width.
	m.renderer = newRenderer(width)
	m.renderCache.Flush()

	m.refreshViewport()
	m.viewport.GotoBottom()
	return m
}

func newRenderer(width int) *glamour.TermRenderer {
	style := glamour.WithStandardStyle("light")
	if styles.HasDarkBackground() {
		style = glamour.WithStandardStyle("dark")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width-2))
	if err != nil {
		log.Warn(log.CatUI, "creating markdown renderer", "error", err.Error())
		return nil
	}
	return r
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	var blocks []string
	for _, msg := range m.messages {
		blocks = append(blocks, m.renderMessage(msg))
	}
	m.viewport.SetContent(strings.Join(blocks, "\n"))
}

// renderMessage renders one message for the viewport. Assistant markdown goes
// through glamour with a width-keyed cache; user text is wrapped plainly.
func (m *Model) renderMessage(msg assistant.Message) string {
	if msg.Role == assistant.RoleUser {
		label := styles.UserLabelStyle.Render("You")
		body := styles.UserTextStyle.Render(wordwrap.String(msg.Content, max(m.width-4, 20)))
		return fmt.Sprintf("%s %s\n", label, body)
	}

	key := fmt.Sprintf("%s:%d", msg.ID, m.width)
	if cached, ok := m.renderCache.Get(key); ok {
		return cached.(string)
	}

	rendered := msg.Content
	if m.renderer != nil {
		if out, err := m.renderer.Render(msg.Content); err == nil {
			rendered = out
		}
	}
	m.renderCache.Set(key, rendered, gocache.DefaultExpiration)
	return rendered
}

// View renders the chat surface. The whole frame is passed through zone.Scan
// so quick-action chips are clickable.
func (m Model) View() string {
	if !m.ready {
		return ""
	}

	var sections []string
	if m.showHistory {
		sections = append(sections, m.historyView())
	}
	sections = append(sections, m.viewport.View())
	if m.showQuickActions {
		sections = append(sections, m.quickActionsView())
	}
	sections = append(sections, styles.InputStyle.Width(m.width).Render(m.input.View()))

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// historyView renders the closed-run strip, most recent first.
func (m Model) historyView() string {
	records := m.history.Records()
	if len(records) == 0 {
		return styles.HistoryTitleStyle.Render("No closed runs yet")
	}

	entries := make([]string, 0, len(records))
	for _, rec := range records {
		name := runewidth.Truncate(rec.Workflow.Name, 24, "…")
		entry := fmt.Sprintf("%s (%s)", name, statusStyle(rec.Status).Render(string(rec.Status)))
		entries = append(entries, entry)
	}
	line := styles.HistoryTitleStyle.Render("Recent: ") +
		styles.HistoryEntryStyle.Render(strings.Join(entries, "  "))
	return runewidth.Truncate(line, m.width, "…")
}

func statusStyle(status run.Status) lipgloss.Style {
	switch status {
	case run.StatusCompleted:
		return styles.StatusCompletedStyle
	case run.StatusCancelled:
		return styles.StatusCancelledStyle
	default:
		return styles.StatusProgressStyle
	}
}

// quickActionsView renders the suggestion chips with mouse zones.
func (m Model) quickActionsView() string {
	chips := make([]string, 0, len(m.suggestions))
	for i, suggestion := range m.suggestions {
		chip := styles.ChipStyle.Render(runewidth.Truncate(suggestion, 32, "…"))
		chips = append(chips, zone.Mark(quickActionZone(i), chip))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func quickActionZone(i int) string {
	return fmt.Sprintf("quick-action-%d", i)
}
