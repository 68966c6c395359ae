package ui

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/runbook/internal/assistant"
	"github.com/zjrosen/runbook/internal/catalog"
	"github.com/zjrosen/runbook/internal/ui/chat"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	m.Run()
}

func testApp(t *testing.T) App {
	t.Helper()
	cat, err := catalog.New(catalog.Workflow{
		ID:      "incident-response",
		Name:    "Incident Response",
		Summary: "Coordinate a production incident.",
		Steps: []catalog.Step{
			{ID: "triage", Title: "Triage", Description: "Assess severity", Owner: "On-call"},
			{ID: "mitigate", Title: "Mitigate", Description: "Stop the bleeding", Owner: "IC"},
		},
	})
	require.NoError(t, err)

	return NewApp(chat.New(chat.Config{
		Interpreter:      assistant.New(cat),
		ShowHistory:      true,
		ShowQuickActions: true,
	}))
}

func TestApp_WelcomeAndQuit(t *testing.T) {
	tm := teatest.NewTestModel(t, testApp(t), teatest.WithInitialTermSize(100, 30))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Welcome"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}

func TestApp_StartRunThroughInput(t *testing.T) {
	tm := teatest.NewTestModel(t, testApp(t), teatest.WithInitialTermSize(100, 30))

	tm.Type("start incident response")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Step 1 of 2"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
