// Package ui wires the chat model into a top-level bubbletea program.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/runbook/internal/ui/chat"
)

// App is the root tea.Model. It exists so chat.Model can keep the
// value-receiver Update signature its tests rely on.
type App struct {
	chat chat.Model
}

// NewApp creates the root model around a configured chat model.
func NewApp(chatModel chat.Model) App {
	return App{chat: chatModel}
}

// Init returns the initial command.
func (a App) Init() tea.Cmd {
	return a.chat.Init()
}

// Update delegates to the chat model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.chat, cmd = a.chat.Update(msg)
	return a, cmd
}

// View renders the chat surface.
func (a App) View() string {
	return a.chat.View()
}
