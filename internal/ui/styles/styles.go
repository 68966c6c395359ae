// Package styles contains Lip Gloss style definitions for the chat UI.
package styles

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color tokens. Adaptive pairs are {Light, Dark}.
var (
	TextPrimaryColor = lipgloss.AdaptiveColor{Light: "#1A1A2E", Dark: "#E8E8F0"}
	TextMutedColor   = lipgloss.AdaptiveColor{Light: "#8A8A9E", Dark: "#6C6C80"}
	AccentColor      = lipgloss.AdaptiveColor{Light: "#5B5FC7", Dark: "#8B8FF0"}
	SuccessColor     = lipgloss.AdaptiveColor{Light: "#12805C", Dark: "#73F59F"}
	WarningColor     = lipgloss.AdaptiveColor{Light: "#B54708", Dark: "#FFB454"}
	ErrorColor       = lipgloss.AdaptiveColor{Light: "#B42318", Dark: "#FF8787"}
)

// Styles used by the chat view.
var (
	UserLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)

	UserTextStyle = lipgloss.NewStyle().
			Foreground(TextPrimaryColor)

	ChipStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(TextMutedColor)

	HistoryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(TextMutedColor)

	HistoryEntryStyle = lipgloss.NewStyle().
				Foreground(TextMutedColor)

	StatusCompletedStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	StatusCancelledStyle = lipgloss.NewStyle().Foreground(ErrorColor)
	StatusProgressStyle  = lipgloss.NewStyle().Foreground(WarningColor)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(TextMutedColor)
)

// HasDarkBackground reports the terminal background, used to pick the
// glamour style that matches the rest of the palette.
func HasDarkBackground() bool {
	return termenv.NewOutput(os.Stdout).HasDarkBackground()
}
