package assistant

import (
	"fmt"

	"github.com/zjrosen/runbook/internal/run"
)

// Suggest proposes a short list of next commands. It is a pure function of
// the run state: with no active run it returns a fixed catalog-exploration
// set, with an active run the suggestions are parameterized by the current
// step's title.
func Suggest(current *run.Run) []string {
	if current == nil {
		return []string{
			"List workflows",
			"Tell me about incident response",
			"Start incident response",
			"Help",
		}
	}
	return []string{
		fmt.Sprintf("Complete %s", current.CurrentStep().Title),
		"Show status",
		"Note: blocked on review",
		"Export summary",
	}
}
