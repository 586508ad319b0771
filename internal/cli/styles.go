// styles.go defines the lipgloss styles for envup's console output.
//
// The status lines are color hints for humans, not a machine interface:
// green for completed steps, yellow for warnings (missing manifest),
// red for errors, and a dim gray for secondary detail. lipgloss handles
// terminal capability detection, so output degrades to plain text when
// stdout is not a TTY.
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmr-tortoise/envup/internal/model"
)

var (
	// headerStyle renders section headers and the closing message.
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4D96FF")).
			Bold(true)

	// okStyle renders successful step markers.
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	// warnStyle renders warning lines (non-fatal conditions).
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	// errorStyle renders error markers.
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	// dimStyle renders secondary detail (paths, policy values).
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// statusMarker returns the colored marker for a step status.
func statusMarker(status model.StepStatus) string {
	switch status {
	case model.StatusOK:
		return okStyle.Render("✓")
	case model.StatusSkipped:
		return dimStyle.Render("-")
	case model.StatusWarning:
		return warnStyle.Render("!")
	case model.StatusFailed:
		return errorStyle.Render("✗")
	default:
		return "?"
	}
}

// StepLine formats one step result as a console line:
// marker, step name, and dimmed detail when present.
//
// Exported for testing purposes (tested in output_test.go).
func StepLine(step model.StepResult) string {
	line := fmt.Sprintf("  %s %-14s", statusMarker(step.Status), step.Name)
	if step.Detail != "" {
		line += " " + dimStyle.Render(step.Detail)
	}
	return line
}
