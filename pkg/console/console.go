// Package console renders extraction results for extractcli's demo CLI,
// grounded on the teacher's pkg/console: the same applyStyle-gated-by-TTY
// pattern, the same rounded-border error box, the same simple
// Format*Message helpers — trimmed down to what an extraction summary
// needs (no workflow tables, no interactive forms).
package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/extractcli/extractcli/internal/obslog"
	"github.com/extractcli/extractcli/pkg/styles"
	"github.com/extractcli/extractcli/pkg/tty"
)

var consoleLog = obslog.New("console")

func isTTY() bool {
	return tty.IsStdoutTerminal()
}

func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}

// FormatSuccessMessage formats a successful-extraction headline.
func FormatSuccessMessage(message string) string {
	return applyStyle(styles.Success, "✓ "+message)
}

// FormatWarningMessage formats a retried-attempt line.
func FormatWarningMessage(message string) string {
	return applyStyle(styles.Warning, "⚠ "+message)
}

// FormatInfoMessage formats a metrics/progress line.
func FormatInfoMessage(message string) string {
	return applyStyle(styles.Info, message)
}

// FormatErrorMessage formats a single error line.
func FormatErrorMessage(message string) string {
	return applyStyle(styles.Error, "✗ "+message)
}

// RenderErrorBox wraps a MaxRetriesExceeded summary in a rounded border box
// and returns it as individually printable lines.
func RenderErrorBox(title string) []string {
	boxed := styles.ErrorBox.Render(title)
	return strings.Split(boxed, "\n")
}

// RenderAttemptHistory renders a failed extraction's attempt history as a
// tree: one branch per attempt, one leaf per validation error.
func RenderAttemptHistory(attempts []AttemptSummary) string {
	consoleLog.Debugf("rendering attempt history: %d attempts", len(attempts))

	root := tree.Root("attempts")
	for _, a := range attempts {
		label := applyStyle(styles.Comment, fmt.Sprintf("attempt %d", a.Index))
		branch := tree.Root(label)
		if len(a.ValidationErrors) == 0 {
			branch.Child(applyStyle(styles.Body, "(no validation errors recorded)"))
		}
		for _, e := range a.ValidationErrors {
			branch.Child(applyStyle(styles.Error, e))
		}
		root.Child(branch)
	}
	return root.String()
}
