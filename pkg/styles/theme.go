// Package styles provides centralized color and style definitions for the
// extractcli demo CLI's terminal output.
//
// Colors use lipgloss.AdaptiveColor so rendering stays readable in both
// light and dark terminal themes without the caller having to detect the
// background itself.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// ColorError is used for failed extractions and validation errors.
	ColorError = lipgloss.AdaptiveColor{
		Light: "#D73737",
		Dark:  "#FF5555",
	}

	// ColorWarning is used for retried attempts.
	ColorWarning = lipgloss.AdaptiveColor{
		Light: "#E67E22",
		Dark:  "#FFB86C",
	}

	// ColorSuccess is used for a validated, submitted result.
	ColorSuccess = lipgloss.AdaptiveColor{
		Light: "#27AE60",
		Dark:  "#50FA7B",
	}

	// ColorInfo is used for metrics and general progress text.
	ColorInfo = lipgloss.AdaptiveColor{
		Light: "#2980B9",
		Dark:  "#8BE9FD",
	}

	// ColorComment is used for muted secondary text (paths, attempt indices).
	ColorComment = lipgloss.AdaptiveColor{
		Light: "#6C7A89",
		Dark:  "#6272A4",
	}

	// ColorForeground is used for primary body text.
	ColorForeground = lipgloss.AdaptiveColor{
		Light: "#2C3E50",
		Dark:  "#F8F8F2",
	}

	// ColorBorder is used for box borders.
	ColorBorder = lipgloss.AdaptiveColor{
		Light: "#BDC3C7",
		Dark:  "#44475A",
	}
)

// RoundedBorder is the border style used for the error/summary boxes.
var RoundedBorder = lipgloss.RoundedBorder()

var (
	// Error style for failure headlines.
	Error = lipgloss.NewStyle().Bold(true).Foreground(ColorError)

	// Warning style for a retried attempt line.
	Warning = lipgloss.NewStyle().Foreground(ColorWarning)

	// Success style for a successful extraction headline.
	Success = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)

	// Info style for metrics text.
	Info = lipgloss.NewStyle().Foreground(ColorInfo)

	// Comment style for muted secondary text.
	Comment = lipgloss.NewStyle().Italic(true).Foreground(ColorComment)

	// Body style for plain emphasized text.
	Body = lipgloss.NewStyle().Foreground(ColorForeground)

	// ErrorBox style wraps the final MaxRetriesExceeded summary.
	ErrorBox = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(ColorError).
			Padding(1, 2)
)
