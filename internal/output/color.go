// Package output provides styled terminal rendering helpers for codewatch.
package output

import "github.com/charmbracelet/lipgloss"

// Color constants for consistent styling across the CLI.
var (
	// ColorPrimary is used for headers and emphasis.
	ColorPrimary = lipgloss.Color("#64b5f6")

	// ColorSuccess is used for approvals and high scores.
	ColorSuccess = lipgloss.Color("#66bb6a")

	// ColorError is used for errors, critical findings and rejections.
	ColorError = lipgloss.Color("#ef5350")

	// ColorWarning is used for warnings and needs-work verdicts.
	ColorWarning = lipgloss.Color("#fff59d")

	// ColorInfo is used for informational findings and suggestions.
	ColorInfo = lipgloss.Color("#4dd0e1")

	// ColorMuted is used for secondary text and borders.
	ColorMuted = lipgloss.Color("#888888")
)

// Styles provides reusable lipgloss styles.
var (
	// StyleHeader is used for section headers.
	StyleHeader lipgloss.Style

	// StyleSuccess is used for positive values.
	StyleSuccess lipgloss.Style

	// StyleError is used for negative values.
	StyleError lipgloss.Style

	// StyleWarning is used for cautionary values.
	StyleWarning lipgloss.Style

	// StyleInfo is used for informational values.
	StyleInfo lipgloss.Style

	// StyleMuted is used for de-emphasized text.
	StyleMuted lipgloss.Style

	// StyleBold is used for emphasized text.
	StyleBold lipgloss.Style

	// StyleLabel is used for metric labels.
	StyleLabel lipgloss.Style

	// StyleValue is used for metric values.
	StyleValue lipgloss.Style
)

func init() {
	applyStyles(false)
}

// noColor tracks whether color output is disabled.
var noColor bool

// SetNoColor disables or enables color output globally.
func SetNoColor(disabled bool) {
	noColor = disabled
	applyStyles(disabled)
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}

func applyStyles(plain bool) {
	base := lipgloss.NewStyle()
	if plain {
		StyleHeader = base
		StyleSuccess = base
		StyleError = base
		StyleWarning = base
		StyleInfo = base
		StyleMuted = base
		StyleBold = base
		StyleLabel = base.Width(24)
		StyleValue = base.Width(12)
		return
	}
	StyleHeader = base.Foreground(ColorPrimary).Bold(true)
	StyleSuccess = base.Foreground(ColorSuccess)
	StyleError = base.Foreground(ColorError)
	StyleWarning = base.Foreground(ColorWarning)
	StyleInfo = base.Foreground(ColorInfo)
	StyleMuted = base.Foreground(ColorMuted)
	StyleBold = base.Bold(true)
	StyleLabel = base.Width(24)
	StyleValue = base.Bold(true).Width(12)
}

// Severity renders a severity or finding type with its conventional color.
// Unknown values are rendered unstyled.
func Severity(s string) string {
	switch s {
	case "critical", "high", "error", "rejected":
		return StyleError.Render(s)
	case "major", "medium", "warning", "needs-work":
		return StyleWarning.Render(s)
	case "minor", "low", "suggestion", "info", "question":
		return StyleInfo.Render(s)
	case "praise", "approved":
		return StyleSuccess.Render(s)
	default:
		return s
	}
}
