package output

import (
	"fmt"
	"strings"
)

// ScoreBar renders a visual progress bar for a 0-100 score. The bar is
// green at or above good, yellow at or above fair and red below.
// Example: "████████░░ 80/100"
func ScoreBar(score, good, fair, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := score * width / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	var rendered string
	switch {
	case score >= good:
		rendered = StyleSuccess.Render(bar)
	case score >= fair:
		rendered = StyleWarning.Render(bar)
	default:
		rendered = StyleError.Render(bar)
	}

	return fmt.Sprintf("%s %s", rendered, StyleMuted.Render(fmt.Sprintf("%d/100", score)))
}

// Section returns a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// KeyValue renders an aligned label/value pair.
func KeyValue(label, value string) string {
	return fmt.Sprintf(" %s %s", StyleLabel.Render(label), value)
}
