package review

import "fmt"

// Verdict thresholds. Scores at or above ApproveThreshold are approved
// without a human sign-off.
const (
	ApproveThreshold   = 85
	NeedsWorkThreshold = 60
)

// Score starts at 100 and subtracts 10 per high, 5 per medium and 2 per low
// severity comment, clamped to [0, 100].
func Score(comments []Comment) int {
	score := 100
	for _, c := range comments {
		switch c.Severity {
		case SeverityHigh:
			score -= 10
		case SeverityMedium:
			score -= 5
		case SeverityLow:
			score -= 2
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

// Classify maps a score onto a verdict.
func Classify(score int) Status {
	switch {
	case score >= ApproveThreshold:
		return StatusApproved
	case score >= NeedsWorkThreshold:
		return StatusNeedsWork
	default:
		return StatusRejected
	}
}

// Recommend returns the score-band recommendation followed by issue and
// suggestion follow-ups.
func Recommend(score int, comments []Comment) []string {
	var out []string
	switch {
	case score >= 90:
		out = append(out, "Excellent code quality. Keep following the current practices.")
	case score >= 75:
		out = append(out, "Good code quality with minor improvements possible.")
	case score >= 60:
		out = append(out, "Fair code quality. Address the flagged issues before merging.")
	default:
		out = append(out, "Poor code quality. Significant rework is recommended before merging.")
	}

	counts := countByType(comments)
	if n := counts[TypeIssue]; n > 0 {
		out = append(out, fmt.Sprintf("Resolve the %d issue(s) identified in this review.", n))
	}
	if counts[TypeSuggestion] > 5 {
		out = append(out, "Several style suggestions were raised; consider adopting a linter or formatter.")
	}
	return out
}
