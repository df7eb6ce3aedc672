package analysis

import (
	"fmt"

	"github.com/blackwell-systems/codewatch/internal/source"
)

// maxComplexity caps the derived complexity metric.
const maxComplexity = 20

// Score bands used by ComposeSuggestions.
const (
	GoodScore = 80
	FairScore = 60
)

// ComputeMetrics reduces the line list and issue list into Metrics.
//
// Formulas:
//   - lines_of_code:         non-blank lines
//   - complexity:            min(lines_of_code/10 + issues, 20)
//   - maintainability_index: max(100 - 2*complexity - issues, 0)
//   - technical_debt:        2 per major or critical issue
//   - code_smells:           warnings plus suggestions
func ComputeMetrics(lines []source.Line, issues []Issue) Metrics {
	loc := source.NonBlankCount(lines)

	complexity := loc/10 + len(issues)
	if complexity > maxComplexity {
		complexity = maxComplexity
	}

	maintainability := 100 - complexity*2 - len(issues)
	if maintainability < 0 {
		maintainability = 0
	}

	var debt, smells int
	for _, is := range issues {
		if is.Severity == SeverityMajor || is.Severity == SeverityCritical {
			debt += 2
		}
		if is.Type == TypeWarning || is.Type == TypeSuggestion {
			smells++
		}
	}

	return Metrics{
		Complexity:           complexity,
		MaintainabilityIndex: maintainability,
		TechnicalDebt:        debt,
		CodeSmells:           smells,
		DuplicateLines:       0,
		LinesOfCode:          loc,
	}
}

// ComputeScore returns max(100 - 5*issues - complexity, 0), capped at 100.
func ComputeScore(m Metrics, issues []Issue) int {
	score := 100 - 5*len(issues) - m.Complexity
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ComposeSuggestions returns remediation text for the score band followed by
// any complexity or robustness advice.
func ComposeSuggestions(score int, m Metrics, issues []Issue) []string {
	var out []string
	switch {
	case score < FairScore:
		out = append(out, "Code quality needs major rework: address the reported warnings and simplify the structure.")
	case score < GoodScore:
		out = append(out, "Good code quality with room to improve: resolve the remaining findings.")
	default:
		out = append(out, "Excellent code quality: maintain the current standards.")
	}

	if m.Complexity > 10 {
		out = append(out, fmt.Sprintf("Complexity is %d; break large functions into smaller, focused units.", m.Complexity))
	}
	if len(issues) > 10 {
		out = append(out, fmt.Sprintf("%d issues found; add error handling and input validation to improve robustness.", len(issues)))
	}
	return out
}
