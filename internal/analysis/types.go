// Package analysis runs the diagnostic rule set over source lines and reduces
// the findings into quality metrics and a 0-100 score.
package analysis

import "github.com/blackwell-systems/codewatch/internal/source"

// Issue types.
const (
	TypeError      = "error"
	TypeWarning    = "warning"
	TypeInfo       = "info"
	TypeSuggestion = "suggestion"
)

// Severity levels, highest first.
const (
	SeverityCritical = "critical"
	SeverityMajor    = "major"
	SeverityMinor    = "minor"
	SeverityInfo     = "info"
)

// Rule categories used to gate rules through Options.
const (
	CategoryComplexity  = "complexity"
	CategoryStyle       = "style"
	CategorySecurity    = "security"
	CategoryPerformance = "performance"
)

// Issue is a single diagnostic finding.
type Issue struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
	Rule     string `json:"rule"`
	Fix      string `json:"fix,omitempty"`
}

// Metrics are the scalar quality metrics derived from a scan.
type Metrics struct {
	Complexity           int `json:"complexity"`
	MaintainabilityIndex int `json:"maintainability_index"`
	TechnicalDebt        int `json:"technical_debt"`
	CodeSmells           int `json:"code_smells"`

	// DuplicateLines is reserved. No duplicate detection runs, so it is
	// always zero.
	DuplicateLines int `json:"duplicate_lines"`

	LinesOfCode int `json:"lines_of_code"`
}

// Result is the output of one analysis scan.
type Result struct {
	Issues      []Issue  `json:"issues"`
	Metrics     Metrics  `json:"metrics"`
	Score       int      `json:"score"`
	Suggestions []string `json:"suggestions"`
}

// Options toggles rule categories. A nil flag leaves its category enabled,
// so the zero value runs every rule.
type Options struct {
	Complexity  *bool `json:"complexity,omitempty"`
	Style       *bool `json:"style,omitempty"`
	Security    *bool `json:"security,omitempty"`
	Performance *bool `json:"performance,omitempty"`
}

// Enabled reports whether rules in the given category should run.
func (o Options) Enabled(category string) bool {
	var flag *bool
	switch category {
	case CategoryComplexity:
		flag = o.Complexity
	case CategoryStyle:
		flag = o.Style
	case CategorySecurity:
		flag = o.Security
	case CategoryPerformance:
		flag = o.Performance
	}
	return flag == nil || *flag
}

// Rule examines one line and returns zero or more issues.
type Rule func(line source.Line) []Issue
