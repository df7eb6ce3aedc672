// Package optimize runs the optimization rule set and assembles rewritten
// source from the accepted line replacements.
package optimize

import "fmt"

// Type selects which rule categories run.
type Type string

const (
	TypePerformance Type = "performance"
	TypeReadability Type = "readability"
	TypeSecurity    Type = "security"
	TypeAll         Type = "all"
)

// ParseType validates an optimization type string.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypePerformance, TypeReadability, TypeSecurity, TypeAll:
		return t, nil
	}
	return "", fmt.Errorf("invalid optimization type %q: must be one of performance, readability, security, all", s)
}

// includes reports whether rules of the given category run for t.
func (t Type) includes(category string) bool {
	return t == TypeAll || string(t) == category
}

// Categories.
const (
	CategoryPerformance     = "performance"
	CategoryReadability     = "readability"
	CategorySecurity        = "security"
	CategoryMaintainability = "maintainability"
)

// Impact levels.
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

// Suggestion is a single optimization finding. OptimizedLine is empty when
// the finding is commentary only and no rewrite was applied.
type Suggestion struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Severity      string `json:"severity"`
	Line          int    `json:"line"`
	Column        int    `json:"column"`
	Message       string `json:"message"`
	Rule          string `json:"rule"`
	OriginalLine  string `json:"original_line"`
	OptimizedLine string `json:"optimized_line,omitempty"`
	Impact        string `json:"impact"`
	Category      string `json:"category"`
	Explanation   string `json:"explanation,omitempty"`
}

// Summary aggregates the suggestions of one run.
type Summary struct {
	TotalChanges         int    `json:"total_changes"`
	PerformanceGains     string `json:"performance_gains"`
	ReadabilityScore     int    `json:"readability_score"`
	SecurityImprovements int    `json:"security_improvements"`
}

// Result is the output of one optimization run.
type Result struct {
	OriginalCode  string       `json:"original_code"`
	OptimizedCode string       `json:"optimized_code"`
	Suggestions   []Suggestion `json:"suggestions"`
	Summary       Summary      `json:"summary"`
}

// Options controls a single run.
type Options struct {
	Type Type

	// PreserveComments exempts comment lines from the category rules.
	// Whitespace normalisation still applies to them.
	PreserveComments bool
}
