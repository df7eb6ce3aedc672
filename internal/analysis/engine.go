package analysis

import "github.com/blackwell-systems/codewatch/internal/source"

// registeredRule pairs a rule with the category that gates it.
type registeredRule struct {
	category string
	rule     Rule
}

// Engine runs the diagnostic rule table over every line of a source file.
// An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	rules []registeredRule
}

// NewEngine creates an engine with all built-in rules registered in their
// reporting order.
func NewEngine() *Engine {
	return &Engine{
		rules: []registeredRule{
			{CategoryComplexity, LongFunctionSignature},
			{CategoryStyle, ConsoleStatement},
			{CategoryStyle, TodoMarker},
			{CategoryStyle, HardcodedString},
			{CategoryComplexity, ComplexCondition},
		},
	}
}

// Analyze scans code and returns its issues, metrics, score and suggestions.
// The language is accepted for reporting only; the rules are language
// agnostic.
func (e *Engine) Analyze(code, language string, opts Options) *Result {
	lines := source.Split(code)

	issues := []Issue{}
	for _, line := range lines {
		for _, r := range e.rules {
			if !opts.Enabled(r.category) {
				continue
			}
			issues = append(issues, r.rule(line)...)
		}
	}

	metrics := ComputeMetrics(lines, issues)
	score := ComputeScore(metrics, issues)

	return &Result{
		Issues:      issues,
		Metrics:     metrics,
		Score:       score,
		Suggestions: ComposeSuggestions(score, metrics, issues),
	}
}
