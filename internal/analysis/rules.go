package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/blackwell-systems/codewatch/internal/source"
)

const (
	// maxSignatureLength is the raw line length, in characters, above which
	// a function definition line is reported.
	maxSignatureLength = 80

	// minConditionLength is the length of a parenthesized if condition at
	// which it counts as complex.
	minConditionLength = 50
)

var (
	consolePattern    = regexp.MustCompile(`console\.(?:log|debug|info|warn|error|trace)\s*\(`)
	longStringPattern = regexp.MustCompile(`"[^"\n]{20,}"|'[^'\n]{20,}'|` + "`[^`\n]{20,}`")
	conditionPattern  = regexp.MustCompile(`\bif\s*\(`)
)

// LongFunctionSignature flags function definitions whose line exceeds
// maxSignatureLength characters.
func LongFunctionSignature(line source.Line) []Issue {
	if !strings.Contains(line.Trimmed, "function") && !strings.Contains(line.Trimmed, "=>") {
		return nil
	}
	if utf8.RuneCountInString(line.Raw) <= maxSignatureLength {
		return nil
	}
	return []Issue{{
		Type:     TypeWarning,
		Severity: SeverityMinor,
		Line:     line.Number,
		Column:   1,
		Message:  "Function signature is too long; consider fewer parameters or an options object",
		Rule:     "function-length",
		Fix:      "Split the parameter list or pass a single configuration object.",
	}}
}

// ConsoleStatement flags debug logging left in the code.
func ConsoleStatement(line source.Line) []Issue {
	if !consolePattern.MatchString(line.Trimmed) {
		return nil
	}
	column := 1
	if loc := consolePattern.FindStringIndex(line.Raw); loc != nil {
		column = loc[0] + 1
	}
	return []Issue{{
		Type:     TypeWarning,
		Severity: SeverityMinor,
		Line:     line.Number,
		Column:   column,
		Message:  "Console statement found; remove debug logging before shipping",
		Rule:     "no-console",
		Fix:      "Remove the statement or route it through a logger.",
	}}
}

// TodoMarker flags TODO and FIXME comments.
func TodoMarker(line source.Line) []Issue {
	idx := strings.Index(line.Trimmed, "TODO")
	if idx < 0 {
		idx = strings.Index(line.Trimmed, "FIXME")
	}
	if idx < 0 {
		return nil
	}
	column := strings.Index(line.Raw, line.Trimmed) + idx + 1
	if column < 1 {
		column = 1
	}
	return []Issue{{
		Type:     TypeInfo,
		Severity: SeverityInfo,
		Line:     line.Number,
		Column:   column,
		Message:  "Unfinished work marker (TODO/FIXME) found",
		Rule:     "todo-check",
	}}
}

// HardcodedString flags long string literals that are candidates for
// extraction into constants or resources.
func HardcodedString(line source.Line) []Issue {
	loc := longStringPattern.FindStringIndex(line.Raw)
	if loc == nil {
		return nil
	}
	return []Issue{{
		Type:     TypeSuggestion,
		Severity: SeverityMinor,
		Line:     line.Number,
		Column:   loc[0] + 1,
		Message:  "Long hardcoded string literal; consider moving it to a constant",
		Rule:     "no-hardcoded-strings",
		Fix:      "Extract the literal into a named constant or resource file.",
	}}
}

// ComplexCondition flags if statements whose parenthesized condition is
// minConditionLength or more characters long. Only the span up to the
// matching closing parenthesis is measured; an unclosed condition is skipped.
func ComplexCondition(line source.Line) []Issue {
	for _, loc := range conditionPattern.FindAllStringIndex(line.Raw, -1) {
		cond, ok := parenthesized(line.Raw[loc[1]:])
		if !ok || utf8.RuneCountInString(cond) < minConditionLength {
			continue
		}
		return []Issue{{
			Type:     TypeWarning,
			Severity: SeverityMajor,
			Line:     line.Number,
			Column:   loc[0] + 1,
			Message:  "Complex conditional expression; consider extracting it into a named function",
			Rule:     "complex-condition",
			Fix:      "Move the condition into a well-named helper or intermediate variables.",
		}}
	}
	return nil
}

// parenthesized returns the text of s up to the parenthesis closing an
// already opened one, tracking nesting depth.
func parenthesized(s string) (string, bool) {
	depth := 1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[:i], true
			}
		}
	}
	return "", false
}
