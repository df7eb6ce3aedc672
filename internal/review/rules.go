package review

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/blackwell-systems/codewatch/internal/source"
)

// rule inspects the line at index i. Rules may look ahead a bounded number
// of lines but never mutate anything.
type rule func(lines []source.Line, i int) []finding

const (
	// maxFunctionLines is the longest function body accepted without a
	// comment. The scan window is one line longer so an overrun is visible.
	maxFunctionLines = 20

	// errorHandlingWindow is how many lines after a try/catch are searched
	// for logging or a rethrow.
	errorHandlingWindow = 10

	minCommentLength = 10
	minNameLength    = 3
)

var (
	declPattern      = regexp.MustCompile(`\b(?:let|const|var)\s+([A-Za-z_$][\w$]*)`)
	functionPattern  = regexp.MustCompile(`\bfunction\b|=>`)
	catchPattern     = regexp.MustCompile(`try\s*\{|\bcatch\b`)
	handledPattern   = regexp.MustCompile(`console\.error|\blogger\b|\bthrow\b`)
	asyncPattern     = regexp.MustCompile(`\basync\b`)
	awaitPattern     = regexp.MustCompile(`\bawait\b`)
	shortNameAllowed = map[string]bool{"i": true, "j": true, "k": true, "id": true}
)

// shortVariableName flags declarations with names under three characters.
func shortVariableName(lines []source.Line, i int) []finding {
	line := lines[i]
	var out []finding
	for _, m := range declPattern.FindAllStringSubmatchIndex(line.Raw, -1) {
		name := line.Raw[m[2]:m[3]]
		if len(name) >= minNameLength || shortNameAllowed[name] {
			continue
		}
		out = append(out, finding{
			typ:        TypeSuggestion,
			severity:   SeverityLow,
			line:       line.Number,
			column:     m[2] + 1,
			message:    fmt.Sprintf("Variable name %q is too short to be descriptive", name),
			rule:       "short-variable-name",
			suggestion: "Use a name that describes the value's purpose.",
		})
	}
	return out
}

// functionLength flags functions whose body spans more than
// maxFunctionLines lines. Brace depth is tracked from the starting line and
// the scan stops at maxFunctionLines+1 lines. The body must open on the
// starting line or continue the signature on the next one; brace-less
// one-liners are never measured.
func functionLength(lines []source.Line, i int) []finding {
	start := lines[i]
	if !functionPattern.MatchString(start.Raw) {
		return nil
	}

	depth := 0
	opened := false
	limit := min(i+maxFunctionLines+1, len(lines))
	spanned := 0
	closed := false
	for j := i; j < limit; j++ {
		opens := strings.Count(lines[j].Raw, "{")
		closes := strings.Count(lines[j].Raw, "}")
		if !opened {
			if j == i && opens == 0 {
				if closes > 0 || !bodyMayFollow(start.Trimmed) {
					return nil
				}
				continue
			}
			if j > i && (opens == 0 || !continuesSignature(start.Trimmed, lines[j].Trimmed)) {
				return nil
			}
		}
		opened = true
		depth += opens - closes
		spanned = j - i + 1
		if depth <= 0 {
			closed = true
			break
		}
	}

	if !opened || spanned <= maxFunctionLines {
		return nil
	}
	msg := fmt.Sprintf("Function spans %d lines; consider splitting it", spanned)
	if !closed {
		msg = fmt.Sprintf("Function spans more than %d lines; consider splitting it", maxFunctionLines)
	}
	return []finding{{
		typ:        TypeIssue,
		severity:   SeverityMedium,
		line:       start.Number,
		column:     1,
		message:    msg,
		rule:       "function-length",
		suggestion: "Extract cohesive blocks into smaller helper functions.",
	}}
}

// bodyMayFollow reports whether a brace-less function line can still have
// its body on the next line: it is not a finished statement and not an
// arrow with an expression body.
func bodyMayFollow(trimmed string) bool {
	if strings.HasSuffix(trimmed, ";") {
		return false
	}
	if idx := strings.LastIndex(trimmed, "=>"); idx >= 0 {
		return strings.TrimSpace(trimmed[idx+2:]) == ""
	}
	return true
}

// continuesSignature reports whether next opens the body of the function
// started on start: either a lone opening brace or the tail of a signature
// whose parentheses were left open.
func continuesSignature(start, next string) bool {
	return strings.HasPrefix(next, "{") ||
		strings.Count(start, "(") > strings.Count(start, ")")
}

// shallowComment flags comments too short to carry information.
func shallowComment(lines []source.Line, i int) []finding {
	line := lines[i]
	if !strings.HasPrefix(line.Trimmed, "//") && !strings.HasPrefix(line.Trimmed, "/*") {
		return nil
	}
	if len(line.Trimmed) >= minCommentLength {
		return nil
	}
	return []finding{{
		typ:        TypeSuggestion,
		severity:   SeverityLow,
		line:       line.Number,
		column:     strings.Index(line.Raw, line.Trimmed) + 1,
		message:    "Comment is too brief to be useful",
		rule:       "shallow-comment",
		suggestion: "Explain why the code does what it does, or remove the comment.",
	}}
}

// missingErrorHandling flags try/catch blocks with no logging or rethrow in
// the trigger line or the errorHandlingWindow lines after it.
func missingErrorHandling(lines []source.Line, i int) []finding {
	line := lines[i]
	loc := catchPattern.FindStringIndex(line.Raw)
	if loc == nil {
		return nil
	}
	limit := min(i+errorHandlingWindow+1, len(lines))
	for j := i; j < limit; j++ {
		if handledPattern.MatchString(lines[j].Raw) {
			return nil
		}
	}
	return []finding{{
		typ:        TypeIssue,
		severity:   SeverityHigh,
		line:       line.Number,
		column:     loc[0] + 1,
		message:    "Error handling block neither logs nor rethrows the error",
		rule:       "missing-error-handling",
		suggestion: "Log the error with context or rethrow it so failures are not silently swallowed.",
	}}
}

// magicNumber flags bare numeric literals outside comments.
func magicNumber(lines []source.Line, i int) []finding {
	line := lines[i]
	if line.IsComment() {
		return nil
	}
	loc := source.MagicNumber.FindStringIndex(line.Raw)
	if loc == nil {
		return nil
	}
	value := line.Raw[loc[0]:loc[1]]
	return []finding{{
		typ:        TypeSuggestion,
		severity:   SeverityLow,
		line:       line.Number,
		column:     loc[0] + 1,
		message:    fmt.Sprintf("Magic number %s; consider a named constant", value),
		rule:       "magic-number",
		suggestion: fmt.Sprintf("const NAMED_VALUE = %s;", value),
	}}
}

// asyncAwait praises lines that use async/await.
func asyncAwait(lines []source.Line, i int) []finding {
	line := lines[i]
	if !asyncPattern.MatchString(line.Raw) || !awaitPattern.MatchString(line.Raw) {
		return nil
	}
	return []finding{{
		typ:      TypePraise,
		severity: SeverityLow,
		line:     line.Number,
		column:   1,
		message:  "Good use of async/await for asynchronous flow",
		rule:     "async-await",
	}}
}
