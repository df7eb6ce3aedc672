package optimize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/blackwell-systems/codewatch/internal/source"
)

// lineContext is what a rule sees for one line.
type lineContext struct {
	line source.Line

	// current is the working text of the line after earlier rules ran.
	current string

	// prevBlank is true when the previous original line was blank.
	prevBlank bool

	// mixedIndent is true when the file has both tab-leading and
	// space-leading lines.
	mixedIndent bool
}

// change is a rule's output: the finding plus the edit to apply to the
// working line. An editKeep edit means commentary only.
type change struct {
	suggestion Suggestion
	edit       lineEdit
}

// rule is a single optimization check. Universal rules have an empty
// category and run regardless of the requested type.
type rule struct {
	name     string
	category string
	apply    func(ctx *lineContext) *change
}

var (
	lengthLoopPattern = regexp.MustCompile(`for\s*\(\s*let\s+(\w+)\s*=\s*0\s*;\s*(\w+)\s*<\s*([\w$.]+)\.length\s*;\s*(\w+)\+\+\s*\)`)
	appendPattern     = regexp.MustCompile(`^(\s*)([\w$.\[\]]+)\s*\+=\s*(.+?)\s*(;?)\s*$`)
	propertyChain     = regexp.MustCompile(`\b[A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*){3,}`)
	singleLetterVar   = regexp.MustCompile(`\b(?:let|const|var)\s+([A-Za-z_$])\s*(?:[=;,]|$)`)
	forLoopPattern    = regexp.MustCompile(`\bfor\s*\(`)
	evalPattern       = regexp.MustCompile(`\beval\s*\(`)
	secretNamePattern = regexp.MustCompile(`(?i)password|secret|key`)
	quotedLiteral     = regexp.MustCompile(`"[^"]*"|'[^']*'`)
)

func (ctx *lineContext) commentary(name, category, impact, message, explanation string, column int) *change {
	return &change{
		suggestion: Suggestion{
			Type:         findingType(category, impact),
			Severity:     severityFor(impact),
			Line:         ctx.line.Number,
			Column:       column,
			Message:      message,
			Rule:         name,
			OriginalLine: ctx.line.Raw,
			Impact:       impact,
			Category:     category,
			Explanation:  explanation,
		},
		edit: keep(ctx.current),
	}
}

func (ctx *lineContext) rewrite(name, category, impact, message, explanation string, column int, text string) *change {
	c := ctx.commentary(name, category, impact, message, explanation, column)
	c.suggestion.OptimizedLine = text
	c.edit = replace(text)
	return c
}

func findingType(category, impact string) string {
	if category == CategorySecurity && impact == ImpactHigh {
		return "warning"
	}
	return "suggestion"
}

func severityFor(impact string) string {
	switch impact {
	case ImpactHigh:
		return "major"
	case ImpactMedium:
		return "minor"
	default:
		return "info"
	}
}

// columnOf returns the 1-based column of the first match of re in text, or 1.
func columnOf(re *regexp.Regexp, text string) int {
	if loc := re.FindStringIndex(text); loc != nil {
		return loc[0] + 1
	}
	return 1
}

// --- performance ---

func ruleLengthLoop(ctx *lineContext) *change {
	m := lengthLoopPattern.FindStringSubmatchIndex(ctx.current)
	if m == nil {
		return nil
	}
	counter := ctx.current[m[2]:m[3]]
	if ctx.current[m[4]:m[5]] != counter || ctx.current[m[8]:m[9]] != counter {
		return nil
	}
	collection := ctx.current[m[6]:m[7]]
	loop := fmt.Sprintf("for (let %s = 0, len = %s.length; %s < len; %s++)", counter, collection, counter, counter)
	text := ctx.current[:m[0]] + loop + ctx.current[m[1]:]

	return ctx.rewrite("loop-length-cache", CategoryPerformance, ImpactMedium,
		"Cache the array length outside the loop condition",
		fmt.Sprintf("%s.length is re-read on every iteration; reading it once avoids the repeated lookup.", collection),
		m[0]+1, text)
}

func ruleStringTemplate(ctx *lineContext) *change {
	if !strings.Contains(ctx.current, "+=") || !strings.ContainsAny(ctx.current, `"'`) {
		return nil
	}
	column := strings.Index(ctx.current, "+=") + 1
	message := "Use a template literal instead of string concatenation"
	explanation := "Template literals avoid intermediate string allocations and are easier to read."

	m := appendPattern.FindStringSubmatch(ctx.current)
	if m == nil {
		return ctx.commentary("string-template", CategoryPerformance, ImpactLow, message, explanation, column)
	}
	tmpl, ok := toTemplate(m[3])
	if !ok {
		return ctx.commentary("string-template", CategoryPerformance, ImpactLow, message, explanation, column)
	}
	text := fmt.Sprintf("%s%s += %s%s", m[1], m[2], tmpl, m[4])
	return ctx.rewrite("string-template", CategoryPerformance, ImpactLow, message, explanation, column, text)
}

// toTemplate converts a `+`-joined chain of quoted literals and expressions
// into a template literal. It reports false for anything it cannot convert
// safely: backticks, escapes, trailing statements or comments, unbalanced
// quotes and empty operands.
func toTemplate(expr string) (string, bool) {
	if strings.ContainsAny(expr, "`\\;") || strings.Contains(expr, "//") {
		return "", false
	}
	terms, ok := splitConcat(expr)
	if !ok {
		return "", false
	}

	var sb strings.Builder
	sb.WriteByte('`')
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			return "", false
		}
		if isQuoted(term) {
			sb.WriteString(strings.ReplaceAll(term[1:len(term)-1], "${", `\${`))
			continue
		}
		sb.WriteString("${")
		sb.WriteString(term)
		sb.WriteString("}")
	}
	sb.WriteByte('`')
	return sb.String(), true
}

// splitConcat splits expr on top-level `+` operators, ignoring those inside
// quotes or brackets.
func splitConcat(expr string) ([]string, bool) {
	var terms []string
	var quote byte
	depth := 0
	start := 0
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
			if depth < 0 {
				return nil, false
			}
		case c == '+' && depth == 0:
			terms = append(terms, expr[start:i])
			start = i + 1
		}
	}
	if quote != 0 || depth != 0 {
		return nil, false
	}
	return append(terms, expr[start:]), true
}

func isQuoted(term string) bool {
	if len(term) < 2 {
		return false
	}
	q := term[0]
	if (q != '"' && q != '\'') || term[len(term)-1] != q {
		return false
	}
	return !strings.ContainsRune(term[1:len(term)-1], rune(q))
}

func rulePropertyChain(ctx *lineContext) *change {
	chain := propertyChain.FindString(ctx.current)
	if chain == "" {
		return nil
	}
	return ctx.commentary("property-chain", CategoryPerformance, ImpactLow,
		"Deep property access chain; consider caching it in a local variable",
		fmt.Sprintf("const cached = %s; then reuse cached instead of walking the chain again.", chain),
		columnOf(propertyChain, ctx.current))
}

// --- readability ---

func ruleSingleLetterVariable(ctx *lineContext) *change {
	if forLoopPattern.MatchString(ctx.current) {
		return nil
	}
	m := singleLetterVar.FindStringSubmatch(ctx.current)
	if m == nil {
		return nil
	}
	return ctx.commentary("single-letter-variable", CategoryReadability, ImpactLow,
		fmt.Sprintf("Single-letter variable %q; use a descriptive name", m[1]),
		"Descriptive names make intent clear without reading the surrounding code.",
		columnOf(singleLetterVar, ctx.current))
}

func ruleComplexTernary(ctx *lineContext) *change {
	tokens := strings.Count(ctx.current, "?") + strings.Count(ctx.current, ":")
	if tokens <= 2 {
		return nil
	}
	column := strings.Index(ctx.current, "?") + 1
	if column < 1 {
		column = 1
	}
	return ctx.commentary("complex-ternary", CategoryReadability, ImpactMedium,
		"Complex ternary expression; consider if/else or a lookup table",
		"Nested conditional operators are hard to follow and easy to get wrong.",
		column)
}

func ruleMagicNumber(ctx *lineContext) *change {
	loc := source.MagicNumber.FindStringIndex(ctx.current)
	if loc == nil {
		return nil
	}
	value := ctx.current[loc[0]:loc[1]]
	return ctx.commentary("magic-number", CategoryReadability, ImpactLow,
		fmt.Sprintf("Magic number %s; extract it into a named constant", value),
		fmt.Sprintf("const CONSTANT_%s = %s; name it after what it represents.", value, value),
		loc[0]+1)
}

// --- security ---

func ruleEval(ctx *lineContext) *change {
	if !evalPattern.MatchString(ctx.current) {
		return nil
	}
	return ctx.commentary("no-eval", CategorySecurity, ImpactHigh,
		"eval() executes arbitrary code and is a code injection risk",
		"Replace eval with JSON.parse, a lookup table or an explicit parser.",
		columnOf(evalPattern, ctx.current))
}

func ruleInnerHTML(ctx *lineContext) *change {
	idx := strings.Index(ctx.current, "innerHTML")
	if idx < 0 {
		return nil
	}
	text := strings.ReplaceAll(ctx.current, "innerHTML", "textContent")
	return ctx.rewrite("inner-html", CategorySecurity, ImpactMedium,
		"innerHTML can introduce XSS; use textContent for plain text",
		"textContent never parses markup, so untrusted values cannot inject HTML.",
		idx+1, text)
}

func ruleHardcodedSecret(ctx *lineContext) *change {
	loc := secretNamePattern.FindStringIndex(ctx.current)
	if loc == nil || !strings.Contains(ctx.current, "=") || !quotedLiteral.MatchString(ctx.current) {
		return nil
	}
	return ctx.commentary("hardcoded-secret", CategorySecurity, ImpactHigh,
		"Possible hardcoded credential",
		"Load secrets from environment variables or a secret manager instead of source code.",
		loc[0]+1)
}

// --- universal ---

func ruleConsecutiveBlank(ctx *lineContext) *change {
	if !ctx.line.IsBlank() || !ctx.prevBlank {
		return nil
	}
	return &change{
		suggestion: Suggestion{
			Type:         "suggestion",
			Severity:     severityFor(ImpactLow),
			Line:         ctx.line.Number,
			Column:       1,
			Message:      "Remove consecutive blank line",
			Rule:         "consecutive-blank-lines",
			OriginalLine: ctx.line.Raw,
			Impact:       ImpactLow,
			Category:     CategoryReadability,
		},
		edit: remove(),
	}
}

func ruleMixedIndentation(ctx *lineContext) *change {
	if !ctx.mixedIndent || !strings.HasPrefix(ctx.current, "\t") {
		return nil
	}
	rest := strings.TrimLeft(ctx.current, "\t")
	tabs := len(ctx.current) - len(rest)
	text := strings.Repeat("  ", tabs) + rest
	return ctx.rewrite("mixed-indentation", CategoryReadability, ImpactLow,
		"Mixed tabs and spaces; reindent with spaces",
		"Each leading tab becomes two spaces to match the rest of the file.",
		1, text)
}

// hasMixedIndentation reports whether some lines start with a tab and others
// with a space.
func hasMixedIndentation(lines []source.Line) bool {
	var tabs, spaces bool
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l.Raw, "\t"):
			tabs = true
		case strings.HasPrefix(l.Raw, " "):
			spaces = true
		}
		if tabs && spaces {
			return true
		}
	}
	return false
}
