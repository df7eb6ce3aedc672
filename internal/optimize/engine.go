package optimize

import (
	"fmt"

	"github.com/blackwell-systems/codewatch/internal/ident"
	"github.com/blackwell-systems/codewatch/internal/source"
)

// Engine runs the optimization rules. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	rules     []rule
	universal []rule
	newID     ident.Generator
}

// NewEngine creates an engine with all built-in rules registered. A nil id
// generator defaults to random UUIDs.
func NewEngine(newID ident.Generator) *Engine {
	return &Engine{
		rules: []rule{
			{"loop-length-cache", CategoryPerformance, ruleLengthLoop},
			{"string-template", CategoryPerformance, ruleStringTemplate},
			{"property-chain", CategoryPerformance, rulePropertyChain},
			{"single-letter-variable", CategoryReadability, ruleSingleLetterVariable},
			{"complex-ternary", CategoryReadability, ruleComplexTernary},
			{"magic-number", CategoryReadability, ruleMagicNumber},
			{"no-eval", CategorySecurity, ruleEval},
			{"inner-html", CategorySecurity, ruleInnerHTML},
			{"hardcoded-secret", CategorySecurity, ruleHardcodedSecret},
		},
		universal: []rule{
			{"consecutive-blank-lines", "", ruleConsecutiveBlank},
			{"mixed-indentation", "", ruleMixedIndentation},
		},
		newID: ident.OrDefault(newID),
	}
}

// Optimize scans code and returns the suggestions together with the
// rewritten source. The input string is never modified; OriginalCode is the
// input verbatim.
func (e *Engine) Optimize(code string, opts Options) *Result {
	lines := source.Split(code)
	mixed := hasMixedIndentation(lines)

	edits := make([]lineEdit, len(lines))
	for i, l := range lines {
		edits[i] = keep(l.Raw)
	}

	suggestions := []Suggestion{}
	for i, line := range lines {
		ctx := &lineContext{
			line:        line,
			current:     line.Raw,
			prevBlank:   i > 0 && lines[i-1].IsBlank(),
			mixedIndent: mixed,
		}

		skipCategories := opts.PreserveComments && line.IsComment()
		for _, r := range e.rules {
			if skipCategories || !opts.Type.includes(r.category) {
				continue
			}
			suggestions = e.apply(r, ctx, edits, i, suggestions)
		}
		for _, r := range e.universal {
			if edits[i].kind == editDelete {
				break
			}
			suggestions = e.apply(r, ctx, edits, i, suggestions)
		}
	}

	return &Result{
		OriginalCode:  code,
		OptimizedCode: render(edits, source.HasTrailingNewline(code)),
		Suggestions:   suggestions,
		Summary:       summarize(suggestions),
	}
}

// apply runs one rule against ctx and records its edit in the working array.
func (e *Engine) apply(r rule, ctx *lineContext, edits []lineEdit, i int, out []Suggestion) []Suggestion {
	c := r.apply(ctx)
	if c == nil {
		return out
	}
	if c.edit.kind != editKeep {
		edits[i] = c.edit
		ctx.current = c.edit.text
	}
	c.suggestion.ID = e.newID()
	return append(out, c.suggestion)
}

// summarize counts suggestions per category.
func summarize(suggestions []Suggestion) Summary {
	var perf, readability, security int
	for _, s := range suggestions {
		switch s.Category {
		case CategoryPerformance:
			perf++
		case CategoryReadability:
			readability++
		case CategorySecurity:
			security++
		}
	}

	return Summary{
		TotalChanges:         len(suggestions),
		PerformanceGains:     performanceGains(perf),
		ReadabilityScore:     max(85-5*readability, 60),
		SecurityImprovements: security,
	}
}

func performanceGains(n int) string {
	if n == 0 {
		return "No performance improvements identified"
	}
	return fmt.Sprintf("Up to %d%% faster in affected code paths (%d optimization(s))", min(n*10, 50), n)
}
