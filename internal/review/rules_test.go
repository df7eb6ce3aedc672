package review

import (
	"strings"
	"testing"

	"github.com/blackwell-systems/codewatch/internal/source"
)

func runRule(r rule, code string) []finding {
	lines := source.Split(code)
	var out []finding
	for i := range lines {
		out = append(out, r(lines, i)...)
	}
	return out
}

// functionOf builds a function whose body has n inner lines, so the whole
// function spans n+2 lines.
func functionOf(n int) string {
	var sb strings.Builder
	sb.WriteString("function work() {\n")
	for i := 0; i < n; i++ {
		sb.WriteString("  step()\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}

func TestShortVariableName(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"const ab = 1", 1},
		{"let x = compute()", 1},
		{"let i = 0", 0},
		{"const id = user.id", 0},
		{"const abc = 1", 0},
		{"let a = 1, b = 2; const cd = 3", 2},
	}
	for _, tt := range tests {
		got := runRule(shortVariableName, tt.code)
		if len(got) != tt.want {
			t.Errorf("%q: expected %d findings, got %d", tt.code, tt.want, len(got))
		}
		for _, f := range got {
			if f.typ != TypeSuggestion || f.severity != SeverityLow {
				t.Errorf("%q: unexpected type/severity %s/%s", tt.code, f.typ, f.severity)
			}
		}
	}
}

func TestFunctionLength_Short(t *testing.T) {
	if got := runRule(functionLength, functionOf(18)); len(got) != 0 {
		t.Fatalf("20-line function should pass, got %d findings", len(got))
	}
}

func TestFunctionLength_Long(t *testing.T) {
	got := runRule(functionLength, functionOf(19))
	if len(got) != 1 {
		t.Fatalf("21-line function should be flagged, got %d findings", len(got))
	}
	if got[0].line != 1 || got[0].typ != TypeIssue || got[0].severity != SeverityMedium {
		t.Errorf("unexpected finding: %+v", got[0])
	}
	if !strings.Contains(got[0].message, "21 lines") {
		t.Errorf("expected span in message, got %q", got[0].message)
	}
}

func TestFunctionLength_NeverCloses(t *testing.T) {
	code := "function open() {\n" + strings.Repeat("  step()\n", 200)
	got := runRule(functionLength, code)
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(got))
	}
	if !strings.Contains(got[0].message, "more than 20") {
		t.Errorf("unexpected message %q", got[0].message)
	}
}

func TestFunctionLength_NestedBraces(t *testing.T) {
	code := strings.Join([]string{
		"const run = () => {",
		"  if (ok) {",
		"    go()",
		"  }",
		"}",
	}, "\n")
	if got := runRule(functionLength, code); len(got) != 0 {
		t.Fatalf("expected no findings, got %d", len(got))
	}
}

func TestFunctionLength_TruncatedFile(t *testing.T) {
	code := "function open() {\n  a()\n  b()"
	if got := runRule(functionLength, code); len(got) != 0 {
		t.Fatalf("unterminated short function should pass, got %d", len(got))
	}
}

func TestFunctionLength_OneLinerBeforeLongFunction(t *testing.T) {
	code := "const double = (x) => x * 2;\n" + functionOf(25)
	got := runRule(functionLength, code)
	if len(got) != 1 {
		t.Fatalf("expected only the long function to be flagged, got %d findings", len(got))
	}
	if got[0].line != 2 {
		t.Errorf("expected finding on line 2, got line %d", got[0].line)
	}
}

func TestFunctionLength_CallbackBeforeLongBlock(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("function short() {\n")
	sb.WriteString("  items.forEach((x) => use(x))\n")
	sb.WriteString("}\n")
	sb.WriteString("items.map((x) => x.id)\n")
	sb.WriteString("if (ready) {\n")
	for i := 0; i < 25; i++ {
		sb.WriteString("  step()\n")
	}
	sb.WriteString("}\n")

	if got := runRule(functionLength, sb.String()); len(got) != 0 {
		t.Fatalf("brace-less callbacks should not be measured, got %+v", got)
	}
}

func TestFunctionLength_BodyOnNextLine(t *testing.T) {
	tests := map[string]string{
		"allman brace":         "function work()\n{\n",
		"multi-line signature": "function work(a,\n  b) {\n",
		"bare arrow":           "const work = (a) =>\n{\n",
	}
	for name, head := range tests {
		t.Run(name, func(t *testing.T) {
			code := head + strings.Repeat("  step()\n", 22) + "}\n"
			got := runRule(functionLength, code)
			if len(got) != 1 || got[0].line != 1 {
				t.Fatalf("expected one finding on line 1, got %+v", got)
			}
		})
	}
}

func TestShallowComment(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"// fix", 1},
		{"/* x */", 1},
		{"// explains the retry budget", 0},
		{"x = 1 // hi", 0},
		{"//", 1},
	}
	for _, tt := range tests {
		if got := runRule(shallowComment, tt.code); len(got) != tt.want {
			t.Errorf("%q: expected %d findings, got %d", tt.code, tt.want, len(got))
		}
	}
}

func TestMissingErrorHandling(t *testing.T) {
	unhandled := strings.Join([]string{
		"try {",
		"  risky()",
		"} catch (e) {",
		"  cleanup()",
		"}",
	}, "\n")
	got := runRule(missingErrorHandling, unhandled)
	if len(got) != 2 {
		t.Fatalf("expected try and catch to be flagged, got %d", len(got))
	}
	for _, f := range got {
		if f.severity != SeverityHigh || f.typ != TypeIssue {
			t.Errorf("unexpected finding: %+v", f)
		}
	}

	handled := strings.Replace(unhandled, "cleanup()", "console.error(e)", 1)
	if got := runRule(missingErrorHandling, handled); len(got) != 0 {
		t.Errorf("expected handled block to pass, got %d", len(got))
	}

	rethrow := "try { risky() } catch (e) { throw e }"
	if got := runRule(missingErrorHandling, rethrow); len(got) != 0 {
		t.Errorf("expected rethrow to pass, got %d", len(got))
	}
}

func TestMissingErrorHandling_WindowIsBounded(t *testing.T) {
	code := "try {\n" + strings.Repeat("  work()\n", 10) + "} catch (e) { logger.warn(e) }\n"
	got := runRule(missingErrorHandling, code)
	// The try on line 1 cannot see the logger on line 12.
	if len(got) != 1 || got[0].line != 1 {
		t.Fatalf("expected only line 1 to be flagged, got %+v", got)
	}
}

func TestMagicNumber(t *testing.T) {
	if got := runRule(magicNumber, "retry(500)"); len(got) != 1 {
		t.Errorf("expected 1 finding, got %d", len(got))
	}
	if got := runRule(magicNumber, "// wait 500 ms"); len(got) != 0 {
		t.Errorf("comments should be skipped, got %d", len(got))
	}
}

func TestAsyncAwait(t *testing.T) {
	got := runRule(asyncAwait, "const load = async () => await fetchAll()")
	if len(got) != 1 || got[0].typ != TypePraise {
		t.Fatalf("expected one praise, got %+v", got)
	}
	if got := runRule(asyncAwait, "async function load() {"); len(got) != 0 {
		t.Errorf("async without await should not be praised, got %d", len(got))
	}
}
