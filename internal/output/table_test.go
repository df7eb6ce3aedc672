package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderLines(t *testing.T, tbl *Table) []string {
	t.Helper()
	return strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
}

func TestVisualLen(t *testing.T) {
	tests := map[string]struct {
		in   string
		want int
	}{
		"empty":        {"", 0},
		"plain":        {"no-console", 10},
		"bold":         {"\x1b[1mmajor\x1b[0m", 5},
		"stacked sgr":  {"\x1b[1m\x1b[38;5;196mcritical\x1b[0m", 8},
		"multibyte":    {"•─", 2},
		"ansi only":    {"\x1b[0m", 0},
		"inner spaces": {"line 12", 7},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, visualLen(tc.in))
		})
	}
}

func TestPad(t *testing.T) {
	assert.Equal(t, "info  ", pad("info", 6))
	assert.Equal(t, "minor", pad("minor", 5))
	assert.Equal(t, "critical", pad("critical", 3), "wider cells are never truncated")

	styled := pad("\x1b[33mmajor\x1b[0m", 8)
	assert.Equal(t, 8, visualLen(styled))
	assert.True(t, strings.HasSuffix(styled, "   "))
}

func TestTable_Render(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Line", "Rule")
	tbl.AddRow("3", "todo-check")
	tbl.AddRow("12", "complex-condition")

	lines := renderLines(t, tbl)
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Line"))
	assert.Contains(t, lines[0], "Rule")
	assert.Equal(t, strings.Repeat("─", 4)+"  "+strings.Repeat("─", len("complex-condition")), lines[1])
	assert.Equal(t, "3     todo-check       ", lines[2])
	assert.Equal(t, "12    complex-condition", lines[3])
}

func TestTable_Empty(t *testing.T) {
	assert.Empty(t, NewTable().Render())

	SetNoColor(true)
	defer SetNoColor(false)
	assert.Len(t, renderLines(t, NewTable("Rule")), 2, "headers alone render header and rule")
}

func TestTable_RowArity(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("A", "B")
	tbl.AddRow("only")
	tbl.AddRow("x", "y", "dropped")

	out := tbl.Render()
	assert.NotContains(t, out, "dropped")
	lines := renderLines(t, tbl)
	assert.Equal(t, visualLen(lines[2]), visualLen(lines[3]))
}

func TestTable_AlignsStyledCells(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Severity", "Message")
	tbl.AddRow("\x1b[31mcritical\x1b[0m", "x")
	tbl.AddRow("info", "y")

	lines := renderLines(t, tbl)
	assert.Equal(t, visualLen(lines[3]), visualLen(lines[2]))
}

func TestTable_PrintMatchesString(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Score")
	tbl.AddRow("92")

	var sb strings.Builder
	tbl.Print(&sb)
	assert.Equal(t, tbl.String(), sb.String())
}

func TestSetNoColor(t *testing.T) {
	SetNoColor(true)
	assert.True(t, IsNoColor())
	assert.NotContains(t, StyleHeader.Render("Rule"), "\x1b[")

	SetNoColor(false)
	assert.False(t, IsNoColor())
}
