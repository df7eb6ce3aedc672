package review

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/codewatch/internal/ident"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(
		WithIDGenerator(ident.Sequence("r")),
		WithClock(func() time.Time { return fixedTime }),
	)
}

func TestReview_AutoApprove(t *testing.T) {
	code := strings.Join([]string{
		"function greet(name) {",
		"  const message = 'hello ' + name",
		"  return message",
		"}",
		"greet('world')",
	}, "\n")

	res := newTestEngine().Review(Request{Code: code, Language: "js", Title: "t", Author: "bob"})

	assert.Equal(t, StatusApproved, res.Status)
	assert.Equal(t, 100, res.Score)
	assert.False(t, res.ApprovalRequired)
	assert.Empty(t, res.Comments)
	assert.Equal(t, "t", res.Title)
	assert.NotEmpty(t, res.ID)
	require.Len(t, res.Recommendations, 1)
	assert.Contains(t, res.Recommendations[0], "Excellent")
	assert.Contains(t, res.Summary, "bob")
}

func TestReview_CommentsCarryIdentity(t *testing.T) {
	e := NewEngine(
		WithIDGenerator(ident.Sequence("c")),
		WithClock(func() time.Time { return fixedTime }),
		WithReviewer(Reviewer{ID: "bot-7", Name: "gatekeeper"}),
	)
	res := e.Review(Request{Code: "const ab = 1", Title: "x", Author: "amy"})

	require.Len(t, res.Comments, 1)
	c := res.Comments[0]
	assert.Equal(t, "c-1", c.ID)
	assert.Equal(t, "bot-7", c.Author.ID)
	assert.Equal(t, fixedTime, c.CreatedAt)
	assert.Equal(t, "c-2", res.ID)
	assert.Equal(t, "gatekeeper", e.Reviewer().Name)
}

func TestReview_UniqueIDs(t *testing.T) {
	e := NewEngine()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		res := e.Review(Request{Code: "x()", Title: "t", Author: "a"})
		require.False(t, seen[res.ID])
		seen[res.ID] = true
	}
}

func TestReview_NeedsWork(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("function big() {\n")
	sb.WriteString("  try {\n")
	for i := 0; i < 20; i++ {
		sb.WriteString("    step()\n")
	}
	sb.WriteString("  } catch (err) {\n")
	sb.WriteString("    cleanup()\n")
	sb.WriteString("  }\n")
	sb.WriteString("  const ab = done()\n")
	sb.WriteString("}\n")

	res := newTestEngine().Review(Request{Code: sb.String(), Title: "t", Author: "a"})

	// try (-10), catch (-10), function-length (-5), short name (-2).
	assert.Equal(t, 73, res.Score)
	assert.Equal(t, StatusNeedsWork, res.Status)
	assert.True(t, res.ApprovalRequired)
	require.Len(t, res.Recommendations, 2)
	assert.Contains(t, res.Recommendations[0], "Fair")
	assert.Contains(t, res.Recommendations[1], "3 issue(s)")
}

func TestReview_Rejected(t *testing.T) {
	code := strings.Repeat("try { x() } catch (e) {}\n", 11)
	res := newTestEngine().Review(Request{Code: code, Title: "t", Author: "a"})

	assert.Equal(t, 0, res.Score)
	assert.Equal(t, StatusRejected, res.Status)
	assert.True(t, res.ApprovalRequired)
}

func TestReview_Idempotent(t *testing.T) {
	code := "// hm\nconst ab = 42\nasync function f() { await g() }"
	a := newTestEngine().Review(Request{Code: code, Title: "t", Author: "a"})
	b := newTestEngine().Review(Request{Code: code, Title: "t", Author: "a"})
	assert.Equal(t, a, b)
}

func TestReview_EmptyInput(t *testing.T) {
	res := newTestEngine().Review(Request{Code: "", Title: "t", Author: "a"})
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, StatusApproved, res.Status)
	assert.NotNil(t, res.Comments)
}

func TestScore(t *testing.T) {
	comments := []Comment{
		{Severity: SeverityHigh},
		{Severity: SeverityMedium},
		{Severity: SeverityLow},
		{Severity: SeverityLow},
	}
	assert.Equal(t, 81, Score(comments))
	assert.Equal(t, 100, Score(nil))
}

func TestScore_Clamped(t *testing.T) {
	comments := make([]Comment, 30)
	for i := range comments {
		comments[i].Severity = SeverityHigh
	}
	assert.Equal(t, 0, Score(comments))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score int
		want  Status
	}{
		{100, StatusApproved},
		{85, StatusApproved},
		{84, StatusNeedsWork},
		{60, StatusNeedsWork},
		{59, StatusRejected},
		{0, StatusRejected},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %d", tt.score)
	}
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{95, "Excellent"},
		{90, "Excellent"},
		{80, "Good"},
		{75, "Good"},
		{70, "Fair"},
		{40, "Poor"},
	}
	for _, tt := range tests {
		got := Recommend(tt.score, nil)
		require.Len(t, got, 1)
		assert.Contains(t, got[0], tt.want)
	}

	suggestions := make([]Comment, 6)
	for i := range suggestions {
		suggestions[i].Type = TypeSuggestion
	}
	got := Recommend(88, suggestions)
	require.Len(t, got, 2)
	assert.Contains(t, got[1], "linter")
}
