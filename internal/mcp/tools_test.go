package mcp

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/codewatch/internal/analysis"
	"github.com/blackwell-systems/codewatch/internal/optimize"
	"github.com/blackwell-systems/codewatch/internal/review"
	"github.com/blackwell-systems/codewatch/internal/store"
)

type memHistory struct {
	saved   []*store.ReviewRecord
	saveErr error
}

func (m *memHistory) SaveReview(rec *store.ReviewRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, rec)
	return nil
}

func (m *memHistory) ReviewStats() (*store.ReviewStats, error) {
	return &store.ReviewStats{TotalReviews: len(m.saved)}, nil
}

// callTool invokes the named tool handler and returns the typed result.
func callTool(t *testing.T, s *Server, name string, args any) (any, error) {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	for _, tool := range s.tools {
		if tool.Name == name {
			return tool.Handler(raw)
		}
	}
	t.Fatalf("tool %q not registered", name)
	return nil, nil
}

func TestAddTools_Registered(t *testing.T) {
	s := NewServer(Options{})
	var names []string
	for _, tool := range s.tools {
		names = append(names, tool.Name)
		assert.True(t, json.Valid(tool.InputSchema), tool.Name)
	}
	assert.Equal(t, []string{"analyze_code", "optimize_code", "review_code", "get_review_stats"}, names)
}

func TestAnalyzeTool(t *testing.T) {
	s := NewServer(Options{})

	got, err := callTool(t, s, "analyze_code", map[string]string{"code": "", "language": "js"})
	require.Error(t, err)
	assert.Nil(t, got)

	got, err = callTool(t, s, "analyze_code", map[string]string{"code": "console.log(x)", "language": "js"})
	require.NoError(t, err)
	res, ok := got.(*analysis.Result)
	require.True(t, ok)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "no-console", res.Issues[0].Rule)
}

func TestOptimizeTool(t *testing.T) {
	s := NewServer(Options{})

	_, err := callTool(t, s, "optimize_code", map[string]string{"code": "x", "language": "js", "optimization_type": "fast"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid optimization type")

	got, err := callTool(t, s, "optimize_code", map[string]string{
		"code":              "el.innerHTML = name",
		"language":          "js",
		"optimization_type": "security",
	})
	require.NoError(t, err)
	res := got.(*optimize.Result)
	assert.Equal(t, "el.textContent = name", res.OptimizedCode)
	assert.Equal(t, 1, res.Summary.SecurityImprovements)
}

func TestReviewTool_SavesHistory(t *testing.T) {
	hist := &memHistory{}
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	s := NewServer(Options{History: hist, Now: func() time.Time { return at }})

	_, err := callTool(t, s, "review_code", map[string]string{"code": "x", "language": "js", "title": "t"})
	require.Error(t, err)
	assert.Empty(t, hist.saved)

	got, err := callTool(t, s, "review_code", map[string]string{
		"code": "const total = 42", "language": "js", "title": "t", "author": "kim",
	})
	require.NoError(t, err)
	res := got.(*review.Result)
	require.Len(t, hist.saved, 1)
	assert.Equal(t, res.ID, hist.saved[0].ID)
	assert.Equal(t, "kim", hist.saved[0].Author)
	assert.True(t, hist.saved[0].CreatedAt.Equal(at))

	stats, err := callTool(t, s, "get_review_stats", struct{}{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.(*store.ReviewStats).TotalReviews)
}

func TestReviewTool_HistoryErrorIgnored(t *testing.T) {
	s := NewServer(Options{History: &memHistory{saveErr: errors.New("locked")}})
	_, err := callTool(t, s, "review_code", map[string]string{
		"code": "let value = 1", "language": "js", "title": "t", "author": "kim",
	})
	assert.NoError(t, err)
}

func TestReviewStatsTool_NoHistory(t *testing.T) {
	s := NewServer(Options{})
	_, err := callTool(t, s, "get_review_stats", struct{}{})
	assert.EqualError(t, err, "review history is not enabled")
}

func TestToolArgs_Invalid(t *testing.T) {
	s := NewServer(Options{})
	for _, tool := range s.tools {
		if tool.Name == "get_review_stats" {
			continue
		}
		_, err := tool.Handler(json.RawMessage(`[1,2]`))
		assert.Error(t, err, tool.Name)
	}
}
