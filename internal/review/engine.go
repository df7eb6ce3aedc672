package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/codewatch/internal/ident"
	"github.com/blackwell-systems/codewatch/internal/source"
)

// Engine runs the review rules and classifies the outcome. Apart from its
// fixed reviewer identity it holds no state, so one Engine may serve
// concurrent reviews.
type Engine struct {
	rules    []rule
	reviewer Reviewer
	newID    ident.Generator
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithReviewer sets the automated reviewer identity.
func WithReviewer(r Reviewer) Option {
	return func(e *Engine) { e.reviewer = r }
}

// WithIDGenerator sets the generator for review and comment ids.
func WithIDGenerator(g ident.Generator) Option {
	return func(e *Engine) { e.newID = ident.OrDefault(g) }
}

// WithClock sets the time source for comment timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine with all built-in rules registered.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rules: []rule{
			shortVariableName,
			functionLength,
			shallowComment,
			missingErrorHandling,
			magicNumber,
			asyncAwait,
		},
		reviewer: DefaultReviewer,
		newID:    ident.UUID,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reviewer returns the engine's automated reviewer identity.
func (e *Engine) Reviewer() Reviewer {
	return e.reviewer
}

// Review scans req.Code and returns a scored, classified review.
func (e *Engine) Review(req Request) *Result {
	lines := source.Split(req.Code)
	createdAt := e.now().UTC()

	comments := []Comment{}
	for i := range lines {
		for _, r := range e.rules {
			for _, f := range r(lines, i) {
				comments = append(comments, Comment{
					ID:         e.newID(),
					Type:       f.typ,
					Severity:   f.severity,
					Line:       f.line,
					Column:     f.column,
					Message:    f.message,
					Rule:       f.rule,
					Suggestion: f.suggestion,
					Author:     e.reviewer,
					CreatedAt:  createdAt,
				})
			}
		}
	}

	score := Score(comments)
	status := Classify(score)

	return &Result{
		ID:               e.newID(),
		Title:            req.Title,
		Status:           status,
		Score:            score,
		Comments:         comments,
		Summary:          summarize(req, comments, score, status),
		Recommendations:  Recommend(score, comments),
		ApprovalRequired: score < ApproveThreshold,
	}
}

func summarize(req Request, comments []Comment, score int, status Status) string {
	counts := countByType(comments)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Automated review of %q", req.Title)
	if req.Author != "" {
		fmt.Fprintf(&sb, " by %s", req.Author)
	}
	if req.Language != "" {
		fmt.Fprintf(&sb, " (%s)", req.Language)
	}
	fmt.Fprintf(&sb, ": %d comment(s) - %d issue(s), %d suggestion(s), %d praise. Score %d/100, status %s.",
		len(comments), counts[TypeIssue], counts[TypeSuggestion], counts[TypePraise], score, status)
	if d := strings.TrimSpace(req.Description); d != "" {
		fmt.Fprintf(&sb, " Context: %s", d)
	}
	return sb.String()
}

func countByType(comments []Comment) map[string]int {
	counts := make(map[string]int)
	for _, c := range comments {
		counts[c.Type]++
	}
	return counts
}
