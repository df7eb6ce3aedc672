// Package review runs the review rule set and classifies the resulting score
// into a workflow verdict.
package review

import "time"

// Comment types.
const (
	TypeIssue      = "issue"
	TypeSuggestion = "suggestion"
	TypePraise     = "praise"
	TypeQuestion   = "question"
)

// Severity levels.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Status is the review verdict.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusNeedsWork Status = "needs-work"
	StatusRejected  Status = "rejected"
)

// Reviewer is the automated identity that authors every comment.
type Reviewer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultReviewer is used when no reviewer is configured.
var DefaultReviewer = Reviewer{ID: "codewatch-bot", Name: "codewatch"}

// Comment is a single review finding.
type Comment struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Severity   string    `json:"severity"`
	Line       int       `json:"line"`
	Column     int       `json:"column"`
	Message    string    `json:"message"`
	Rule       string    `json:"rule"`
	Suggestion string    `json:"suggestion,omitempty"`
	Author     Reviewer  `json:"author"`
	CreatedAt  time.Time `json:"created_at"`
}

// Result is the output of one review.
type Result struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Status           Status    `json:"status"`
	Score            int       `json:"score"`
	Comments         []Comment `json:"comments"`
	Summary          string    `json:"summary"`
	Recommendations  []string  `json:"recommendations"`
	ApprovalRequired bool      `json:"approval_required"`
}

// Request describes the code under review.
type Request struct {
	Code        string
	Language    string
	Title       string
	Description string
	Author      string
}

// finding is what a rule reports before ids, author and timestamps are
// attached.
type finding struct {
	typ        string
	severity   string
	line       int
	column     int
	message    string
	rule       string
	suggestion string
}
