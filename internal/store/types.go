// Package store provides SQLite persistence for review history.
package store

import "time"

// ReviewRecord is one persisted review.
type ReviewRecord struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Author         string         `json:"author"`
	Language       string         `json:"language"`
	Status         string         `json:"status"`
	Score          int            `json:"score"`
	CommentCount   int            `json:"comment_count"`
	IssueCount     int            `json:"issue_count"`
	ApprovalNeeded bool           `json:"approval_required"`
	CreatedAt      time.Time      `json:"created_at"`
	RuleCounts     map[string]int `json:"rule_counts,omitempty"`
}

// RuleCount is a rule id with the number of times it fired.
type RuleCount struct {
	Rule  string `json:"rule"`
	Count int    `json:"count"`
}

// ReviewStats aggregates the review history.
type ReviewStats struct {
	TotalReviews   int            `json:"total_reviews"`
	AverageScore   float64        `json:"average_score"`
	ByStatus       map[string]int `json:"by_status"`
	ApprovalRate   float64        `json:"approval_rate"`
	TotalIssues    int            `json:"total_issues"`
	TopRules       []RuleCount    `json:"top_rules"`
	LastReviewedAt *time.Time     `json:"last_reviewed_at,omitempty"`
}
