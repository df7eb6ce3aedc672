package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/blackwell-systems/codewatch/internal/review"
)

// topRulesLimit is how many rules ReviewStats reports.
const topRulesLimit = 5

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// NewReviewRecord flattens a review result into a persistable record.
func NewReviewRecord(res *review.Result, req review.Request, at time.Time) *ReviewRecord {
	rec := &ReviewRecord{
		ID:             res.ID,
		Title:          res.Title,
		Author:         req.Author,
		Language:       req.Language,
		Status:         string(res.Status),
		Score:          res.Score,
		CommentCount:   len(res.Comments),
		ApprovalNeeded: res.ApprovalRequired,
		CreatedAt:      at.UTC(),
		RuleCounts:     make(map[string]int),
	}
	for _, c := range res.Comments {
		if c.Type == review.TypeIssue {
			rec.IssueCount++
		}
		rec.RuleCounts[c.Rule]++
	}
	return rec
}

// SaveReview inserts a review and its per-rule tallies in one transaction.
func (db *DB) SaveReview(rec *ReviewRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO reviews
		(id, title, author, language, status, score, comment_count, issue_count, approval_needed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Author, rec.Language, rec.Status, rec.Score,
		rec.CommentCount, rec.IssueCount, rec.ApprovalNeeded,
		rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting review %s: %w", rec.ID, err)
	}

	for rule, count := range rec.RuleCounts {
		if _, err := tx.Exec(
			"INSERT INTO review_rules (review_id, rule, count) VALUES (?, ?, ?)",
			rec.ID, rule, count,
		); err != nil {
			return fmt.Errorf("inserting rule count %s: %w", rule, err)
		}
	}

	return tx.Commit()
}

// ListReviews returns up to limit reviews, newest first. A limit <= 0
// returns all reviews.
func (db *DB) ListReviews(limit int) ([]ReviewRecord, error) {
	query := `SELECT id, title, author, language, status, score, comment_count,
		issue_count, approval_needed, created_at
		FROM reviews ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []ReviewRecord
	for rows.Next() {
		var r ReviewRecord
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Title, &r.Author, &r.Language, &r.Status, &r.Score,
			&r.CommentCount, &r.IssueCount, &r.ApprovalNeeded, &createdAt); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("review %s: parsing created_at: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReviewStats computes aggregate statistics over every stored review.
func (db *DB) ReviewStats() (*ReviewStats, error) {
	stats := &ReviewStats{
		ByStatus: make(map[string]int),
		TopRules: []RuleCount{},
	}

	var avg sql.NullFloat64
	var issues sql.NullInt64
	var last sql.NullString
	err := db.conn.QueryRow(
		"SELECT COUNT(*), AVG(score), SUM(issue_count), MAX(created_at) FROM reviews",
	).Scan(&stats.TotalReviews, &avg, &issues, &last)
	if err != nil {
		return nil, fmt.Errorf("querying review totals: %w", err)
	}
	if stats.TotalReviews == 0 {
		return stats, nil
	}
	stats.AverageScore = avg.Float64
	stats.TotalIssues = int(issues.Int64)
	if last.Valid {
		t, err := time.Parse(timeLayout, last.String)
		if err != nil {
			return nil, fmt.Errorf("parsing last review time: %w", err)
		}
		stats.LastReviewedAt = &t
	}

	if err := db.countByStatus(stats.ByStatus); err != nil {
		return nil, err
	}
	stats.ApprovalRate = float64(stats.ByStatus[string(review.StatusApproved)]) / float64(stats.TotalReviews)

	rows, err := db.conn.Query(
		"SELECT rule, SUM(count) AS n FROM review_rules GROUP BY rule ORDER BY n DESC, rule LIMIT ?",
		topRulesLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying rule counts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var rc RuleCount
		if err := rows.Scan(&rc.Rule, &rc.Count); err != nil {
			return nil, err
		}
		stats.TopRules = append(stats.TopRules, rc)
	}
	return stats, rows.Err()
}

// countByStatus fills counts with the number of reviews per status.
func (db *DB) countByStatus(counts map[string]int) error {
	rows, err := db.conn.Query("SELECT status, COUNT(*) FROM reviews GROUP BY status")
	if err != nil {
		return fmt.Errorf("querying status counts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return err
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading status counts: %w", err)
	}
	return nil
}
