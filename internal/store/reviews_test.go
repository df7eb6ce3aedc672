package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/codewatch/internal/review"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleResult(id string, status review.Status, score int, rules ...string) *review.Result {
	res := &review.Result{ID: id, Title: "title " + id, Status: status, Score: score}
	for _, r := range rules {
		typ := review.TypeIssue
		if r == "async-await" {
			typ = review.TypePraise
		}
		res.Comments = append(res.Comments, review.Comment{Type: typ, Rule: r})
	}
	return res
}

func TestNewReviewRecord(t *testing.T) {
	res := sampleResult("r1", review.StatusNeedsWork, 70, "magic-number", "magic-number", "async-await")
	res.ApprovalRequired = true
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	rec := NewReviewRecord(res, review.Request{Author: "dana", Language: "javascript"}, at)

	assert.Equal(t, "r1", rec.ID)
	assert.Equal(t, "dana", rec.Author)
	assert.Equal(t, "javascript", rec.Language)
	assert.Equal(t, "needs-work", rec.Status)
	assert.Equal(t, 3, rec.CommentCount)
	assert.Equal(t, 2, rec.IssueCount)
	assert.True(t, rec.ApprovalNeeded)
	assert.Equal(t, map[string]int{"magic-number": 2, "async-await": 1}, rec.RuleCounts)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
}

func TestSaveAndListReviews(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		rec := NewReviewRecord(sampleResult(id, review.StatusApproved, 90), review.Request{Author: "x", Language: "go"}, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, db.SaveReview(rec))
	}

	all, err := db.ListReviews(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[2].ID)
	assert.True(t, all[0].CreatedAt.Equal(base.Add(2*time.Hour)))

	limited, err := db.ListReviews(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSaveReview_DuplicateID(t *testing.T) {
	db := openTestDB(t)
	rec := NewReviewRecord(sampleResult("dup", review.StatusApproved, 95, "magic-number"), review.Request{}, time.Now())
	require.NoError(t, db.SaveReview(rec))
	assert.Error(t, db.SaveReview(rec))

	all, err := db.ListReviews(0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReviewStats_Empty(t *testing.T) {
	db := openTestDB(t)
	stats, err := db.ReviewStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalReviews)
	assert.Zero(t, stats.ApprovalRate)
	assert.Nil(t, stats.LastReviewedAt)
	assert.Empty(t, stats.TopRules)
}

func TestReviewStats(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	req := review.Request{Author: "x", Language: "js"}

	require.NoError(t, db.SaveReview(NewReviewRecord(sampleResult("1", review.StatusApproved, 100), req, now.Add(-2*time.Hour))))
	require.NoError(t, db.SaveReview(NewReviewRecord(sampleResult("2", review.StatusNeedsWork, 70, "magic-number", "function-length"), req, now.Add(-time.Hour))))
	require.NoError(t, db.SaveReview(NewReviewRecord(sampleResult("3", review.StatusApproved, 90, "magic-number", "magic-number"), req, now)))
	require.NoError(t, db.SaveReview(NewReviewRecord(sampleResult("4", review.StatusRejected, 40, "missing-error-handling"), req, now.Add(-3*time.Hour))))

	stats, err := db.ReviewStats()
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalReviews)
	assert.InDelta(t, 75.0, stats.AverageScore, 0.001)
	assert.Equal(t, map[string]int{"approved": 2, "needs-work": 1, "rejected": 1}, stats.ByStatus)
	assert.InDelta(t, 0.5, stats.ApprovalRate, 0.001)
	assert.Equal(t, 5, stats.TotalIssues)
	require.NotNil(t, stats.LastReviewedAt)
	assert.True(t, stats.LastReviewedAt.Equal(now))
	require.NotEmpty(t, stats.TopRules)
	assert.Equal(t, RuleCount{Rule: "magic-number", Count: 3}, stats.TopRules[0])
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate())
}

func TestCorruptTimestampIsReported(t *testing.T) {
	db := openTestDB(t)
	req := review.Request{Author: "x", Language: "js"}
	require.NoError(t, db.SaveReview(NewReviewRecord(sampleResult("1", review.StatusApproved, 100), req, time.Now())))

	_, err := db.conn.Exec("UPDATE reviews SET created_at = 'yesterday' WHERE id = '1'")
	require.NoError(t, err)

	_, err = db.ListReviews(0)
	assert.ErrorContains(t, err, "created_at")

	_, err = db.ReviewStats()
	assert.ErrorContains(t, err, "last review time")
}
