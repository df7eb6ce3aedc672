package app

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codewatch/internal/output"
	"github.com/blackwell-systems/codewatch/internal/store"
)

var (
	historyFlagLimit int
	historyFlagStats bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show stored reviews and aggregate statistics",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyFlagLimit, "limit", 20, "Maximum reviews to list (0 for all)")
	historyCmd.Flags().BoolVar(&historyFlagStats, "stats", false, "Show aggregate statistics instead of the review list")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	if db == nil {
		return errors.New("review history is disabled (store.disabled)")
	}
	defer func() { _ = db.Close() }()

	w := cmd.OutOrStdout()
	if historyFlagStats {
		stats, err := db.ReviewStats()
		if err != nil {
			return err
		}
		if flagJSON {
			return writeJSON(w, stats)
		}
		renderStats(w, stats)
		return nil
	}

	reviews, err := db.ListReviews(historyFlagLimit)
	if err != nil {
		return err
	}
	if flagJSON {
		if reviews == nil {
			reviews = []store.ReviewRecord{}
		}
		return writeJSON(w, reviews)
	}
	renderHistory(w, reviews)
	return nil
}

func renderHistory(w io.Writer, reviews []store.ReviewRecord) {
	fmt.Fprintln(w, output.Section("Review history"))
	fmt.Fprintln(w)
	if len(reviews) == 0 {
		fmt.Fprintln(w, output.StyleMuted.Render(" No reviews recorded."))
		return
	}

	tbl := output.NewTable("When", "Score", "Status", "Issues", "Author", "Title")
	for _, r := range reviews {
		tbl.AddRow(
			r.CreatedAt.Local().Format(time.DateTime),
			fmt.Sprintf("%3d", r.Score),
			output.Severity(r.Status),
			fmt.Sprintf("%d", r.IssueCount),
			r.Author,
			r.Title,
		)
	}
	tbl.Print(w)
}

func renderStats(w io.Writer, stats *store.ReviewStats) {
	fmt.Fprintln(w, output.Section("Review statistics"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, output.KeyValue("Total reviews:", fmt.Sprintf("%d", stats.TotalReviews)))
	if stats.TotalReviews == 0 {
		return
	}
	fmt.Fprintln(w, output.KeyValue("Average score:", fmt.Sprintf("%.1f", stats.AverageScore)))
	fmt.Fprintln(w, output.KeyValue("Approval rate:", fmt.Sprintf("%.0f%%", stats.ApprovalRate*100)))
	fmt.Fprintln(w, output.KeyValue("Total issues:", fmt.Sprintf("%d", stats.TotalIssues)))
	if stats.LastReviewedAt != nil {
		fmt.Fprintln(w, output.KeyValue("Last review:", stats.LastReviewedAt.Local().Format(time.DateTime)))
	}

	statuses := make([]string, 0, len(stats.ByStatus))
	for s := range stats.ByStatus {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		fmt.Fprintln(w, output.KeyValue("  "+s+":", fmt.Sprintf("%d", stats.ByStatus[s])))
	}

	if len(stats.TopRules) > 0 {
		fmt.Fprintln(w)
		tbl := output.NewTable("Rule", "Count")
		for _, rc := range stats.TopRules {
			tbl.AddRow(rc.Rule, fmt.Sprintf("%d", rc.Count))
		}
		tbl.Print(w)
	}
}
