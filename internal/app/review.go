package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codewatch/internal/output"
	"github.com/blackwell-systems/codewatch/internal/review"
	"github.com/blackwell-systems/codewatch/internal/store"
)

var (
	reviewFlagTitle       string
	reviewFlagDescription string
	reviewFlagAuthor      string
	reviewFlagLanguage    string
	reviewFlagNoSave      bool
)

var reviewCmd = &cobra.Command{
	Use:   "review [file]",
	Short: "Run an automated review and print the verdict",
	Long: `Review runs the review rules over a file and prints the comments,
score, verdict and recommendations. Unless --no-save is given (or the store
is disabled in config) the review is recorded in the history database.

The author defaults to $USER and the title to the file name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVar(&reviewFlagTitle, "title", "", "Review title (default: file name)")
	reviewCmd.Flags().StringVar(&reviewFlagDescription, "description", "", "Optional change description")
	reviewCmd.Flags().StringVar(&reviewFlagAuthor, "author", "", "Change author (default: $USER)")
	reviewCmd.Flags().StringVar(&reviewFlagLanguage, "language", "", "Language tag (default: detected from file extension)")
	reviewCmd.Flags().BoolVar(&reviewFlagNoSave, "no-save", false, "Do not record the review in history")

	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	src, err := readSource(cmd.InOrStdin(), path, reviewFlagLanguage)
	if err != nil {
		return err
	}

	req := review.Request{
		Code:        src.Code,
		Language:    src.Language,
		Title:       reviewFlagTitle,
		Description: reviewFlagDescription,
		Author:      reviewFlagAuthor,
	}
	if req.Title == "" {
		req.Title = filepath.Base(src.Name)
	}
	if req.Author == "" {
		req.Author = os.Getenv("USER")
	}
	if req.Author == "" {
		return errors.New("author is required: pass --author")
	}

	res := newReviewEngine(cfg).Review(req)

	if !reviewFlagNoSave {
		db, err := openHistory(cfg)
		if err != nil {
			return err
		}
		if db != nil {
			defer func() { _ = db.Close() }()
			if err := db.SaveReview(store.NewReviewRecord(res, req, time.Now())); err != nil {
				return fmt.Errorf("saving review: %w", err)
			}
		}
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, res)
	}
	renderReview(w, res)
	return nil
}

func renderReview(w io.Writer, res *review.Result) {
	fmt.Fprintln(w, output.Section("Review: "+res.Title))
	fmt.Fprintln(w)
	fmt.Fprintln(w, output.KeyValue("Verdict:", output.Severity(string(res.Status))))
	fmt.Fprintln(w, output.KeyValue("Score:", output.ScoreBar(res.Score, review.ApproveThreshold, review.NeedsWorkThreshold, 20)))
	approval := "no"
	if res.ApprovalRequired {
		approval = output.StyleWarning.Render("yes")
	}
	fmt.Fprintln(w, output.KeyValue("Approval required:", approval))
	fmt.Fprintln(w)
	fmt.Fprintln(w, " "+res.Summary)
	fmt.Fprintln(w)

	if len(res.Comments) > 0 {
		tbl := output.NewTable("Line", "Type", "Severity", "Rule", "Message")
		for _, c := range res.Comments {
			tbl.AddRow(
				fmt.Sprintf("%d", c.Line),
				output.Severity(c.Type),
				output.Severity(c.Severity),
				c.Rule,
				c.Message,
			)
		}
		tbl.Print(w)
		fmt.Fprintln(w)
	}

	for _, r := range res.Recommendations {
		fmt.Fprintf(w, " %s %s\n", output.StyleMuted.Render("•"), r)
	}
}
