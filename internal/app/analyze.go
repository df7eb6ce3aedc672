package app

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/codewatch/internal/analysis"
	"github.com/blackwell-systems/codewatch/internal/output"
	"github.com/blackwell-systems/codewatch/internal/report"
)

var (
	analyzeFlagLanguage     string
	analyzeFlagFormat       string
	analyzeFlagJobs         int
	analyzeFlagFailUnder    int
	analyzeFlagNoComplexity bool
	analyzeFlagNoStyle      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|dir...]",
	Short: "Report diagnostics, metrics and a quality score",
	Long: `Analyze runs the diagnostic rule set over each file and prints the
issues, metrics and a 0-100 score. Directories are expanded to the source
files beneath them. Multiple files are analyzed in parallel.

Output formats: text (default), json, sarif.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFlagLanguage, "language", "", "Language tag (default: detected from file extension)")
	analyzeCmd.Flags().StringVar(&analyzeFlagFormat, "format", "text", "Output format: text, json, sarif")
	analyzeCmd.Flags().IntVar(&analyzeFlagJobs, "jobs", runtime.NumCPU(), "Maximum files analyzed concurrently")
	analyzeCmd.Flags().IntVar(&analyzeFlagFailUnder, "fail-under", 0, "Exit non-zero when any file scores below this value")
	analyzeCmd.Flags().BoolVar(&analyzeFlagNoComplexity, "no-complexity", false, "Skip complexity rules")
	analyzeCmd.Flags().BoolVar(&analyzeFlagNoStyle, "no-style", false, "Skip style rules")

	rootCmd.AddCommand(analyzeCmd)
}

// fileAnalysis pairs an input with its result.
type fileAnalysis struct {
	File     string           `json:"file"`
	Language string           `json:"language"`
	Result   *analysis.Result `json:"result"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format := analyzeFlagFormat
	if flagJSON {
		format = "json"
	}
	if format != "text" && format != "json" && format != "sarif" {
		return fmt.Errorf("unknown format %q: must be text, json or sarif", format)
	}

	complexity := cfg.Analysis.Complexity && !analyzeFlagNoComplexity
	style := cfg.Analysis.Style && !analyzeFlagNoStyle
	opts := analysis.Options{Complexity: &complexity, Style: &style}

	paths := []string{"-"}
	if len(args) > 0 {
		if paths, err = expandPaths(args); err != nil {
			return err
		}
	}

	results, err := analyzeFiles(cmd.InOrStdin(), paths, opts, analyzeFlagJobs)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch format {
	case "json":
		if err := writeJSON(w, results); err != nil {
			return err
		}
	case "sarif":
		files := make([]report.File, 0, len(results))
		for _, r := range results {
			files = append(files, report.File{Path: r.File, Issues: r.Result.Issues})
		}
		if err := report.WriteSARIF(w, files); err != nil {
			return err
		}
	default:
		for _, r := range results {
			renderAnalysis(w, r)
		}
	}

	if analyzeFlagFailUnder > 0 {
		for _, r := range results {
			if r.Result.Score < analyzeFlagFailUnder {
				return fmt.Errorf("%s scored %d, below --fail-under %d", r.File, r.Result.Score, analyzeFlagFailUnder)
			}
		}
	}
	return nil
}

// analyzeFiles reads and analyzes paths with at most jobs in flight.
// Results keep the order of paths.
func analyzeFiles(stdin io.Reader, paths []string, opts analysis.Options, jobs int) ([]fileAnalysis, error) {
	engine := analysis.NewEngine()
	results := make([]fileAnalysis, len(paths))

	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			src, err := readSource(stdin, path, analyzeFlagLanguage)
			if err != nil {
				return err
			}
			results[i] = fileAnalysis{
				File:     src.Name,
				Language: src.Language,
				Result:   engine.Analyze(src.Code, src.Language, opts),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func renderAnalysis(w io.Writer, fa fileAnalysis) {
	res := fa.Result
	fmt.Fprintln(w, output.Section(fa.File))
	fmt.Fprintln(w)
	fmt.Fprintln(w, output.KeyValue("Score:", output.ScoreBar(res.Score, analysis.GoodScore, analysis.FairScore, 20)))
	fmt.Fprintln(w, output.KeyValue("Lines of code:", fmt.Sprintf("%d", res.Metrics.LinesOfCode)))
	fmt.Fprintln(w, output.KeyValue("Complexity:", fmt.Sprintf("%d", res.Metrics.Complexity)))
	fmt.Fprintln(w, output.KeyValue("Maintainability:", fmt.Sprintf("%d", res.Metrics.MaintainabilityIndex)))
	fmt.Fprintln(w, output.KeyValue("Technical debt:", fmt.Sprintf("%d", res.Metrics.TechnicalDebt)))
	fmt.Fprintln(w, output.KeyValue("Code smells:", fmt.Sprintf("%d", res.Metrics.CodeSmells)))
	fmt.Fprintln(w)

	if len(res.Issues) == 0 {
		fmt.Fprintln(w, output.StyleMuted.Render(" No issues found."))
	} else {
		tbl := output.NewTable("Line", "Col", "Severity", "Rule", "Message")
		for _, is := range res.Issues {
			tbl.AddRow(
				fmt.Sprintf("%d", is.Line),
				fmt.Sprintf("%d", is.Column),
				output.Severity(is.Severity),
				is.Rule,
				is.Message,
			)
		}
		tbl.Print(w)
	}

	fmt.Fprintln(w)
	for _, s := range res.Suggestions {
		fmt.Fprintf(w, " %s %s\n", output.StyleMuted.Render("•"), s)
	}
}
