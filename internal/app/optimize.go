package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codewatch/internal/optimize"
	"github.com/blackwell-systems/codewatch/internal/output"
)

var (
	optimizeFlagType             string
	optimizeFlagLanguage         string
	optimizeFlagPreserveComments bool
	optimizeFlagWrite            bool
	optimizeFlagPrint            bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [file]",
	Short: "Suggest and apply line-level rewrites",
	Long: `Optimize runs the optimization rules for the selected category and
lists each suggestion. Rewrites that can be applied mechanically are merged
into the optimized code, which can be printed (--print) or written back to
the file (--write).

Types: performance, readability, security, all.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVar(&optimizeFlagType, "type", string(optimize.TypeAll), "Optimization type: performance, readability, security, all")
	optimizeCmd.Flags().StringVar(&optimizeFlagLanguage, "language", "", "Language tag (default: detected from file extension)")
	optimizeCmd.Flags().BoolVar(&optimizeFlagPreserveComments, "preserve-comments", true, "Leave comment lines untouched by category rules")
	optimizeCmd.Flags().BoolVar(&optimizeFlagWrite, "write", false, "Write the optimized code back to the file")
	optimizeCmd.Flags().BoolVar(&optimizeFlagPrint, "print", false, "Print the optimized code")

	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	typ, err := optimize.ParseType(optimizeFlagType)
	if err != nil {
		return err
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	if optimizeFlagWrite && (path == "" || path == "-") {
		return errors.New("--write needs a file argument")
	}

	src, err := readSource(cmd.InOrStdin(), path, optimizeFlagLanguage)
	if err != nil {
		return err
	}

	res := optimize.NewEngine(nil).Optimize(src.Code, optimize.Options{
		Type:             typ,
		PreserveComments: optimizeFlagPreserveComments,
	})

	if optimizeFlagWrite && res.OptimizedCode != res.OriginalCode {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(res.OptimizedCode), info.Mode().Perm()); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, res)
	}
	renderOptimization(w, src.Name, res)
	if optimizeFlagPrint {
		fmt.Fprintln(w, output.Section("Optimized code"))
		fmt.Fprintln(w)
		fmt.Fprint(w, res.OptimizedCode)
		if res.OptimizedCode != "" && res.OptimizedCode[len(res.OptimizedCode)-1] != '\n' {
			fmt.Fprintln(w)
		}
	}
	return nil
}

func renderOptimization(w io.Writer, name string, res *optimize.Result) {
	fmt.Fprintln(w, output.Section(name))
	fmt.Fprintln(w)

	if len(res.Suggestions) == 0 {
		fmt.Fprintln(w, output.StyleMuted.Render(" No optimizations found."))
	} else {
		tbl := output.NewTable("Line", "Impact", "Category", "Rule", "Message")
		for _, s := range res.Suggestions {
			tbl.AddRow(
				fmt.Sprintf("%d", s.Line),
				output.Severity(s.Impact),
				s.Category,
				s.Rule,
				s.Message,
			)
		}
		tbl.Print(w)
	}

	sum := res.Summary
	fmt.Fprintln(w, output.Section("Summary"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, output.KeyValue("Total changes:", fmt.Sprintf("%d", sum.TotalChanges)))
	fmt.Fprintln(w, output.KeyValue("Performance:", sum.PerformanceGains))
	fmt.Fprintln(w, output.KeyValue("Readability score:", fmt.Sprintf("%d", sum.ReadabilityScore)))
	fmt.Fprintln(w, output.KeyValue("Security fixes:", fmt.Sprintf("%d", sum.SecurityImprovements)))
	fmt.Fprintln(w)
}
