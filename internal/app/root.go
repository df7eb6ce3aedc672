// Package app contains the Cobra command tree for codewatch.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codewatch/internal/config"
	"github.com/blackwell-systems/codewatch/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "codewatch",
	Short: "Heuristic code quality analysis, optimization and review",
	Long: `codewatch scans source text line by line and reports diagnostics,
quality metrics and a 0-100 score. It can also propose rewrites for common
performance, readability and security patterns, and run an automated review
that ends in an approved, needs-work or rejected verdict.

Input is read from the named files, or from stdin when no file (or "-") is
given.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		output.SetNoColor(flagNoColor || !isTerminal(cmd.OutOrStdout()))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "codewatch", appVersion)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Use a subcommand:")
		fmt.Fprintln(w, "  analyze   Report diagnostics, metrics and a quality score")
		fmt.Fprintln(w, "  optimize  Suggest and apply line-level rewrites")
		fmt.Fprintln(w, "  review    Run an automated review and print the verdict")
		fmt.Fprintln(w, "  history   Show stored reviews and aggregate statistics")
		fmt.Fprintln(w, "  serve     Serve the pipelines over HTTP")
		fmt.Fprintln(w, "  mcp       Serve the pipelines as MCP tools over stdio")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/codewatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// loadConfig loads configuration and applies the output.color preference.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if !cfg.Output.Color {
		output.SetNoColor(true)
	}
	return cfg, nil
}
