package app

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codewatch/internal/logger"
	"github.com/blackwell-systems/codewatch/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the pipelines as MCP tools over stdio",
	Long: `Start a Model Context Protocol stdio server that editors and agents
can call. The server exposes four tools:

  analyze_code      Diagnostics, metrics and a quality score
  optimize_code     Optimization suggestions and rewritten code
  review_code       Review comments and a verdict
  get_review_stats  Aggregate statistics over stored reviews

Example MCP configuration:
  {"mcpServers":{"codewatch":{"command":"codewatch","args":["mcp"]}}}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := mcp.Options{
		Reviewer: newReviewEngine(cfg),
		Logger:   logger.New(cfg, "codewatch.mcp"),
		Version:  appVersion,
	}
	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() { _ = db.Close() }()
		opts.History = db
	}

	srv := mcp.NewServer(opts)
	return srv.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
}
