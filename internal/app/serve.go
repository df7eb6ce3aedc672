package app

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codewatch/internal/logger"
	"github.com/blackwell-systems/codewatch/internal/server"
)

var serveFlagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipelines over HTTP",
	Long: `Serve starts an HTTP JSON service:

  POST /api/analyze        {code, language, options?}
  POST /api/optimize       {code, language, optimization_type, preserve_comments?}
  POST /api/review         {code, language, title, description?, author}
  GET  /api/review/stats   aggregate review history
  GET  /healthz

Every response uses the envelope {success, data?, error?}.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlagAddr, "addr", "", "Listen address (default: server.addr from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlagAddr != "" {
		cfg.Server.Addr = serveFlagAddr
	}

	log := logger.New(cfg, "codewatch")

	opts := []server.Option{server.WithReviewEngine(newReviewEngine(cfg))}
	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() { _ = db.Close() }()
		opts = append(opts, server.WithHistory(db))
		log.Info("review history enabled", "path", cfg.Store.Path)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(cfg.Server, log.Named("http"), opts...).ListenAndServe(ctx)
}
