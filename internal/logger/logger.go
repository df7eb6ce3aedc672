// Package logger builds hclog loggers from codewatch configuration.
package logger

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/blackwell-systems/codewatch/internal/config"
)

// LevelEnv overrides the configured log level when set.
const LevelEnv = "CODEWATCH_LOG_LEVEL"

// New creates a named logger writing to stderr.
func New(cfg *config.Config, name string) hclog.Logger {
	return NewWithOutput(cfg, name, os.Stderr)
}

// NewWithOutput creates a named logger writing to w.
func NewWithOutput(cfg *config.Config, name string, w io.Writer) hclog.Logger {
	var logCfg config.Log
	if cfg != nil {
		logCfg = cfg.Log
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      determineLevel(logCfg.Level),
		JSONFormat: logCfg.JSON,
		Output:     w,
	})
}

// determineLevel prefers the environment over the configured level and
// falls back to INFO.
func determineLevel(configured string) hclog.Level {
	if env := os.Getenv(LevelEnv); env != "" {
		return parseLevel(env)
	}
	return parseLevel(configured)
}

// parseLevel maps a level name to an hclog level, defaulting to INFO for
// empty or unknown names.
func parseLevel(s string) hclog.Level {
	if level := hclog.LevelFromString(s); level != hclog.NoLevel {
		return level
	}
	return hclog.Info
}
