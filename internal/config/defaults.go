// Package config provides configuration loading and defaults for codewatch.
package config

import "time"

// DefaultConfigDir is the default location for codewatch configuration.
const DefaultConfigDir = "~/.config/codewatch"

// DefaultDBName is the filename for the SQLite review history database.
const DefaultDBName = "codewatch.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// EnvPrefix is the prefix for environment variable overrides, e.g.
// CODEWATCH_SERVER_ADDR.
const EnvPrefix = "CODEWATCH"

// DefaultServer holds the default HTTP service settings.
var DefaultServer = Server{
	Addr:           ":8080",
	RequestTimeout: 30 * time.Second,
	MaxBodyBytes:   1 << 20,
}

// DefaultLog holds the default logging settings.
var DefaultLog = Log{
	Level: "info",
	JSON:  false,
}

// DefaultReview holds the default review settings.
var DefaultReview = Review{
	ReviewerID:   "codewatch-bot",
	ReviewerName: "codewatch",
}

// DefaultAnalysis enables every diagnostic rule category.
var DefaultAnalysis = Analysis{
	Complexity: true,
	Style:      true,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
}
