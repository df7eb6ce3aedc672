package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level codewatch configuration.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Store    Store    `mapstructure:"store"`
	Log      Log      `mapstructure:"log"`
	Review   Review   `mapstructure:"review"`
	Analysis Analysis `mapstructure:"analysis"`
	Output   Output   `mapstructure:"output"`
}

// Server configures the HTTP service.
type Server struct {
	Addr           string        `mapstructure:"addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// Store configures the review history database. An empty path selects the
// default location under the config directory.
type Store struct {
	Path     string `mapstructure:"path"`
	Disabled bool   `mapstructure:"disabled"`
}

// Log configures logging.
type Log struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Review configures the automated reviewer identity.
type Review struct {
	ReviewerID   string `mapstructure:"reviewer_id"`
	ReviewerName string `mapstructure:"reviewer_name"`
}

// Analysis sets the default diagnostic rule categories. Per-request options
// override these.
type Analysis struct {
	Complexity bool `mapstructure:"complexity"`
	Style      bool `mapstructure:"style"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location),
// applies CODEWATCH_* environment overrides and returns a Config with all
// defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", DefaultServer.Addr)
	v.SetDefault("server.request_timeout", DefaultServer.RequestTimeout)
	v.SetDefault("server.max_body_bytes", DefaultServer.MaxBodyBytes)
	v.SetDefault("store.path", "")
	v.SetDefault("store.disabled", false)
	v.SetDefault("log.level", DefaultLog.Level)
	v.SetDefault("log.json", DefaultLog.JSON)
	v.SetDefault("review.reviewer_id", DefaultReview.ReviewerID)
	v.SetDefault("review.reviewer_name", DefaultReview.ReviewerName)
	v.SetDefault("analysis.complexity", DefaultAnalysis.Complexity)
	v.SetDefault("analysis.style", DefaultAnalysis.Style)
	v.SetDefault("output.color", DefaultOutput.Color)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = DBPath()
	}
	cfg.Store.Path = expandPath(cfg.Store.Path)

	return &cfg, nil
}

// DBPath returns the default path to the SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
