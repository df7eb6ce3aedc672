package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/codewatch/internal/config"
	"github.com/blackwell-systems/codewatch/internal/review"
	"github.com/blackwell-systems/codewatch/internal/store"
)

// stdinName labels input read from stdin.
const stdinName = "<stdin>"

// sourceFile is one unit of input.
type sourceFile struct {
	Name     string
	Language string
	Code     string
}

// languageByExt maps file extensions to language tags.
var languageByExt = map[string]string{
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".go":   "go",
	".py":   "python",
	".rb":   "ruby",
	".java": "java",
	".kt":   "kotlin",
	".cs":   "csharp",
	".php":  "php",
	".c":    "c",
	".h":    "c",
	".cc":   "cpp",
	".cpp":  "cpp",
	".rs":   "rust",
	".sh":   "shell",
}

// languageFor returns the language tag for path, "text" when unknown.
func languageFor(path string) string {
	if lang, ok := languageByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "text"
}

// readSource reads path, or stdin when path is empty or "-". An explicit
// language overrides extension detection.
func readSource(stdin io.Reader, path, language string) (sourceFile, error) {
	var (
		data []byte
		err  error
		name = path
	)
	if path == "" || path == "-" {
		name = stdinName
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return sourceFile{}, fmt.Errorf("reading %s: %w", name, err)
	}

	if language == "" {
		language = languageFor(path)
	}
	return sourceFile{Name: name, Language: language, Code: string(data)}, nil
}

// openHistory opens the review store unless it is disabled. A nil DB with
// a nil error means history is off.
func openHistory(cfg *config.Config) (*store.DB, error) {
	if cfg.Store.Disabled {
		return nil, nil
	}
	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening review history %s: %w", cfg.Store.Path, err)
	}
	return db, nil
}

// newReviewEngine builds a review engine with the configured identity.
func newReviewEngine(cfg *config.Config) *review.Engine {
	return review.NewEngine(review.WithReviewer(review.Reviewer{
		ID:   cfg.Review.ReviewerID,
		Name: cfg.Review.ReviewerName,
	}))
}

// writeJSON pretty-prints v to w.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
