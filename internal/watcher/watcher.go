// Package watcher re-analyzes source files as they change and emits alerts
// when their quality moves noticeably.
package watcher

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/blackwell-systems/codewatch/internal/analysis"
)

// FileState is the analysis of one file at a point in time.
type FileState struct {
	Path       string
	Missing    bool
	ModTime    time.Time
	Size       int64
	Score      int
	IssueCount int
	MajorCount int
}

// WatchState captures a point-in-time snapshot of every watched file.
type WatchState struct {
	Timestamp time.Time
	Files     map[string]FileState
}

// Alert represents a notable event detected by the watcher.
type Alert struct {
	Level   string // "info", "warning", "critical"
	Title   string
	Message string
	Time    time.Time
}

// Watcher polls a fixed set of files at a regular interval and emits alerts
// when their analysis results change.
type Watcher struct {
	paths         []string
	interval      time.Duration
	engine        *analysis.Engine
	opts          analysis.Options
	previous      *WatchState
	alertFn       func(Alert)     // callback for emitting alerts
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts
	now           func() time.Time
}

// New creates a Watcher over paths.
func New(paths []string, interval time.Duration, opts analysis.Options, alertFn func(Alert)) *Watcher {
	return &Watcher{
		paths:         paths,
		interval:      interval,
		engine:        analysis.NewEngine(),
		opts:          opts,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
		now:           time.Now,
	}
}

// Baseline takes the initial snapshot that later checks compare against.
func (w *Watcher) Baseline() *WatchState {
	w.previous = w.Snapshot()
	return w.previous
}

// Run checks at every interval until ctx is cancelled. It takes a baseline
// first unless one already exists.
func (w *Watcher) Run(ctx context.Context) error {
	if w.previous == nil {
		w.Baseline()
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, a := range w.Check() {
				if w.alertFn != nil {
					w.alertFn(a)
				}
			}
		}
	}
}

// Check performs a single check cycle: takes a new snapshot, compares against
// the previous state, updates the previous state, and returns any alerts.
// Identical alerts are suppressed until the underlying data changes.
func (w *Watcher) Check() []Alert {
	curr := w.Snapshot()

	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr)
	}

	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys

	w.previous = curr
	return alerts
}

// Snapshot analyzes every watched file. Files whose size and modification
// time match the previous snapshot are not re-read.
func (w *Watcher) Snapshot() *WatchState {
	state := &WatchState{
		Timestamp: w.now(),
		Files:     make(map[string]FileState, len(w.paths)),
	}
	for _, p := range w.paths {
		state.Files[p] = w.snapshotFile(p)
	}
	return state
}

func (w *Watcher) snapshotFile(path string) FileState {
	info, err := os.Stat(path)
	if err != nil {
		return FileState{Path: path, Missing: true}
	}

	if w.previous != nil {
		if prev, ok := w.previous.Files[path]; ok && !prev.Missing &&
			prev.Size == info.Size() && prev.ModTime.Equal(info.ModTime()) {
			return prev
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return FileState{Path: path, Missing: true}
	}

	res := w.engine.Analyze(string(data), "", w.opts)
	fs := FileState{
		Path:       path,
		ModTime:    info.ModTime(),
		Size:       info.Size(),
		Score:      res.Score,
		IssueCount: len(res.Issues),
	}
	for _, is := range res.Issues {
		if is.Severity == analysis.SeverityMajor || is.Severity == analysis.SeverityCritical {
			fs.MajorCount++
		}
	}
	return fs
}

// Summary describes a snapshot in one line.
func (s *WatchState) Summary() string {
	files, issues, total := 0, 0, 0
	for _, f := range s.Files {
		if f.Missing {
			continue
		}
		files++
		issues += f.IssueCount
		total += f.Score
	}
	if files == 0 {
		return "no readable files"
	}
	return fmt.Sprintf("%d files, %d issues, mean score %d", files, issues, total/files)
}
