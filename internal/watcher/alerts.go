package watcher

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/blackwell-systems/codewatch/internal/analysis"
)

// scoreSwing is the score change, in points, that raises a warning or an
// improvement notice.
const scoreSwing = 10

// Compare detects notable changes between two watch states and returns alerts.
// Files are visited in path order so the result is deterministic.
func Compare(prev, curr *WatchState) []Alert {
	paths := make([]string, 0, len(curr.Files))
	for p := range curr.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var alerts []Alert
	for _, p := range paths {
		before, ok := prev.Files[p]
		if !ok {
			continue
		}
		after := curr.Files[p]
		alerts = append(alerts, compareCritical(before, after, curr)...)
		alerts = append(alerts, compareWarning(before, after, curr)...)
		alerts = append(alerts, compareInfo(before, after, curr)...)
	}
	return alerts
}

// compareCritical flags a file falling below the acceptable score band.
func compareCritical(prev, curr FileState, state *WatchState) []Alert {
	if prev.Missing || curr.Missing {
		return nil
	}
	if prev.Score >= analysis.FairScore && curr.Score < analysis.FairScore {
		return []Alert{{
			Level:   "critical",
			Title:   fmt.Sprintf("Quality below %d: %s", analysis.FairScore, filepath.Base(curr.Path)),
			Message: fmt.Sprintf("Score fell from %d to %d (%d issues)", prev.Score, curr.Score, curr.IssueCount),
			Time:    state.Timestamp,
		}}
	}
	return nil
}

// compareWarning flags disappearing files, score drops and new major issues.
func compareWarning(prev, curr FileState, state *WatchState) []Alert {
	if curr.Missing {
		if prev.Missing {
			return nil
		}
		return []Alert{{
			Level:   "warning",
			Title:   fmt.Sprintf("File unavailable: %s", filepath.Base(curr.Path)),
			Message: curr.Path,
			Time:    state.Timestamp,
		}}
	}
	if prev.Missing {
		return nil
	}

	var alerts []Alert
	if prev.Score-curr.Score >= scoreSwing {
		alerts = append(alerts, Alert{
			Level:   "warning",
			Title:   fmt.Sprintf("Score dropped: %s", filepath.Base(curr.Path)),
			Message: fmt.Sprintf("%d -> %d", prev.Score, curr.Score),
			Time:    state.Timestamp,
		})
	}
	if curr.MajorCount > prev.MajorCount {
		alerts = append(alerts, Alert{
			Level:   "warning",
			Title:   fmt.Sprintf("New major issues: %s", filepath.Base(curr.Path)),
			Message: fmt.Sprintf("%d major issue(s), was %d", curr.MajorCount, prev.MajorCount),
			Time:    state.Timestamp,
		})
	}
	return alerts
}

// compareInfo reports recoveries and improvements.
func compareInfo(prev, curr FileState, state *WatchState) []Alert {
	if curr.Missing {
		return nil
	}
	if prev.Missing {
		return []Alert{{
			Level:   "info",
			Title:   fmt.Sprintf("File available: %s", filepath.Base(curr.Path)),
			Message: fmt.Sprintf("Score %d (%d issues)", curr.Score, curr.IssueCount),
			Time:    state.Timestamp,
		}}
	}
	if curr.Score-prev.Score >= scoreSwing {
		return []Alert{{
			Level:   "info",
			Title:   fmt.Sprintf("Score improved: %s", filepath.Base(curr.Path)),
			Message: fmt.Sprintf("%d -> %d", prev.Score, curr.Score),
			Time:    state.Timestamp,
		}}
	}
	return nil
}
