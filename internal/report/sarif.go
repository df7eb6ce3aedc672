// Package report exports analysis findings as SARIF 2.1.0.
package report

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/blackwell-systems/codewatch/internal/analysis"
)

// ToolName and InformationURI identify codewatch in the SARIF driver block.
const (
	ToolName       = "codewatch"
	InformationURI = "https://github.com/blackwell-systems/codewatch"
)

// File groups the issues reported for one analyzed file.
type File struct {
	Path   string
	Issues []analysis.Issue
}

// WriteSARIF renders files as a single-run SARIF log to w.
func WriteSARIF(w io.Writer, files []File) error {
	rep, err := Build(files)
	if err != nil {
		return err
	}
	return rep.PrettyWrite(w)
}

// Build assembles the SARIF report without writing it.
func Build(files []File) (*sarif.Report, error) {
	rep, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("creating SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(ToolName, InformationURI)
	for _, f := range files {
		for _, issue := range f.Issues {
			level := Level(issue.Severity)
			rule := run.AddRule(issue.Rule).
				WithDescription(issue.Message).
				WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: level})

			region := sarif.NewRegion().WithStartLine(issue.Line)
			if issue.Column > 0 {
				region = region.WithStartColumn(issue.Column)
			}
			location := sarif.NewLocation().WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.Path)).
					WithRegion(region),
			)

			message := issue.Message
			if issue.Fix != "" {
				message += " " + issue.Fix
			}
			result := sarif.NewRuleResult(rule.ID).
				WithMessage(sarif.NewTextMessage(message)).
				WithLevel(level).
				WithLocations([]*sarif.Location{location})
			run.AddResult(result)
		}
	}
	rep.AddRun(run)
	return rep, nil
}

// Level maps an analysis severity onto a SARIF result level.
func Level(severity string) string {
	switch severity {
	case analysis.SeverityCritical:
		return "error"
	case analysis.SeverityMajor:
		return "warning"
	case analysis.SeverityMinor, analysis.SeverityInfo:
		return "note"
	default:
		return "none"
	}
}
