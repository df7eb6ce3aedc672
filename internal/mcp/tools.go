package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blackwell-systems/codewatch/internal/analysis"
	"github.com/blackwell-systems/codewatch/internal/optimize"
	"github.com/blackwell-systems/codewatch/internal/review"
	"github.com/blackwell-systems/codewatch/internal/store"
)

// AnalyzeArgs are the arguments of the analyze_code tool.
type AnalyzeArgs struct {
	Code     string           `json:"code"`
	Language string           `json:"language"`
	Options  analysis.Options `json:"options"`
}

// OptimizeArgs are the arguments of the optimize_code tool.
type OptimizeArgs struct {
	Code             string `json:"code"`
	Language         string `json:"language"`
	OptimizationType string `json:"optimization_type"`
	PreserveComments *bool  `json:"preserve_comments"`
}

// ReviewArgs are the arguments of the review_code tool.
type ReviewArgs struct {
	Code        string `json:"code"`
	Language    string `json:"language"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
}

var (
	noArgsSchema  = json.RawMessage(`{"type":"object","properties":{},"additionalProperties":false}`)
	analyzeSchema = json.RawMessage(`{"type":"object","properties":{` +
		`"code":{"type":"string","description":"Source text to analyze"},` +
		`"language":{"type":"string","description":"Language tag, e.g. javascript"},` +
		`"options":{"type":"object","properties":{"complexity":{"type":"boolean"},"style":{"type":"boolean"},"security":{"type":"boolean"},"performance":{"type":"boolean"}}}` +
		`},"required":["code","language"]}`)
	optimizeSchema = json.RawMessage(`{"type":"object","properties":{` +
		`"code":{"type":"string"},` +
		`"language":{"type":"string"},` +
		`"optimization_type":{"type":"string","enum":["performance","readability","security","all"]},` +
		`"preserve_comments":{"type":"boolean","description":"Exempt comment lines from rewrites (default true)"}` +
		`},"required":["code","language","optimization_type"]}`)
	reviewSchema = json.RawMessage(`{"type":"object","properties":{` +
		`"code":{"type":"string"},` +
		`"language":{"type":"string"},` +
		`"title":{"type":"string"},` +
		`"description":{"type":"string"},` +
		`"author":{"type":"string"}` +
		`},"required":["code","language","title","author"]}`)
)

// addTools registers every codewatch tool on s.
func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "analyze_code",
		Description: "Line-oriented diagnostics, metrics and a 0-100 quality score.",
		InputSchema: analyzeSchema,
		Handler:     s.handleAnalyze,
	})
	s.registerTool(toolDef{
		Name:        "optimize_code",
		Description: "Optimization suggestions plus rewritten source for the selected category.",
		InputSchema: optimizeSchema,
		Handler:     s.handleOptimize,
	})
	s.registerTool(toolDef{
		Name:        "review_code",
		Description: "Automated review comments with an approved, needs-work or rejected verdict.",
		InputSchema: reviewSchema,
		Handler:     s.handleReview,
	})
	s.registerTool(toolDef{
		Name:        "get_review_stats",
		Description: "Aggregate statistics over stored reviews.",
		InputSchema: noArgsSchema,
		Handler:     s.handleReviewStats,
	})
}

func decodeArgs(args json.RawMessage, dst any) error {
	if err := json.Unmarshal(args, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (s *Server) handleAnalyze(args json.RawMessage) (any, error) {
	var a AnalyzeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Code == "" || a.Language == "" {
		return nil, errors.New("code and language are required")
	}
	return s.analyzer.Analyze(a.Code, a.Language, a.Options), nil
}

func (s *Server) handleOptimize(args json.RawMessage) (any, error) {
	var a OptimizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Code == "" || a.Language == "" || a.OptimizationType == "" {
		return nil, errors.New("code, language and optimization_type are required")
	}
	typ, err := optimize.ParseType(a.OptimizationType)
	if err != nil {
		return nil, err
	}
	opts := optimize.Options{Type: typ, PreserveComments: true}
	if a.PreserveComments != nil {
		opts.PreserveComments = *a.PreserveComments
	}
	return s.optimizer.Optimize(a.Code, opts), nil
}

func (s *Server) handleReview(args json.RawMessage) (any, error) {
	var a ReviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Code == "" || a.Language == "" || a.Title == "" || a.Author == "" {
		return nil, errors.New("code, language, title and author are required")
	}

	req := review.Request{
		Code:        a.Code,
		Language:    a.Language,
		Title:       a.Title,
		Description: a.Description,
		Author:      a.Author,
	}
	res := s.reviewer.Review(req)
	if s.history != nil {
		if err := s.history.SaveReview(store.NewReviewRecord(res, req, s.now())); err != nil {
			s.log.Warn("saving review", "id", res.ID, "error", err)
		}
	}
	return res, nil
}

func (s *Server) handleReviewStats(_ json.RawMessage) (any, error) {
	if s.history == nil {
		return nil, errors.New("review history is not enabled")
	}
	return s.history.ReviewStats()
}
