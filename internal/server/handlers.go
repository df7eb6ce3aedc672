package server

import (
	"net/http"

	"github.com/blackwell-systems/codewatch/internal/analysis"
	"github.com/blackwell-systems/codewatch/internal/optimize"
	"github.com/blackwell-systems/codewatch/internal/review"
	"github.com/blackwell-systems/codewatch/internal/store"
)

type analyzeRequest struct {
	Code     string           `json:"code"`
	Language string           `json:"language"`
	Options  analysis.Options `json:"options"`
}

type optimizeRequest struct {
	Code             string `json:"code"`
	Language         string `json:"language"`
	OptimizationType string `json:"optimization_type"`
	PreserveComments *bool  `json:"preserve_comments"`
}

type reviewRequest struct {
	Code        string `json:"code"`
	Language    string `json:"language"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decode(w, r, s.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Code == "" || req.Language == "" {
		writeError(w, invalid("code and language are required"))
		return
	}

	writeData(w, s.analyzer.Analyze(req.Code, req.Language, req.Options))
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := decode(w, r, s.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Code == "" || req.Language == "" || req.OptimizationType == "" {
		writeError(w, invalid("code, language and optimization_type are required"))
		return
	}
	typ, err := optimize.ParseType(req.OptimizationType)
	if err != nil {
		writeError(w, invalid("%v", err))
		return
	}

	opts := optimize.Options{Type: typ, PreserveComments: true}
	if req.PreserveComments != nil {
		opts.PreserveComments = *req.PreserveComments
	}
	writeData(w, s.optimizer.Optimize(req.Code, opts))
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decode(w, r, s.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Code == "" || req.Language == "" || req.Title == "" || req.Author == "" {
		writeError(w, invalid("code, language, title and author are required"))
		return
	}

	in := review.Request{
		Code:        req.Code,
		Language:    req.Language,
		Title:       req.Title,
		Description: req.Description,
		Author:      req.Author,
	}
	res := s.reviewer.Review(in)

	if s.history != nil {
		rec := store.NewReviewRecord(res, in, s.now())
		if err := s.history.SaveReview(rec); err != nil {
			// The verdict is still valid; only the history entry is lost.
			s.log.Warn("saving review", "id", res.ID, "error", err)
		}
	}

	writeData(w, res)
}

func (s *Server) handleReviewStats(w http.ResponseWriter, _ *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusServiceUnavailable, envelope{Error: "review history is not enabled"})
		return
	}
	stats, err := s.history.ReviewStats()
	if err != nil {
		s.log.Error("loading review stats", "error", err)
		writeError(w, err)
		return
	}
	writeData(w, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeData(w, map[string]string{"status": "ok"})
}
