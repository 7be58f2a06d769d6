package api

import (
	"net/http"

	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/i18n"
)

type analysisResponse struct {
	model.RunAnalysisResult
	Display *i18n.Display `json:"display"`
}

type errorsResponse struct {
	model.ErrorDetectionResult
	Display *i18n.Display `json:"display"`
}

type reportResponse struct {
	model.Report
	Display *i18n.Display `json:"display"`
}

type compareRequest struct {
	Before *model.RunAnalysisResult `json:"before"`
	After  *model.RunAnalysisResult `json:"after"`
}

type compareResponse struct {
	model.ComparisonResult
	Display *i18n.Display `json:"display"`
}

// handleAnalyze handles POST /v1/analyze.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	loc, err := s.localeFor(r)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	var in model.RunBiomechanicsInput
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, op, err)
		return
	}
	res, err := s.deps.Analyze(r.Context(), in)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, analysisResponse{res, i18n.NewDisplay(loc).Analysis(&res)})
}

// handleAnalyzeSimple handles POST /v1/analyze/simple.
func (s *Server) handleAnalyzeSimple(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze_simple"
	loc, err := s.localeFor(r)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	var in model.SimpleInput
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, op, err)
		return
	}
	res, err := s.deps.AnalyzeSimple(r.Context(), in)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, analysisResponse{res, i18n.NewDisplay(loc).Analysis(&res)})
}

// handleErrors handles POST /v1/errors.
func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	const op = "api.errors"
	loc, err := s.localeFor(r)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	var in model.RunBiomechanicsInput
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, op, err)
		return
	}
	res, err := s.deps.DetectErrors(r.Context(), in)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, errorsResponse{res, i18n.NewDisplay(loc).Errors(&res)})
}

// handleReport handles POST /v1/report.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.report"
	loc, err := s.localeFor(r)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	var in model.RunBiomechanicsInput
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, op, err)
		return
	}
	res, err := s.deps.Report(r.Context(), in)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{res, i18n.NewDisplay(loc).Report(&res)})
}

// handleCompare handles POST /v1/compare.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.compare"
	loc, err := s.localeFor(r)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	var req compareRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, op, err)
		return
	}
	switch {
	case req.Before == nil:
		s.fail(w, r, op, &model.ValidationError{Field: "before", Reason: "is required"})
		return
	case req.After == nil:
		s.fail(w, r, op, &model.ValidationError{Field: "after", Reason: "is required"})
		return
	}
	res, err := s.deps.Compare(r.Context(), *req.Before, *req.After)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, compareResponse{res, i18n.NewDisplay(loc).Comparison(&res)})
}
