package api

import (
	"net/http"

	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/i18n"
)

type recommendationsRequest struct {
	Errors      []model.RunningError `json:"errors"`
	RunnerLevel model.Level          `json:"runner_level,omitempty"`
}

type recommendationsResponse struct {
	model.RecommendationResult
	Display *i18n.Display `json:"display"`
}

type focusRequest struct {
	Errors   []model.RunningError     `json:"errors"`
	Analysis *model.RunAnalysisResult `json:"analysis"`
}

// handleRecommendations handles POST /v1/recommendations.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommendations"
	loc, err := s.localeFor(r)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	var req recommendationsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, op, err)
		return
	}
	res, err := s.deps.Recommend(r.Context(), req.Errors, req.RunnerLevel)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	d := i18n.NewDisplay(loc).Recommendations(&res)
	if req.RunnerLevel != "" {
		d.AddLevel(req.RunnerLevel)
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{res, d})
}

// handleFocus handles POST /v1/focus. The focus result carries no enums, so
// it is returned without display labels.
func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	const op = "api.focus"
	var req focusRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, op, err)
		return
	}
	if req.Analysis == nil {
		s.fail(w, r, op, &model.ValidationError{Field: "analysis", Reason: "is required"})
		return
	}
	res, err := s.deps.Focus(r.Context(), req.Errors, *req.Analysis)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
