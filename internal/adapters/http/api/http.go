// Package api exposes the analysis engines over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/okian/runform/internal/adapters/mq/queue"
	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/domain/types"
	"github.com/okian/runform/internal/i18n"
	"github.com/okian/runform/pkg/logger"
)

const defaultMaxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Analyze(ctx context.Context, in model.RunBiomechanicsInput) (model.RunAnalysisResult, error)
	AnalyzeSimple(ctx context.Context, in model.SimpleInput) (model.RunAnalysisResult, error)
	DetectErrors(ctx context.Context, in model.RunBiomechanicsInput) (model.ErrorDetectionResult, error)
	Recommend(ctx context.Context, errs []model.RunningError, level model.Level) (model.RecommendationResult, error)
	Focus(ctx context.Context, errs []model.RunningError, analysis model.RunAnalysisResult) (model.FocusAreasResult, error)
	Report(ctx context.Context, in model.RunBiomechanicsInput) (model.Report, error)
	Compare(ctx context.Context, before, after model.RunAnalysisResult) (model.ComparisonResult, error)
	Batch(ctx context.Context, runs []types.BatchRun) ([]types.BatchResult, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps          Dependencies
	healthHandler *HealthHandler
	statsHandler  *StatsHandler

	maxBodyBytes int64
	locale       i18n.Locale
	logger       logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		deps:          deps,
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		maxBodyBytes:  defaultMaxBodyBytes,
		locale:        i18n.English,
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(get(s.healthHandler.HandleHealth), "healthz"))
	mux.HandleFunc("/metrics", get(s.healthHandler.HandleMetrics))
	mux.HandleFunc("/stats", MetricsMiddleware(get(s.statsHandler.HandleStats), "stats"))

	mux.HandleFunc("/v1/analyze", MetricsMiddleware(post(s.handleAnalyze), "analyze"))
	mux.HandleFunc("/v1/analyze/simple", MetricsMiddleware(post(s.handleAnalyzeSimple), "analyze_simple"))
	mux.HandleFunc("/v1/errors", MetricsMiddleware(post(s.handleErrors), "errors"))
	mux.HandleFunc("/v1/recommendations", MetricsMiddleware(post(s.handleRecommendations), "recommendations"))
	mux.HandleFunc("/v1/focus", MetricsMiddleware(post(s.handleFocus), "focus"))
	mux.HandleFunc("/v1/report", MetricsMiddleware(post(s.handleReport), "report"))
	mux.HandleFunc("/v1/compare", MetricsMiddleware(post(s.handleCompare), "compare"))
	mux.HandleFunc("/v1/batch", MetricsMiddleware(post(s.handleBatch), "batch"))
}

// post rejects every method but POST.
func post(next http.HandlerFunc) http.HandlerFunc {
	return only(next, http.MethodPost)
}

// get rejects every method but GET and HEAD.
func get(next http.HandlerFunc) http.HandlerFunc {
	return only(next, http.MethodGet, http.MethodHead)
}

func only(next http.HandlerFunc, methods ...string) http.HandlerFunc {
	allow := strings.Join(methods, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		if !slices.Contains(methods, r.Method) {
			w.Header().Set("Allow", allow)
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		next(w, r)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	resp := errorResponse{Code: code, Message: msg}
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}
	writeJSON(w, status, resp)
}

// classify maps an error to its HTTP status and response code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusUnprocessableEntity, "invalid_input"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, queue.ErrFull), errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, queue.ErrClosed), errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// fail writes err using its classification. Server errors are logged and
// their details withheld from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		s.logger.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
		writeError(w, status, code, NewKind(op, ErrInternal))
		return
	}
	var tagged *opError
	if !errors.As(err, &tagged) {
		err = Wrap(op, err)
	}
	writeError(w, status, code, err)
}
