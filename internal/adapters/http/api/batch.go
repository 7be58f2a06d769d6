package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/runform/internal/adapters/mq/queue"
	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/domain/types"
	"github.com/okian/runform/internal/i18n"
)

type batchRequest struct {
	Runs []types.BatchRun `json:"runs"`
}

type batchItem struct {
	ID      string         `json:"id"`
	Report  *model.Report  `json:"report,omitempty"`
	Error   *errorResponse `json:"error,omitempty"`
	Display *i18n.Display  `json:"display,omitempty"`
}

type batchResponse struct {
	Results   []batchItem `json:"results"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// handleBatch handles POST /v1/batch. Runs are analyzed in parallel; a
// rejected run is reported in place and does not fail the batch.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.batch"
	loc, err := s.localeFor(r)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	var req batchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, op, err)
		return
	}
	results, err := s.deps.Batch(r.Context(), req.Runs)
	if err != nil {
		s.fail(w, r, op, batchError(op, err))
		return
	}

	resp := batchResponse{Results: make([]batchItem, len(results))}
	for i, res := range results {
		item := batchItem{ID: res.ID}
		if res.OK() {
			item.Report = res.Report
			item.Display = i18n.NewDisplay(loc).Report(res.Report)
		} else {
			item.Error = runError(res.Err)
		}
		resp.Results[i] = item
	}
	resp.Failed = types.Failed(results)
	resp.Succeeded = len(results) - resp.Failed
	writeJSON(w, http.StatusOK, resp)
}

// batchError classifies a failed batch. A full queue is backpressure and a
// batch that outlives its deadline means the workers cannot keep up.
func batchError(op string, err error) error {
	switch {
	case errors.Is(err, queue.ErrFull):
		return WrapKind(op, ErrBackpressure, err)
	case errors.Is(err, context.DeadlineExceeded):
		return WrapKind(op, ErrUnavailable, err)
	default:
		return err
	}
}

func runError(err error) *errorResponse {
	if err == nil {
		err = ErrInternal
	}
	_, code := classify(err)
	resp := &errorResponse{Code: code, Message: err.Error()}
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}
	return resp
}
