// Package types contains types shared by the service and its adapters.
package types

import "github.com/okian/runform/internal/domain/model"

// BatchRun is one entry of a batch request. An empty ID is assigned by the
// service.
type BatchRun struct {
	ID    string                     `json:"id,omitempty" yaml:"id,omitempty"`
	Input model.RunBiomechanicsInput `json:"input" yaml:"input"`
}

// BatchResult is the outcome of one BatchRun. Exactly one of Report and
// Err is set.
type BatchResult struct {
	ID     string
	Report *model.Report
	Err    error
}

// OK reports whether the run produced a report.
func (r BatchResult) OK() bool {
	return r.Err == nil && r.Report != nil
}

// Failed counts the results that carry an error.
func Failed(results []BatchResult) int {
	n := 0
	for i := range results {
		if results[i].Err != nil {
			n++
		}
	}
	return n
}
