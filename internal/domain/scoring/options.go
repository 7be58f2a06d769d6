package scoring

import (
	"time"

	"github.com/okian/runform/internal/domain/norms"
)

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithNorms replaces the reference table.
func WithNorms(t norms.Table) Option {
	return func(a *Analyzer) {
		a.norms = t
	}
}

// WithClock sets the time source used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}
