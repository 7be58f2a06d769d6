package api

import (
	"github.com/okian/runform/internal/i18n"
	"github.com/okian/runform/pkg/logger"
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxBodyBytes bounds request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithDefaultLocale sets the label locale used when a request has no ?lang.
func WithDefaultLocale(loc i18n.Locale) Option {
	return func(s *Server) {
		if _, ok := i18n.Parse(string(loc)); ok {
			s.locale = loc
		}
	}
}

// WithLogger sets the logger for failed requests.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
