// Package config defines service configuration and its loading.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory batch job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of batch analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxBatchSize caps the number of runs in one POST /v1/batch.
	MaxBatchSize int `koanf:"max_batch_size"`

	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// DefaultLocale picks display labels when a request has no ?lang.
	DefaultLocale string `koanf:"default_locale"`

	// RequestTimeoutMS bounds how long a batch request waits for its runs.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		QueueSize:        1_024,
		WorkerCount:      runtime.NumCPU(),
		MaxBatchSize:     100,
		MaxBodyBytes:     1 << 20,
		DefaultLocale:    "en",
		RequestTimeoutMS: 5_000,
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.MaxBatchSize <= 0:
		return invalid("max_batch_size must be positive")
	case c.MaxBodyBytes <= 0:
		return invalid("max_body_bytes must be positive")
	case c.DefaultLocale != "en" && c.DefaultLocale != "ru":
		return invalid("default_locale must be en or ru")
	case c.LogFormat != "text" && c.LogFormat != "json":
		return invalid("log_format must be text or json")
	}
	return nil
}
