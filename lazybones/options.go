package lazybones

import (
	"log/slog"

	"github.com/krew-solutions/lazybones-go/lazybones/lazy"
	"github.com/krew-solutions/lazybones-go/lazybones/metrics"
)

type options struct {
	mode    lazy.Mode
	logger  *slog.Logger
	metrics *metrics.Collector
}

type Option func(*options)

// WithMode selects how the wrapped value synchronizes its first access.
// The default is lazy.ModeNone.
func WithMode(mode lazy.Mode) Option {
	return func(o *options) { o.mode = mode }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithMetrics(m *metrics.Collector) Option {
	return func(o *options) { o.metrics = m }
}

func newOptions(opts []Option) options {
	o := options{mode: lazy.ModeNone, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
