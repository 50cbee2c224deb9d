package kdalloc

import (
	"github.com/hupe1980/kdalloc/internal/mmap"
)

// MemoryBudget accounts for mapped bytes. *resource.Controller implements it.
type MemoryBudget interface {
	TryAcquireMemory(bytes int64) bool
	ReleaseMemory(bytes int64)
}

type options struct {
	platform         mmap.Platform
	logger           *Logger
	metricsCollector MetricsCollector
	budget           MemoryBudget
}

// Option configures a mapping at construction time.
// The options travel with the region when it is moved.
type Option func(*options)

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithMemoryBudget charges the mapping's size to budget for as long as the
// region is mapped. Construction fails with ErrPlacementUnavailable when the
// budget refuses; it never blocks.
func WithMemoryBudget(budget MemoryBudget) Option {
	return func(o *options) {
		o.budget = budget
	}
}

// withPlatform replaces the operating system backend (tests only).
func withPlatform(p mmap.Platform) Option {
	return func(o *options) {
		o.platform = p
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		platform:         mmap.Default(),
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
