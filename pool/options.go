package pool

// poolOptions holds configuration options for New, grounded on the
// teacher's functional-options idiom (eventloop/options.go).
type poolOptions struct {
	initialThreads        int
	maxThreads            int
	maxWorkloadBeforeGrow int
	maxCachedWorkItems    int32
}

// Option configures a Pool at construction.
type Option interface {
	applyPool(*poolOptions)
}

type poolOptionFunc func(*poolOptions)

func (f poolOptionFunc) applyPool(o *poolOptions) { f(o) }

// WithInitialThreads sets the number of workers started immediately.
func WithInitialThreads(n int) Option {
	return poolOptionFunc(func(o *poolOptions) { o.initialThreads = n })
}

// WithMaxThreads bounds how large the worker vector may grow.
func WithMaxThreads(n int) Option {
	return poolOptionFunc(func(o *poolOptions) { o.maxThreads = n })
}

// WithMaxWorkloadBeforeGrow sets the per-drain item count above which a
// worker requests the pool spawn another worker.
func WithMaxWorkloadBeforeGrow(n int) Option {
	return poolOptionFunc(func(o *poolOptions) { o.maxWorkloadBeforeGrow = n })
}

// WithMaxCachedWorkItems bounds the work-item lookaside's free-list.
func WithMaxCachedWorkItems(n int32) Option {
	return poolOptionFunc(func(o *poolOptions) { o.maxCachedWorkItems = n })
}

func resolvePoolOptions(opts []Option) *poolOptions {
	cfg := &poolOptions{
		initialThreads:        1,
		maxWorkloadBeforeGrow: 64,
		maxCachedWorkItems:    256,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyPool(cfg)
	}
	if cfg.maxThreads < cfg.initialThreads {
		cfg.maxThreads = cfg.initialThreads
	}
	return cfg
}
