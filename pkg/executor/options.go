package executor

import (
	"log/slog"
	"runtime"
	"time"

	"pkg.jsn.cam/carton/pkg/chunk"
)

// Task is one unit of work: a single byte range of the input file.
type Task struct {
	Path  string
	Range chunk.ByteRange
	Index int
}

// Observer receives progress callbacks. ChunkDone may be called from several
// goroutines at once.
type Observer interface {
	PlanReady(path string, ranges []chunk.ByteRange)
	ChunkDone(task Task, results int, elapsed time.Duration, err error)
}

type config struct {
	logger       *slog.Logger
	observer     Observer
	readOpts     []chunk.ReadOption
	workers      int
	chunkSize    int64
	chunkSizeSet bool
}

func newConfig(opts []Option) config {
	cfg := config{
		workers: runtime.NumCPU(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures MapLines and MapText.
type Option func(*config)

// WithWorkers sets the size of the worker pool. It defaults to the number of CPUs.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithChunkSize fixes the target chunk size in bytes. Without it the file is
// split into roughly one chunk per worker.
func WithChunkSize(n int64) Option {
	return func(c *config) {
		c.chunkSize = n
		c.chunkSizeSet = true
	}
}

// WithReadOptions passes options to every chunk's line reader.
func WithReadOptions(opts ...chunk.ReadOption) Option {
	return func(c *config) {
		c.readOpts = append(c.readOpts, opts...)
	}
}

// WithLogger sets the logger used for chunk events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers progress callbacks.
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}
