// Package executor maps functions over the lines of a text file in parallel.
//
// The file is split with chunk.Plan, every chunk is handled by one task on a
// bounded goroutine pool, and per-chunk results are concatenated in chunk
// order. The output therefore matches a sequential pass over the file no
// matter how many workers run or in which order they finish.
package executor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"pkg.jsn.cam/carton/pkg/chunk"
)

// LineFunc transforms a single line.
type LineFunc[T any] func(line string) (T, error)

// RangeFunc processes a whole chunk and returns its outputs in order.
type RangeFunc[T any] func(ctx context.Context, path string, r chunk.ByteRange) ([]T, error)

// MapLines applies fn to every line of the file and returns the results in
// file order. If fn fails on any line the whole call fails and no partial
// results are returned.
func MapLines[T any](ctx context.Context, path string, fn LineFunc[T], opts ...Option) ([]T, error) {
	cfg := newConfig(opts)

	return run(ctx, path, cfg, func(ctx context.Context, task Task) ([]T, error) {
		r, err := chunk.OpenRange(task.Path, task.Range, cfg.readOpts...)
		if err != nil {
			return nil, err
		}
		defer r.Close()

		var out []T
		for r.Scan() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			v, err := fn(r.Text())
			if err != nil {
				return nil, fmt.Errorf("line ending at offset %d: %w", r.Offset(), err)
			}
			out = append(out, v)
		}
		if err := r.Err(); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// MapText calls fn once per chunk with the chunk's byte range and
// concatenates the returned slices in chunk order.
func MapText[T any](ctx context.Context, path string, fn RangeFunc[T], opts ...Option) ([]T, error) {
	cfg := newConfig(opts)

	return run(ctx, path, cfg, func(ctx context.Context, task Task) ([]T, error) {
		return fn(ctx, task.Path, task.Range)
	})
}

// Plan returns the chunk ranges MapLines and MapText would use for path with
// the same options.
func Plan(path string, opts ...Option) ([]chunk.ByteRange, error) {
	return plan(path, newConfig(opts))
}

func plan(path string, cfg config) ([]chunk.ByteRange, error) {
	if cfg.workers <= 0 {
		return nil, fmt.Errorf("%w: worker count %d must be positive", ErrInvalidArgument, cfg.workers)
	}

	chunkSize := cfg.chunkSize
	if !cfg.chunkSizeSet {
		size, err := chunk.Size(path)
		if err != nil {
			return nil, err
		}
		if chunkSize, err = chunk.ChunkSizeFor(size, cfg.workers); err != nil {
			return nil, err
		}
	}

	return chunk.Plan(path, chunkSize)
}

func run[T any](ctx context.Context, path string, cfg config, work func(context.Context, Task) ([]T, error)) ([]T, error) {
	ranges, err := plan(path, cfg)
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("planned chunks", "path", path, "chunks", len(ranges), "workers", cfg.workers)
	if cfg.observer != nil {
		cfg.observer.PlanReady(path, ranges)
	}

	results := make([][]T, len(ranges))
	var failed atomic.Bool

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)

	submitted := 0
	for i, r := range ranges {
		if gctx.Err() != nil {
			break
		}

		task := Task{Index: i, Path: path, Range: r}
		g.Go(func() error {
			out, err := runTask(gctx, cfg, task, work)
			if err != nil {
				if failed.Swap(true) {
					logSuppressed(gctx, cfg, task, err)
				}
				return &ChunkError{Index: task.Index, Range: task.Range, Err: err}
			}
			results[task.Index] = out
			return nil
		})
		submitted++
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if submitted < len(ranges) {
		// The pool stopped early without a task error, so the caller cancelled.
		return nil, ctx.Err()
	}

	total := 0
	for _, out := range results {
		total += len(out)
	}
	flat := make([]T, 0, total)
	for _, out := range results {
		flat = append(flat, out...)
	}

	return flat, nil
}

func runTask[T any](ctx context.Context, cfg config, task Task, work func(context.Context, Task) ([]T, error)) (out []T, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, fmt.Errorf("panic: %v", p)
		}

		elapsed := time.Since(start)
		cfg.logger.Debug("chunk done",
			"chunk", task.Index,
			"start", task.Range.Start,
			"end", task.Range.End,
			"results", len(out),
			"elapsed", elapsed,
		)
		if cfg.observer != nil {
			cfg.observer.ChunkDone(task, len(out), elapsed, err)
		}
	}()

	return work(ctx, task)
}

func logSuppressed(ctx context.Context, cfg config, task Task, err error) {
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		cfg.logger.Debug("chunk cancelled", "chunk", task.Index, "range", task.Range.String())
		return
	}
	cfg.logger.Warn("suppressed chunk failure", "chunk", task.Index, "range", task.Range.String(), "error", err)
}
