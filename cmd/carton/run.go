package main

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"pkg.jsn.cam/carton/pkg/chunk"
	"pkg.jsn.cam/carton/pkg/executor"
	"pkg.jsn.cam/carton/pkg/journal"
)

// executorOptions translates the loaded configuration into executor options.
func (a *app) executorOptions() ([]executor.Option, error) {
	chunkSize, err := a.cfg.ChunkSizeBytes()
	if err != nil {
		return nil, err
	}

	opts := []executor.Option{
		executor.WithWorkers(a.cfg.Workers),
		executor.WithLogger(a.logger),
	}
	if chunkSize > 0 {
		opts = append(opts, executor.WithChunkSize(chunkSize))
	}
	if a.cfg.KeepNewline {
		opts = append(opts, executor.WithReadOptions(chunk.KeepTerminator()))
	}
	return opts, nil
}

// execute runs body with executor options wired to progress output and the
// journal. body returns the number of results it produced.
func (a *app) execute(cmd *cobra.Command, run *journal.Run, progress bool, body func(ctx context.Context, opts []executor.Option) (int, error)) error {
	opts, err := a.executorOptions()
	if err != nil {
		return err
	}

	run.Workers = a.cfg.Workers
	if size, err := chunk.Size(run.Path); err == nil {
		run.FileSize = size
		run.ChunkSize, _ = a.cfg.ChunkSizeBytes()
		if run.ChunkSize == 0 {
			run.ChunkSize, _ = chunk.ChunkSizeFor(size, a.cfg.Workers)
		}
	}

	var observer executor.Observer
	var bar *progressObserver
	if progress {
		bar = newProgressObserver(cmd.ErrOrStderr())
		observer = bar
	}

	j := a.openJournal()
	if j != nil {
		defer j.Close()
		if err := j.Begin(run); err != nil {
			a.logger.Warn("failed to record run", "error", err)
			j = nil
		} else {
			observer = journal.NewRecorder(run, observer)
		}
	}
	if observer != nil {
		opts = append(opts, executor.WithObserver(observer))
	}

	start := time.Now()
	n, runErr := body(cmd.Context(), opts)
	if bar != nil {
		bar.finish()
	}
	run.Results = n

	if j != nil {
		if err := j.Finish(run, runErr); err != nil {
			a.logger.Warn("failed to record run", "id", run.ID, "error", err)
		}
	}

	if runErr != nil {
		a.logger.Error("run failed", "id", run.ID, "command", run.Command, "path", run.Path, "error", runErr)
		return runErr
	}

	a.logger.Info("run finished",
		"id", run.ID,
		"command", run.Command,
		"op", run.Op,
		"chunks", len(run.Chunks),
		"results", n,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

func writeLines[T any](w io.Writer, values []T) error {
	bw := newBufferedWriter(w)
	for _, v := range values {
		if err := bw.println(v); err != nil {
			return err
		}
	}
	return bw.Flush()
}
