package main

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"pkg.jsn.cam/carton/pkg/chunk"
	"pkg.jsn.cam/carton/pkg/executor"
)

type bufferedWriter struct {
	*bufio.Writer
}

func newBufferedWriter(w io.Writer) bufferedWriter {
	return bufferedWriter{bufio.NewWriterSize(w, 64*1024)}
}

func (w bufferedWriter) println(v any) error {
	_, err := fmt.Fprintln(w, v)
	return err
}

// progressObserver draws a chunk progress bar.
type progressObserver struct {
	out io.Writer
	bar *progressbar.ProgressBar
	mu  sync.Mutex
}

func newProgressObserver(out io.Writer) *progressObserver {
	return &progressObserver{out: out}
}

func (p *progressObserver) PlanReady(path string, ranges []chunk.ByteRange) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.bar = progressbar.NewOptions(len(ranges),
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(filepath.Base(path)),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("chunks"),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *progressObserver) ChunkDone(executor.Task, int, time.Duration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.Add(1)
	}
}

func (p *progressObserver) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.Finish()
	}
}
