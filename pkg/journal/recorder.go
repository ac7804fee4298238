package journal

import (
	"slices"
	"sync"
	"time"

	"pkg.jsn.cam/carton/pkg/chunk"
	"pkg.jsn.cam/carton/pkg/executor"
)

// Recorder collects executor callbacks into a Run. Chain another observer
// through Next to also drive progress output.
type Recorder struct {
	Next executor.Observer
	run  *Run
	mu   sync.Mutex
}

func NewRecorder(run *Run, next executor.Observer) *Recorder {
	return &Recorder{run: run, Next: next}
}

func (r *Recorder) PlanReady(path string, ranges []chunk.ByteRange) {
	r.mu.Lock()
	r.run.Chunks = make([]ChunkRecord, len(ranges))
	for i, rng := range ranges {
		r.run.Chunks[i] = ChunkRecord{Index: i, Start: rng.Start, End: rng.End}
	}
	r.mu.Unlock()

	if r.Next != nil {
		r.Next.PlanReady(path, ranges)
	}
}

func (r *Recorder) ChunkDone(task executor.Task, results int, elapsed time.Duration, err error) {
	r.mu.Lock()
	if task.Index < len(r.run.Chunks) {
		rec := &r.run.Chunks[task.Index]
		rec.Results = results
		rec.Elapsed = elapsed
		if err != nil {
			rec.Error = err.Error()
		}
	}
	r.mu.Unlock()

	if r.Next != nil {
		r.Next.ChunkDone(task, results, elapsed, err)
	}
}

// Chunks returns a copy of the chunk records gathered so far.
func (r *Recorder) Chunks() []ChunkRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.run.Chunks)
}
