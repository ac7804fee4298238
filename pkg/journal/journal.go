// Package journal records carton runs: what was mapped, how the input was
// chunked, how long each chunk took, and how the run ended.
package journal

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

var ErrRunNotFound = errors.New("run not found")

var bucketRuns = []byte("runs")

type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// ChunkRecord describes one processed chunk.
type ChunkRecord struct {
	Error   string        `json:"error,omitempty"`
	Index   int           `json:"index"`
	Start   int64         `json:"start"`
	End     int64         `json:"end"`
	Results int           `json:"results"`
	Elapsed time.Duration `json:"elapsed"`
}

// Run is one invocation of a carton command over an input file.
type Run struct {
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitzero"`
	ID         string        `json:"id"`
	Command    string        `json:"command"`
	Path       string        `json:"path"`
	Op         string        `json:"op,omitempty"`
	Status     Status        `json:"status"`
	Error      string        `json:"error,omitempty"`
	Chunks     []ChunkRecord `json:"chunks,omitempty"`
	FileSize   int64         `json:"file_size"`
	ChunkSize  int64         `json:"chunk_size,omitempty"`
	Workers    int           `json:"workers"`
	Results    int           `json:"results"`
}

// Duration returns how long the run took, or zero while it is running.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Journal persists runs in a Backend.
type Journal struct {
	backend Backend
}

// Open opens a bbolt-backed journal at path.
func Open(path string) (*Journal, error) {
	backend, err := NewBboltBackend(path)
	if err != nil {
		return nil, err
	}

	j, err := New(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return j, nil
}

// New wraps an existing backend.
func New(backend Backend) (*Journal, error) {
	if err := backend.CreateBucket(bucketRuns); err != nil {
		return nil, fmt.Errorf("create runs bucket: %w", err)
	}
	return &Journal{backend: backend}, nil
}

// Begin assigns the run a time-ordered ID, marks it running and stores it.
func (j *Journal) Begin(run *Run) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}

	run.ID = id.String()
	run.Status = StatusRunning
	run.StartedAt = time.Now().UTC()

	return j.put(run)
}

// Finish records the outcome of a run. A nil runErr marks it succeeded.
func (j *Journal) Finish(run *Run, runErr error) error {
	run.FinishedAt = time.Now().UTC()
	run.Status = StatusSucceeded
	if runErr != nil {
		run.Status = StatusFailed
		run.Error = runErr.Error()
	}

	return j.put(run)
}

func (j *Journal) put(run *Run) error {
	data, err := encodeJSON(run)
	if err != nil {
		return err
	}
	if err := j.backend.Put(bucketRuns, []byte(run.ID), data); err != nil {
		return fmt.Errorf("store run %s: %w", run.ID, err)
	}
	return nil
}

// Get loads a run by ID.
func (j *Journal) Get(id string) (*Run, error) {
	data, err := j.backend.Get(bucketRuns, []byte(id))
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	var run Run
	if err := decodeJSON(data, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns all runs, newest first.
func (j *Journal) List() ([]*Run, error) {
	var runs []*Run
	err := j.backend.ForEach(bucketRuns, func(_, v []byte) error {
		var run Run
		if err := decodeJSON(v, &run); err != nil {
			return err
		}
		runs = append(runs, &run)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	slices.SortStableFunc(runs, func(a, b *Run) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	return runs, nil
}

// Close closes the backend.
func (j *Journal) Close() error {
	return j.backend.Close()
}
