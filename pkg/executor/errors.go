package executor

import (
	"errors"
	"fmt"

	"pkg.jsn.cam/carton/pkg/chunk"
)

var (
	// ErrWorkerFailure matches every error raised while processing a chunk.
	ErrWorkerFailure = errors.New("worker failure")
	// ErrInvalidArgument is returned for a non-positive worker count or chunk size.
	ErrInvalidArgument = chunk.ErrInvalidArgument
)

// ChunkError reports the chunk whose processing failed first. It matches
// ErrWorkerFailure as well as the underlying cause with errors.Is.
type ChunkError struct {
	Err   error
	Range chunk.ByteRange
	Index int
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d %s: %v", e.Index, e.Range, e.Err)
}

func (e *ChunkError) Unwrap() []error {
	return []error{ErrWorkerFailure, e.Err}
}
