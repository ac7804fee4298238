package chunk

import "errors"

// Sentinel errors returned by the planner and the range reader.
var (
	// ErrInvalidArgument reports a non-positive chunk size or a malformed range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound reports that the input file does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrIO reports a read failure while planning or streaming lines.
	ErrIO = errors.New("io error")
)
