package chunk

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// ByteRange is a half-open interval [Start, End) over a file.
type ByteRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Len returns the number of bytes covered by the range.
func (r ByteRange) Len() int64 {
	return r.End - r.Start
}

func (r ByteRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Validate checks that the range is well formed.
func (r ByteRange) Validate() error {
	if r.Start < 0 {
		return fmt.Errorf("%w: range start %d is negative", ErrInvalidArgument, r.Start)
	}
	if r.Start > r.End {
		return fmt.Errorf("%w: range start %d exceeds end %d", ErrInvalidArgument, r.Start, r.End)
	}
	return nil
}

// ChunkSizeFor returns ceil(size/workers), never less than 1, so that
// planning a file of the given size yields roughly one chunk per worker.
func ChunkSizeFor(size int64, workers int) (int64, error) {
	if workers <= 0 {
		return 0, fmt.Errorf("%w: worker count %d must be positive", ErrInvalidArgument, workers)
	}
	n := int64(workers)
	chunkSize := (size + n - 1) / n
	if chunkSize < 1 {
		chunkSize = 1
	}
	return chunkSize, nil
}

// Plan splits the file at path into contiguous ranges of roughly chunkSize
// bytes. Every boundary is moved forward to the end of the line containing
// the target offset, so no line is split between two ranges. An empty file
// yields the single range [0,0).
func Plan(path string, chunkSize int64) ([]ByteRange, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidArgument, chunkSize)
	}

	file, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %w", ErrIO, path, err)
	}
	size := info.Size()

	var ranges []ByteRange
	reader := bufio.NewReader(file)
	start := int64(0)
	for {
		end, err := lineEndAfter(file, reader, start+chunkSize, size)
		if err != nil {
			return nil, fmt.Errorf("%w: scan %s at offset %d: %w", ErrIO, path, start+chunkSize, err)
		}
		ranges = append(ranges, ByteRange{Start: start, End: end})

		if end >= size {
			break
		}
		start = end
	}

	return ranges, nil
}

// lineEndAfter returns the offset just past the line terminator that follows
// target, clamped to size.
func lineEndAfter(file *os.File, reader *bufio.Reader, target, size int64) (int64, error) {
	if target >= size {
		return size, nil
	}
	if _, err := file.Seek(target, io.SeekStart); err != nil {
		return 0, err
	}
	reader.Reset(file)

	pos := target
	for {
		frag, err := reader.ReadSlice('\n')
		pos += int64(len(frag))
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		return 0, err
	}

	return min(pos, size), nil
}

// Size returns the size of the file at path in bytes.
func Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return 0, fmt.Errorf("%w: stat %s: %w", ErrIO, path, err)
	}
	return info.Size(), nil
}

func openFile(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}
	return file, nil
}
