package chunk

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
)

type readConfig struct {
	keepTerminator bool
	bufferSize     int
}

// ReadOption configures a RangeReader.
type ReadOption func(*readConfig)

// KeepTerminator keeps the trailing "\n" (or "\r\n") on every line.
func KeepTerminator() ReadOption {
	return func(c *readConfig) {
		c.keepTerminator = true
	}
}

// WithBufferSize sets the size of the read buffer.
func WithBufferSize(n int) ReadOption {
	return func(c *readConfig) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

// RangeReader streams the lines of one byte range of a file. A line is
// produced only when it ends at or before the range end, which means a range
// whose end was produced by Plan yields exactly the lines it owns.
type RangeReader struct {
	file   *os.File
	reader *bufio.Reader
	path   string
	pos    int64
	end    int64
	line   string
	err    error
	eof    bool
	cfg    readConfig
}

// OpenRange opens path and positions a reader at r.Start.
func OpenRange(path string, r ByteRange, opts ...ReadOption) (*RangeReader, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	cfg := readConfig{bufferSize: 64 * 1024}
	for _, opt := range opts {
		opt(&cfg)
	}

	file, err := openFile(path)
	if err != nil {
		return nil, err
	}
	if r.Start > 0 {
		if _, err := file.Seek(r.Start, io.SeekStart); err != nil {
			file.Close()
			return nil, fmt.Errorf("%w: seek %s to %d: %w", ErrIO, path, r.Start, err)
		}
	}

	return &RangeReader{
		file:   file,
		reader: bufio.NewReaderSize(file, cfg.bufferSize),
		path:   path,
		pos:    r.Start,
		end:    r.End,
		cfg:    cfg,
	}, nil
}

// Scan advances to the next line in the range. It returns false at the end of
// the range, at end of file, or on error; check Err afterwards.
func (r *RangeReader) Scan() bool {
	if r.err != nil || r.eof {
		return false
	}

	line, err := r.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		r.err = fmt.Errorf("%w: read %s at offset %d: %w", ErrIO, r.path, r.pos, err)
		return false
	}
	if err != nil {
		r.eof = true
		if line == "" {
			return false
		}
	}

	next := r.pos + int64(len(line))
	if next > r.end {
		r.eof = true
		return false
	}
	r.pos = next

	if !r.cfg.keepTerminator {
		line = trimTerminator(line)
	}
	r.line = line
	return true
}

// Text returns the line read by the last successful Scan.
func (r *RangeReader) Text() string {
	return r.line
}

// Offset returns the file offset just past the last line read.
func (r *RangeReader) Offset() int64 {
	return r.pos
}

// Err returns the first read error, if any.
func (r *RangeReader) Err() error {
	return r.err
}

// Close releases the underlying file.
func (r *RangeReader) Close() error {
	return r.file.Close()
}

// Lines returns the lines in [start, end) of path as a lazy sequence. Each
// call opens its own file handle, which is released when iteration stops.
// Open and read failures are yielded as the error of the final pair.
func Lines(path string, start, end int64, opts ...ReadOption) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		r, err := OpenRange(path, ByteRange{Start: start, End: end}, opts...)
		if err != nil {
			yield("", err)
			return
		}
		defer r.Close()

		for r.Scan() {
			if !yield(r.Text(), nil) {
				return
			}
		}
		if err := r.Err(); err != nil {
			yield("", err)
		}
	}
}

// ReadRange collects every line of r into a slice.
func ReadRange(path string, r ByteRange, opts ...ReadOption) ([]string, error) {
	var lines []string
	for line, err := range Lines(path, r.Start, r.End, opts...) {
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func trimTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
