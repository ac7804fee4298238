package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pkg.jsn.cam/carton/pkg/chunk"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeTemp(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	return path
}

func lineLen(line string) (int, error) {
	return len(line), nil
}

func TestMapLines_Example(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "a\nbb\nccc\ndddd\n")

	for _, workers := range []int{1, 2, 8} {
		got, err := MapLines(context.Background(), path, lineLen,
			WithWorkers(workers), WithChunkSize(6), WithLogger(quietLogger))
		if err != nil {
			t.Fatalf("MapLines(workers=%d) returned error: %v", workers, err)
		}

		if want := []int{1, 2, 3, 4}; !reflect.DeepEqual(got, want) {
			t.Errorf("MapLines(workers=%d) = %v, want %v", workers, got, want)
		}
	}
}

func TestMapLines_WorkerCountIndependent(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	var want []string
	for i := range 2000 {
		line := fmt.Sprintf("line-%d-%s", i, strings.Repeat("z", i%37))
		b.WriteString(line + "\n")
		want = append(want, strings.ToUpper(line))
	}
	path := writeTemp(t, b.String())

	upper := func(line string) (string, error) {
		return strings.ToUpper(line), nil
	}

	chunkOpts := map[string][]Option{
		"auto":  nil,
		"7B":    {WithChunkSize(7)},
		"1KB":   {WithChunkSize(1024)},
		"whole": {WithChunkSize(1 << 30)},
	}

	for name, extra := range chunkOpts {
		for _, workers := range []int{1, 2, 8} {
			opts := append([]Option{WithWorkers(workers), WithLogger(quietLogger)}, extra...)

			got, err := MapLines(context.Background(), path, upper, opts...)
			if err != nil {
				t.Fatalf("%s workers=%d: MapLines returned error: %v", name, workers, err)
			}

			if !reflect.DeepEqual(got, want) {
				t.Errorf("%s workers=%d: output differs from sequential pass (%d vs %d lines)",
					name, workers, len(got), len(want))
			}
		}
	}
}

func TestMapLines_EmptyFile(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "")

	got, err := MapLines(context.Background(), path, lineLen, WithWorkers(4), WithLogger(quietLogger))
	if err != nil {
		t.Fatalf("MapLines() returned error: %v", err)
	}

	if len(got) != 0 {
		t.Errorf("MapLines() on empty file = %v, want empty", got)
	}

	ranges, err := Plan(path, WithWorkers(4))
	if err != nil {
		t.Fatalf("Plan() returned error: %v", err)
	}
	if !reflect.DeepEqual(ranges, []chunk.ByteRange{{Start: 0, End: 0}}) {
		t.Errorf("Plan() on empty file = %v, want [[0,0)]", ranges)
	}
}

func TestMapLines_FailFast(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := range 500 {
		fmt.Fprintf(&b, "%d\n", i)
	}
	path := writeTemp(t, b.String())

	errBoom := errors.New("boom")
	fn := func(line string) (string, error) {
		if line == "250" {
			return "", errBoom
		}
		return line, nil
	}

	got, err := MapLines(context.Background(), path, fn,
		WithWorkers(4), WithChunkSize(64), WithLogger(quietLogger))
	if err == nil {
		t.Fatal("MapLines() expected error, got nil")
	}
	if got != nil {
		t.Errorf("MapLines() returned %d partial results, want nil", len(got))
	}

	if !errors.Is(err, ErrWorkerFailure) {
		t.Errorf("error %v does not match ErrWorkerFailure", err)
	}
	if !errors.Is(err, errBoom) {
		t.Errorf("error %v does not wrap the line failure", err)
	}

	var chunkErr *ChunkError
	if !errors.As(err, &chunkErr) {
		t.Fatalf("error %T is not a *ChunkError", err)
	}

	offset := int64(strings.Index(b.String(), "\n250\n") + 1)
	if offset < chunkErr.Range.Start || offset >= chunkErr.Range.End {
		t.Errorf("failing chunk %v does not contain offset %d", chunkErr.Range, offset)
	}
}

func TestMapLines_PanicBecomesError(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "ok\nbad\nok\n")

	fn := func(line string) (int, error) {
		if line == "bad" {
			panic("unexpected input")
		}
		return 1, nil
	}

	_, err := MapLines(context.Background(), path, fn, WithWorkers(2), WithChunkSize(1), WithLogger(quietLogger))
	if !errors.Is(err, ErrWorkerFailure) {
		t.Fatalf("MapLines() error = %v, want ErrWorkerFailure", err)
	}
	if !strings.Contains(err.Error(), "unexpected input") {
		t.Errorf("error %q does not carry the panic value", err)
	}
}

func TestMapLines_PlanningErrors(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "a\n")

	tests := []struct {
		name string
		path string
		opts []Option
		want error
	}{
		{name: "zero workers", path: path, opts: []Option{WithWorkers(0)}, want: ErrInvalidArgument},
		{name: "negative workers", path: path, opts: []Option{WithWorkers(-2)}, want: ErrInvalidArgument},
		{name: "zero chunk size", path: path, opts: []Option{WithChunkSize(0)}, want: ErrInvalidArgument},
		{name: "missing file", path: filepath.Join(t.TempDir(), "missing"), want: chunk.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			fn := func(string) (int, error) {
				called = true
				return 0, nil
			}

			_, err := MapLines(context.Background(), tt.path, fn, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Errorf("MapLines() error = %v, want %v", err, tt.want)
			}
			if errors.Is(err, ErrWorkerFailure) {
				t.Errorf("planning error %v should not be reported as a worker failure", err)
			}
			if called {
				t.Error("fn was called although planning failed")
			}
		})
	}
}

func TestMapLines_Cancelled(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, strings.Repeat("x\n", 100))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MapLines(ctx, path, lineLen, WithWorkers(2), WithChunkSize(10), WithLogger(quietLogger))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("MapLines() error = %v, want context.Canceled", err)
	}
}

// Results follow chunk order even when the first chunk finishes last.
func TestMapText_PreservesOrder(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "a\nb\nc\nd\ne\nf\n")

	fn := func(ctx context.Context, path string, r chunk.ByteRange) ([]string, error) {
		if r.Start == 0 {
			time.Sleep(50 * time.Millisecond)
		}
		return chunk.ReadRange(path, r)
	}

	got, err := MapText(context.Background(), path, fn, WithWorkers(6), WithChunkSize(1), WithLogger(quietLogger))
	if err != nil {
		t.Fatalf("MapText() returned error: %v", err)
	}

	if want := []string{"a", "b", "c", "d", "e", "f"}; !reflect.DeepEqual(got, want) {
		t.Errorf("MapText() = %v, want %v", got, want)
	}
}

func TestMapText_CountsPerChunk(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, strings.Repeat("hello world\n", 300))

	count := func(ctx context.Context, path string, r chunk.ByteRange) ([]int, error) {
		lines, err := chunk.ReadRange(path, r)
		if err != nil {
			return nil, err
		}
		return []int{len(lines)}, nil
	}

	ranges, err := Plan(path, WithWorkers(4))
	if err != nil {
		t.Fatalf("Plan() returned error: %v", err)
	}

	got, err := MapText(context.Background(), path, count, WithWorkers(4), WithLogger(quietLogger))
	if err != nil {
		t.Fatalf("MapText() returned error: %v", err)
	}

	if len(got) != len(ranges) {
		t.Errorf("MapText() returned %d counts, want one per chunk (%d)", len(got), len(ranges))
	}

	total := 0
	for _, n := range got {
		total += n
	}
	if total != 300 {
		t.Errorf("total lines = %d, want 300", total)
	}
}

func TestMapText_BoundedConcurrency(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, strings.Repeat("x\n", 64))

	var active, peak atomic.Int32
	fn := func(ctx context.Context, path string, r chunk.ByteRange) ([]int, error) {
		n := active.Add(1)
		defer active.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return []int{1}, nil
	}

	if _, err := MapText(context.Background(), path, fn, WithWorkers(3), WithChunkSize(2), WithLogger(quietLogger)); err != nil {
		t.Fatalf("MapText() returned error: %v", err)
	}

	if peak.Load() > 3 {
		t.Errorf("peak concurrency = %d, want at most 3", peak.Load())
	}
}

type recordingObserver struct {
	ranges []chunk.ByteRange
	done   []int
	mu     sync.Mutex
}

func (o *recordingObserver) PlanReady(_ string, ranges []chunk.ByteRange) {
	o.ranges = ranges
}

func (o *recordingObserver) ChunkDone(task Task, results int, _ time.Duration, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.done = append(o.done, results)
}

func TestMapLines_Observer(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "a\nbb\nccc\ndddd\n")
	obs := &recordingObserver{}

	if _, err := MapLines(context.Background(), path, lineLen,
		WithWorkers(2), WithChunkSize(6), WithObserver(obs), WithLogger(quietLogger)); err != nil {
		t.Fatalf("MapLines() returned error: %v", err)
	}

	if len(obs.ranges) != 2 {
		t.Fatalf("observer saw %d ranges, want 2", len(obs.ranges))
	}
	if len(obs.done) != 2 {
		t.Errorf("observer saw %d finished chunks, want 2", len(obs.done))
	}

	sum := 0
	for _, n := range obs.done {
		sum += n
	}
	if sum != 4 {
		t.Errorf("observer counted %d results, want 4", sum)
	}
}
