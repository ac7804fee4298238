// Package gen writes synthetic line files for exercising the chunked
// executor: action logs, key:value metrics and URLs.
package gen

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"

	"pkg.jsn.cam/carton/pkg/params"
	"pkg.jsn.cam/carton/pkg/random"
	"pkg.jsn.cam/carton/pkg/registry"
)

// Generator produces one kind of test data.
type Generator interface {
	// Init hands the generator its own random source so runs with the same
	// seed produce the same file.
	Init(r *rand.Rand)

	// WriteLine writes a single newline-terminated line.
	WriteLine(w io.Writer) error

	Description() string

	// DefaultCount returns the suggested number of lines.
	DefaultCount() int64
}

// Generators holds the available data kinds.
var Generators = registry.New[Generator]("generator")

func init() {
	Generators.MustRegister("actions", func(opts params.Params) (Generator, error) {
		users := opts.Int("users", 100)
		if users <= 0 {
			return nil, fmt.Errorf("users must be positive, got %d", users)
		}
		return &ActionGenerator{UserCount: users}, nil
	})
	Generators.MustRegister("metrics", func(opts params.Params) (Generator, error) {
		keys := opts.Int("keys", len(metricKeys))
		if keys <= 0 || keys > len(metricKeys) {
			return nil, fmt.Errorf("keys must be in 1..%d, got %d", len(metricKeys), keys)
		}
		return &MetricGenerator{KeyCount: keys}, nil
	})
	Generators.MustRegister("urls", func(params.Params) (Generator, error) {
		return &URLGenerator{}, nil
	})
	Generators.MustRegister("text", func(opts params.Params) (Generator, error) {
		maxWords := opts.Int("max_words", 12)
		if maxWords <= 0 {
			return nil, fmt.Errorf("max_words must be positive, got %d", maxWords)
		}
		return &TextGenerator{MaxWords: maxWords}, nil
	})
}

// Options controls a Write call.
type Options struct {
	Kind   string
	Params params.Params
	Lines  int64 // <= 0 uses the generator's default
	Seed   uint64
}

// Write generates a file at path, creating parent directories. It returns
// the number of lines written.
func Write(path string, opts Options) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create output file: %w", err)
	}

	n, err := Generate(file, opts)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close output file: %w", closeErr)
	}
	return n, err
}

// Generate writes lines of the requested kind to w.
func Generate(w io.Writer, opts Options) (int64, error) {
	g, err := Generators.Build(opts.Kind, opts.Params)
	if err != nil {
		return 0, err
	}
	g.Init(random.New(opts.Seed))

	count := opts.Lines
	if count <= 0 {
		count = g.DefaultCount()
	}

	bw := bufio.NewWriterSize(w, 64*1024)
	for i := int64(0); i < count; i++ {
		if err := g.WriteLine(bw); err != nil {
			return i, fmt.Errorf("write line %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return count, fmt.Errorf("flush output: %w", err)
	}
	return count, nil
}
