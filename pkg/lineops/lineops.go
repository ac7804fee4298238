// Package lineops holds the named operations the carton CLI can map over a
// file: line operations for MapLines and chunk operations for MapText.
package lineops

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"pkg.jsn.cam/carton/pkg/chunk"
	"pkg.jsn.cam/carton/pkg/executor"
	"pkg.jsn.cam/carton/pkg/params"
	"pkg.jsn.cam/carton/pkg/registry"
)

var ErrMalformedLine = errors.New("malformed line")

// Lines holds the line operations, Chunks the chunk operations.
var (
	Lines  = registry.New[executor.LineFunc[any]]("line op")
	Chunks = registry.New[executor.RangeFunc[int]]("chunk op")
)

func init() {
	Lines.MustRegister("len", newLen)
	Lines.MustRegister("upper", simple(strings.ToUpper))
	Lines.MustRegister("lower", simple(strings.ToLower))
	Lines.MustRegister("trim", simple(strings.TrimSpace))
	Lines.MustRegister("words", newWords)
	Lines.MustRegister("field", newField)
	Lines.MustRegister("keyvalue", newKeyValue)
	Lines.MustRegister("urlhost", newURLHost)
	Lines.MustRegister("match", newMatch)

	Chunks.MustRegister("count", newCount)
	Chunks.MustRegister("bytes", newBytes)
	Chunks.MustRegister("words", newWordTotal)
}

func simple(fn func(string) string) registry.Factory[executor.LineFunc[any]] {
	return func(params.Params) (executor.LineFunc[any], error) {
		return func(line string) (any, error) {
			return fn(line), nil
		}, nil
	}
}

// len counts bytes, or characters with runes=true.
func newLen(opts params.Params) (executor.LineFunc[any], error) {
	runes := opts.Bool("runes", false)
	return func(line string) (any, error) {
		if runes {
			return utf8.RuneCountInString(line), nil
		}
		return len(line), nil
	}, nil
}

func newWords(params.Params) (executor.LineFunc[any], error) {
	return func(line string) (any, error) {
		return len(strings.Fields(line)), nil
	}, nil
}

// field returns the index-th field split on sep (whitespace when sep is
// empty). Lines with too few fields fail unless strict=false.
func newField(opts params.Params) (executor.LineFunc[any], error) {
	index := opts.Int("index", 0)
	if index < 0 {
		return nil, fmt.Errorf("field index %d must not be negative", index)
	}
	sep := opts.String("sep", "")
	strict := opts.Bool("strict", true)

	return func(line string) (any, error) {
		var fields []string
		if sep == "" {
			fields = strings.Fields(line)
		} else {
			fields = strings.Split(line, sep)
		}
		if index >= len(fields) {
			if strict {
				return nil, fmt.Errorf("%w: %d fields, want index %d", ErrMalformedLine, len(fields), index)
			}
			return "", nil
		}
		return fields[index], nil
	}, nil
}

// keyvalue splits "key<sep>value" lines and returns "key\tvalue".
func newKeyValue(opts params.Params) (executor.LineFunc[any], error) {
	sep := opts.String("sep", ":")
	strict := opts.Bool("strict", false)

	return func(line string) (any, error) {
		key, value, ok := strings.Cut(line, sep)
		if !ok {
			if strict {
				return nil, fmt.Errorf("%w: no %q in %q", ErrMalformedLine, sep, line)
			}
			return "", nil
		}
		return strings.TrimSpace(key) + "\t" + strings.TrimSpace(value), nil
	}, nil
}

// urlhost returns the host of a URL line, or "" when it has none.
func newURLHost(opts params.Params) (executor.LineFunc[any], error) {
	strict := opts.Bool("strict", false)

	return func(line string) (any, error) {
		u, err := url.Parse(strings.TrimSpace(line))
		if err != nil || u.Host == "" {
			if strict {
				return nil, fmt.Errorf("%w: not a URL: %q", ErrMalformedLine, line)
			}
			return "", nil
		}
		return u.Host, nil
	}, nil
}

func newMatch(opts params.Params) (executor.LineFunc[any], error) {
	pattern := opts.String("pattern", "")
	if pattern == "" {
		return nil, errors.New("match requires a pattern")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}

	return func(line string) (any, error) {
		return re.MatchString(line), nil
	}, nil
}

func newCount(params.Params) (executor.RangeFunc[int], error) {
	return scanChunk(func(string) int { return 1 }), nil
}

func newWordTotal(params.Params) (executor.RangeFunc[int], error) {
	return scanChunk(func(line string) int { return len(strings.Fields(line)) }), nil
}

func newBytes(params.Params) (executor.RangeFunc[int], error) {
	return func(_ context.Context, _ string, r chunk.ByteRange) ([]int, error) {
		return []int{int(r.Len())}, nil
	}, nil
}

// scanChunk sums score over the lines of a chunk and returns one total per chunk.
func scanChunk(score func(string) int) executor.RangeFunc[int] {
	return func(ctx context.Context, path string, r chunk.ByteRange) ([]int, error) {
		reader, err := chunk.OpenRange(path, r)
		if err != nil {
			return nil, err
		}
		defer reader.Close()

		total := 0
		for reader.Scan() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			total += score(reader.Text())
		}
		if err := reader.Err(); err != nil {
			return nil, err
		}
		return []int{total}, nil
	}
}
