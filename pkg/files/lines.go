package files

import (
	"bufio"
	"fmt"
	"iter"
	"os"
	"strings"
	"unicode"
)

type lineConfig struct {
	transform   func(string) string
	strip       bool
	ignoreEmpty bool
}

// LineOption configures IterLines.
type LineOption func(*lineConfig)

// KeepWhitespace disables trailing whitespace stripping.
func KeepWhitespace() LineOption {
	return func(c *lineConfig) { c.strip = false }
}

// KeepEmpty yields empty lines instead of skipping them.
func KeepEmpty() LineOption {
	return func(c *lineConfig) { c.ignoreEmpty = false }
}

// Transform applies fn to every yielded line.
func Transform(fn func(string) string) LineOption {
	return func(c *lineConfig) { c.transform = fn }
}

// IterLines yields the lines of a file. By default trailing whitespace is
// stripped and empty lines are skipped.
func IterLines(path string, opts ...LineOption) iter.Seq2[string, error] {
	cfg := lineConfig{strip: true, ignoreEmpty: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(yield func(string, error) bool) {
		file, err := os.Open(path)
		if err != nil {
			yield("", err)
			return
		}
		defer file.Close()

		scanner := bufio.NewScanner(file)
		scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if cfg.strip {
				line = strings.TrimRightFunc(line, unicode.IsSpace)
			}
			if line == "" && cfg.ignoreEmpty {
				continue
			}
			if cfg.transform != nil {
				line = cfg.transform(line)
			}
			if !yield(line, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", fmt.Errorf("scan %s: %w", path, err))
		}
	}
}
