// Package files has path helpers and whole-file line iteration.
package files

import (
	"os"
	"path/filepath"
	"strings"
)

// NormalizePath expands a leading ~ and returns the absolute, cleaned path.
func NormalizePath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}

// Path is a file path that composes with Join.
type Path string

// Join appends elements to the path.
func (p Path) Join(elem ...string) Path {
	return Path(filepath.Join(append([]string{string(p)}, elem...)...))
}

// Norm returns the normalized absolute form of p.
func (p Path) Norm() (Path, error) {
	n, err := NormalizePath(string(p))
	return Path(n), err
}

func (p Path) String() string {
	return string(p)
}
