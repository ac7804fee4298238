package files

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

var ErrMissingFiles = errors.New("missing files in group")

// Group is a set of files sharing a path stem, e.g. a.wav and a.txt.
type Group struct {
	Key   string
	Files []string
}

// FileGroups walks dir and groups files whose extension is in exts by their
// path relative to dir without extension. Groups are sorted by key and files
// by extension. With allowMissing false, a group lacking any extension fails
// with ErrMissingFiles.
func FileGroups(dir string, exts []string, allowMissing bool) ([]Group, error) {
	want := make(map[string]bool, len(exts))
	for _, ext := range exts {
		want["."+strings.TrimPrefix(ext, ".")] = true
	}

	byKey := make(map[string][]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !want[filepath.Ext(path)] {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := strings.TrimSuffix(rel, filepath.Ext(rel))
		byKey[key] = append(byKey[key], path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	groups := make([]Group, 0, len(byKey))
	for key, paths := range byKey {
		if len(paths) != len(want) && !allowMissing {
			return nil, fmt.Errorf("%w: %s has %d of %d extensions", ErrMissingFiles, key, len(paths), len(want))
		}
		slices.SortFunc(paths, func(a, b string) int {
			return strings.Compare(filepath.Ext(a), filepath.Ext(b))
		})
		groups = append(groups, Group{Key: key, Files: paths})
	}
	slices.SortFunc(groups, func(a, b Group) int {
		return strings.Compare(a.Key, b.Key)
	})

	return groups, nil
}
