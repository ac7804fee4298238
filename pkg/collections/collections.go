// Package collections holds helpers for nested maps and slices.
package collections

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	ErrSeparatorInKey   = errors.New("separator in key")
	ErrKeyNotFound      = errors.New("key not found")
	ErrNotMap           = errors.New("value is not a map")
	ErrInconsistentKeys = errors.New("inconsistent keys")
)

// FlattenDict collapses nested maps into a single level whose keys are the
// key paths joined by sep, e.g. {"a": {"b": 1}} becomes {"a.b": 1}.
func FlattenDict(m map[string]any, sep string) (map[string]any, error) {
	out := make(map[string]any)
	if err := flatten(m, "", sep, out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(m map[string]any, prefix, sep string, out map[string]any) error {
	for key, value := range m {
		if strings.Contains(key, sep) {
			return fmt.Errorf("%w: %q contains %q", ErrSeparatorInKey, key, sep)
		}

		path := key
		if prefix != "" {
			path = prefix + sep + key
		}

		if child, ok := value.(map[string]any); ok {
			if err := flatten(child, path, sep, out); err != nil {
				return err
			}
			continue
		}
		out[path] = value
	}
	return nil
}

// UnflattenDict is the inverse of FlattenDict.
func UnflattenDict(m map[string]any, sep string) (map[string]any, error) {
	out := make(map[string]any)

	// Sorted so that conflicts are reported deterministically.
	for _, key := range slices.Sorted(maps.Keys(m)) {
		parts := strings.Split(key, sep)
		node := out
		for _, part := range parts[:len(parts)-1] {
			next, exists := node[part]
			if !exists {
				child := make(map[string]any)
				node[part] = child
				node = child
				continue
			}
			child, ok := next.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %q is both a value and a prefix", ErrNotMap, part)
			}
			node = child
		}
		node[parts[len(parts)-1]] = m[key]
	}
	return out, nil
}

// ChainGet walks m along path, a key path joined by sep.
func ChainGet(m map[string]any, path, sep string) (any, error) {
	return ChainGetKeys(m, strings.Split(path, sep)...)
}

// ChainGetKeys walks m along the given keys.
func ChainGetKeys(m map[string]any, keys ...string) (any, error) {
	var cur any = m
	for i, key := range keys {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w at %q", ErrNotMap, strings.Join(keys[:i], "."))
		}
		cur, ok = node[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, strings.Join(keys[:i+1], "."))
		}
	}
	return cur, nil
}

// Collate turns a slice of records into a map of columns. All records must
// share the key set of the first one. When keys is empty every key is
// collected.
func Collate(records []map[string]any, keys ...string) (map[string][]any, error) {
	out := make(map[string][]any)
	if len(records) == 0 {
		return out, nil
	}

	first := records[0]
	if len(keys) == 0 {
		keys = slices.Sorted(maps.Keys(first))
	}

	for i, rec := range records {
		if !sameKeys(first, rec) {
			return nil, fmt.Errorf("%w: record %d has keys %v, want %v",
				ErrInconsistentKeys, i, slices.Sorted(maps.Keys(rec)), slices.Sorted(maps.Keys(first)))
		}
		for _, key := range keys {
			v, ok := rec[key]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
			}
			out[key] = append(out[key], v)
		}
	}
	return out, nil
}

func sameKeys(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// Batch splits items into consecutive slices of at most size elements.
func Batch[T any](items []T, size int) [][]T {
	if size <= 0 {
		return nil
	}
	return slices.Collect(slices.Chunk(items, size))
}
