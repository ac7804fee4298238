// Package params provides a string-keyed configuration map with JSON, YAML
// and TOML serialization.
//
// Params values are treated as immutable: Clone and Merge return new maps,
// and serialization lives in plain functions rather than methods that write
// to files as a side effect.
package params

import (
	"maps"
	"slices"
)

// Params is a nested configuration map.
type Params map[string]any

// Clone returns a deep copy of p. Cloning a nil Params yields an empty map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = deepCopy(v)
	}
	return out
}

// Merge returns a copy of p in which every key missing from p is filled from
// defaults. Existing keys are never overwritten, including nested ones.
func (p Params) Merge(defaults Params) Params {
	out := p.Clone()
	for k, dv := range defaults {
		cur, exists := out[k]
		if !exists {
			out[k] = deepCopy(dv)
			continue
		}

		curMap, curOK := asMap(cur)
		defMap, defOK := asMap(dv)
		if curOK && defOK {
			out[k] = map[string]any(Params(curMap).Merge(defMap))
		}
	}
	return out
}

// Keys returns the top-level keys in sorted order.
func (p Params) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// String returns the string stored under key, or fallback.
func (p Params) String(key, fallback string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return fallback
}

// Int returns the integer stored under key, or fallback. Whole floats, which
// is how JSON decodes numbers, are accepted.
func (p Params) Int(key string, fallback int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}
	return fallback
}

// Bool returns the boolean stored under key, or fallback.
func (p Params) Bool(key string, fallback bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return fallback
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Params:
		return m, true
	}
	return nil, false
}

func deepCopy(v any) any {
	switch val := v.(type) {
	case Params:
		return map[string]any(val.Clone())
	case map[string]any:
		return map[string]any(Params(val).Clone())
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	case []string:
		return slices.Clone(val)
	default:
		return v
	}
}
