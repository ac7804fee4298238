package params

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseAssignments builds Params from "key=value" strings such as command-line
// options. Values are read as YAML scalars, so "3" becomes an int and "true" a
// bool; anything that does not decode to a scalar is kept as the raw string.
func ParseAssignments(items []string) (Params, error) {
	p := Params{}
	for _, item := range items {
		key, value, ok := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q: want key=value", item)
		}
		p[key] = scalar(value)
	}
	return p, nil
}

func scalar(s string) any {
	if strings.TrimSpace(s) == "" {
		return s
	}

	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	switch v.(type) {
	case nil, map[string]any, map[any]any, []any:
		return s
	}
	return v
}
