package params

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a serialization format for Params.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var ErrUnknownFormat = errors.New("unknown params format")

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Marshal encodes p. JSON output keeps non-ASCII characters as-is.
func Marshal(p Params, f Format) ([]byte, error) {
	return marshal(p, f, "")
}

func marshal(p Params, f Format, indent string) ([]byte, error) {
	if p == nil {
		p = Params{}
	}

	switch f {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", indent)
		if err := enc.Encode(map[string]any(p)); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
	case FormatYAML:
		data, err := yaml.Marshal(map[string]any(p))
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return data, nil
	case FormatTOML:
		data, err := toml.Marshal(map[string]any(p))
		if err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Unmarshal decodes data in the given format.
func Unmarshal(data []byte, f Format) (Params, error) {
	out := map[string]any{}

	switch f {
	case FormatJSON:
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}

	if out == nil {
		out = map[string]any{}
	}
	return Params(out), nil
}

// Load reads a file, choosing the format from its extension.
func Load(path string) (Params, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return LoadAs(path, f)
}

// LoadAs reads a file in an explicit format.
func LoadAs(path string, f Format) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read params: %w", err)
	}
	return Unmarshal(data, f)
}

// Dump writes p to path, choosing the format from the extension. JSON files
// are indented with four spaces.
func Dump(p Params, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	return DumpAs(p, path, f)
}

// DumpAs writes p to path in an explicit format.
func DumpAs(p Params, path string, f Format) error {
	data, err := marshal(p, f, "    ")
	if err != nil {
		return err
	}
	if f == FormatJSON {
		data = append(data, '\n')
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write params: %w", err)
	}
	return nil
}
