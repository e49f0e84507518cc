package routetable

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a serialization format for route tables.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension. Unknown extensions are JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode reads a table in the given format.
func Decode(r io.Reader, format Format) (Table, error) {
	var t Table
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&t); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decoding yaml routes: %w", err)
		}
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&t); err != nil {
			return nil, fmt.Errorf("decoding json routes: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported route format %q", format)
	}
	if t == nil {
		t = Table{}
	}
	return t, nil
}

// Encode writes a table in the given format.
func Encode(w io.Writer, t Table, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	default:
		return fmt.Errorf("unsupported route format %q", format)
	}
}

// Load reads and validates a table from a file.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
