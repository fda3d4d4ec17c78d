package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Serialization formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal encodes a graph as indented JSON.
func Marshal(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a JSON graph.
func Unmarshal(data []byte) (Graph, error) {
	return Read(bytes.NewReader(data), FormatJSON)
}

// Write encodes a graph as indented JSON to w.
func Write(g Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a graph in the given format from r.
func Read(r io.Reader, format string) (Graph, error) {
	var g Graph
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&g); err != nil && err != io.EOF {
			return Graph{}, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&g); err != nil {
			return Graph{}, fmt.Errorf("decode: %w", err)
		}
	default:
		return Graph{}, fmt.Errorf("unsupported graph format: %q", format)
	}
	return g, nil
}

// ReadFile reads a graph file. The format is chosen by extension:
// .yaml and .yml are YAML, everything else is JSON.
func ReadFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatForPath(path))
}

// WriteFile writes a graph file in the format matching its extension.
func WriteFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if FormatForPath(path) == FormatYAML {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return Write(g, f)
}

// FormatForPath returns the serialization format implied by a file name.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
