package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/blueprint/pkg/graph"
)

// FormatMermaid names Mermaid flowchart input.
const FormatMermaid = "mermaid"

// Parse decodes a graph. format is json, yaml or mermaid; an empty format
// is sniffed from the content: Mermaid sources start with a flowchart or
// graph header, everything else is read as YAML, a superset of JSON.
func Parse(data []byte, format string) (graph.Graph, error) {
	if format == "" {
		format = sniff(data)
	}
	switch format {
	case FormatMermaid:
		return graph.ParseMermaid(string(data))
	case graph.FormatJSON, graph.FormatYAML:
		g, err := graph.Read(bytes.NewReader(data), format)
		if err != nil {
			return graph.Graph{}, fmt.Errorf("parse %s graph: %w", format, err)
		}
		return g, nil
	default:
		return graph.Graph{}, fmt.Errorf("unsupported input format: %q", format)
	}
}

// FormatForPath returns the input format for a file name, or "" when the
// extension is unknown.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mmd", ".mermaid":
		return FormatMermaid
	case ".json":
		return graph.FormatJSON
	case ".yaml", ".yml":
		return graph.FormatYAML
	}
	return ""
}

func sniff(data []byte) string {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		if strings.HasPrefix(line, "flowchart") || strings.HasPrefix(line, "graph ") || line == "graph" {
			return FormatMermaid
		}
		if strings.HasPrefix(line, "{") {
			return graph.FormatJSON
		}
		return graph.FormatYAML
	}
	return graph.FormatJSON
}

// ParseFile reads a graph file in the format implied by its extension.
func ParseFile(path string) (graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return graph.Graph{}, err
	}
	g, err := Parse(data, FormatForPath(path))
	if err != nil {
		return graph.Graph{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
