package graph

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Graph
// =============================================================================

// ErrEmptyGraph is returned by parsers that find no nodes at all.
var ErrEmptyGraph = errors.New("graph has no nodes")

// Graph is the serialization format for diagram graphs.
// Node and edge order is significant: it decides root selection for cyclic
// graphs, row order within a column and port order on a card.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges" bson:"edges"`
}

// IsEmpty reports whether the graph has no nodes.
func (g Graph) IsEmpty() bool { return len(g.Nodes) == 0 }

// NodeCount returns the number of declared nodes, duplicates included.
func (g Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of declared edges.
func (g Graph) EdgeCount() int { return len(g.Edges) }

// =============================================================================
// Node
// =============================================================================

// Node is a raw diagram node as it appears on the wire.
type Node struct {
	ID       string   `json:"id" yaml:"id" bson:"id"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`          // Display label (defaults to ID)
	Category string   `json:"category,omitempty" yaml:"category,omitempty" bson:"category,omitempty"` // Makes the node Categorized
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty" bson:"tags,omitempty"`             // Annotation chips shown under the label
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a directed connection between two nodes.
type Edge struct {
	From string `json:"from" yaml:"from" bson:"from"`
	To   string `json:"to" yaml:"to" bson:"to"`
}

// IsSelfLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsSelfLoop() bool { return e.From == e.To }

// String returns "from→to".
func (e Edge) String() string { return e.From + "→" + e.To }

// MarshalJSON writes the edge as a [from, to] pair.
func (e Edge) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{e.From, e.To})
}

// UnmarshalJSON accepts either a [from, to] pair or a {"from", "to"} object.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err == nil {
		return e.fromPair(pair)
	}
	var obj struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("edge must be [from, to] or {\"from\", \"to\"}: %w", err)
	}
	e.From, e.To = obj.From, obj.To
	return nil
}

// MarshalYAML writes the edge as a [from, to] flow sequence.
func (e Edge) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	n.Content = []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: e.From},
		{Kind: yaml.ScalarNode, Value: e.To},
	}
	return n, nil
}

// UnmarshalYAML accepts either a [from, to] sequence or a from/to mapping.
func (e *Edge) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var pair []string
		if err := value.Decode(&pair); err != nil {
			return err
		}
		return e.fromPair(pair)
	case yaml.MappingNode:
		var obj struct {
			From string `yaml:"from"`
			To   string `yaml:"to"`
		}
		if err := value.Decode(&obj); err != nil {
			return err
		}
		e.From, e.To = obj.From, obj.To
		return nil
	default:
		return fmt.Errorf("line %d: edge must be a sequence or a mapping", value.Line)
	}
}

func (e *Edge) fromPair(pair []string) error {
	if len(pair) != 2 {
		return fmt.Errorf("edge pair must have 2 elements, got %d", len(pair))
	}
	e.From, e.To = pair[0], pair[1]
	return nil
}
