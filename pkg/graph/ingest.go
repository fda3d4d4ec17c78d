package graph

import "slices"

// NodeKind tells the renderer how a card is classified.
type NodeKind uint8

const (
	// KindPlain is a node without a category.
	KindPlain NodeKind = iota
	// KindCategorized is a node that belongs to a named category.
	KindCategorized
)

// String returns "plain" or "categorized".
func (k NodeKind) String() string {
	if k == KindCategorized {
		return "categorized"
	}
	return "plain"
}

// MarshalText implements encoding.TextMarshaler.
func (k NodeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *NodeKind) UnmarshalText(text []byte) error {
	if string(text) == "categorized" {
		*k = KindCategorized
	} else {
		*k = KindPlain
	}
	return nil
}

// Card is a node after ingestion. All optional fields have been resolved:
// Label is never empty, Tags is never nil and Category is set exactly when
// Kind is KindCategorized.
type Card struct {
	ID       string   `json:"id" bson:"id"`
	Label    string   `json:"label" bson:"label"`
	Kind     NodeKind `json:"kind" bson:"kind"`
	Category string   `json:"category,omitempty" bson:"category,omitempty"`
	Tags     []string `json:"tags" bson:"tags"`
}

// IsCategorized reports whether the card carries a category.
func (c Card) IsCategorized() bool { return c.Kind == KindCategorized }

// Diagram is an ingested graph: unique non-empty ids and edges that only
// reference known cards. It is safe to hand to the layout engine.
type Diagram struct {
	Cards []Card
	Edges []Edge

	index map[string]int
}

// Card returns the card with the given id.
func (d Diagram) Card(id string) (Card, bool) {
	i, ok := d.index[id]
	if !ok {
		return Card{}, false
	}
	return d.Cards[i], true
}

// Has reports whether a card with the given id exists.
func (d Diagram) Has(id string) bool {
	_, ok := d.index[id]
	return ok
}

// IDs returns the card ids in input order.
func (d Diagram) IDs() []string {
	ids := make([]string, len(d.Cards))
	for i, c := range d.Cards {
		ids[i] = c.ID
	}
	return ids
}

// IsEmpty reports whether the diagram has no cards.
func (d Diagram) IsEmpty() bool { return len(d.Cards) == 0 }

// Report lists everything [Ingest] dropped.
type Report struct {
	BlankIDs   int      `json:"blank_ids,omitempty"`
	Duplicates []string `json:"duplicates,omitempty"`
	Dangling   []Edge   `json:"dangling,omitempty"`
}

// Clean reports whether nothing was dropped.
func (r Report) Clean() bool {
	return r.BlankIDs == 0 && len(r.Duplicates) == 0 && len(r.Dangling) == 0
}

// Ingest resolves a raw graph into a [Diagram].
// The first node with a given id wins. Edges whose endpoints are unknown are
// dropped. The input graph is not modified.
func Ingest(g Graph) (Diagram, Report) {
	var rep Report
	d := Diagram{
		Cards: make([]Card, 0, len(g.Nodes)),
		index: make(map[string]int, len(g.Nodes)),
	}

	for _, n := range g.Nodes {
		if n.ID == "" {
			rep.BlankIDs++
			continue
		}
		if _, dup := d.index[n.ID]; dup {
			rep.Duplicates = append(rep.Duplicates, n.ID)
			continue
		}
		d.index[n.ID] = len(d.Cards)
		d.Cards = append(d.Cards, toCard(n))
	}

	d.Edges = make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if !d.Has(e.From) || !d.Has(e.To) {
			rep.Dangling = append(rep.Dangling, e)
			continue
		}
		d.Edges = append(d.Edges, e)
	}

	return d, rep
}

// NewDiagram ingests nodes and edges given directly.
// It is shorthand for Ingest(Graph{Nodes: nodes, Edges: edges}).
func NewDiagram(nodes []Node, edges []Edge) Diagram {
	d, _ := Ingest(Graph{Nodes: nodes, Edges: edges})
	return d
}

func toCard(n Node) Card {
	c := Card{
		ID:    n.ID,
		Label: n.DisplayLabel(),
		Kind:  KindPlain,
		Tags:  []string{},
	}
	if n.Category != "" {
		c.Kind = KindCategorized
		c.Category = n.Category
	}
	if len(n.Tags) > 0 {
		c.Tags = slices.Clone(n.Tags)
	}
	return c
}
