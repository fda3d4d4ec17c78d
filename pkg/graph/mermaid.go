package graph

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"
)

// CategoryDecision is assigned to nodes drawn with the Mermaid rhombus shape.
const CategoryDecision = "decision"

var (
	mermaidNodeRef = regexp.MustCompile(`^([A-Za-z0-9_\-]+)\s*(\[\(.*\)\]|\(\(.*\)\)|\[.*\]|\{.*\}|\(.*\)|>.*\])?$`)
	mermaidHeader  = regexp.MustCompile(`^(flowchart|graph)(\s+(TB|TD|BT|RL|LR))?\s*;?$`)
	mermaidIgnored = []string{"style ", "classDef ", "class ", "click ", "linkStyle ", "direction "}
	mermaidArrows  = []string{"-.->", "-->", "---", "==>"}
	mermaidIDChars = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// ParseMermaid reads the flowchart subset of Mermaid used by blueprint
// documents: a flowchart header, node declarations with the [], {}, [()],
// (()) and () shapes, chained edges with optional |labels|, and subgraph
// blocks. Nodes inside a subgraph get the subgraph title as their category;
// nodes declared with the {} shape outside a subgraph are decisions.
// Edge labels, styling and click handlers are ignored.
func ParseMermaid(src string) (Graph, error) {
	p := mermaidParser{index: map[string]int{}}
	sc := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		for _, stmt := range strings.Split(sc.Text(), ";") {
			if err := p.statement(strings.TrimSpace(stmt)); err != nil {
				return Graph{}, fmt.Errorf("mermaid line %d: %w", lineNo, err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return Graph{}, err
	}
	if !p.sawHeader && len(p.g.Nodes) == 0 {
		return Graph{}, fmt.Errorf("mermaid: no flowchart found: %w", ErrEmptyGraph)
	}
	return p.g, nil
}

type mermaidParser struct {
	g         Graph
	index     map[string]int
	subgraph  []string
	sawHeader bool
}

func (p *mermaidParser) statement(s string) error {
	switch {
	case s == "" || strings.HasPrefix(s, "%%"):
		return nil
	case mermaidHeader.MatchString(s):
		p.sawHeader = true
		return nil
	case s == "end":
		if len(p.subgraph) > 0 {
			p.subgraph = p.subgraph[:len(p.subgraph)-1]
		}
		return nil
	case strings.HasPrefix(s, "subgraph "):
		p.subgraph = append(p.subgraph, subgraphTitle(strings.TrimSpace(s[len("subgraph "):])))
		return nil
	}
	for _, prefix := range mermaidIgnored {
		if strings.HasPrefix(s, prefix) {
			return nil
		}
	}

	refs := splitMermaidChain(s)
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id, err := p.node(ref)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		p.g.Edges = append(p.g.Edges, Edge{From: ids[i-1], To: ids[i]})
	}
	return nil
}

// node declares or updates the node in ref and returns its id.
func (p *mermaidParser) node(ref string) (string, error) {
	m := mermaidNodeRef.FindStringSubmatch(strings.TrimSpace(ref))
	if m == nil {
		return "", fmt.Errorf("cannot parse node %q", ref)
	}
	id, shape := m[1], m[2]

	i, seen := p.index[id]
	if !seen {
		i = len(p.g.Nodes)
		p.index[id] = i
		p.g.Nodes = append(p.g.Nodes, Node{ID: id})
	}
	n := &p.g.Nodes[i]
	if shape != "" {
		n.Label = shapeLabel(shape)
	}
	if n.Category == "" {
		if len(p.subgraph) > 0 {
			n.Category = p.subgraph[len(p.subgraph)-1]
		} else if strings.HasPrefix(shape, "{") {
			n.Category = CategoryDecision
		}
	}
	return id, nil
}

// splitMermaidChain splits "A --> B -->|x| C" into node references.
// Arrows inside brackets are part of a label and are not split on.
func splitMermaidChain(s string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(', '{':
			depth++
			continue
		case ']', ')', '}':
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth > 0 {
			continue
		}
		arrow := ""
		for _, a := range mermaidArrows {
			if strings.HasPrefix(s[i:], a) {
				arrow = a
				break
			}
		}
		if arrow == "" {
			continue
		}
		parts = append(parts, s[start:i])
		j := i + len(arrow)
		for j < len(s) && s[j] == '>' {
			j++
		}
		rest := strings.TrimLeft(s[j:], " ")
		j = len(s) - len(rest)
		if strings.HasPrefix(rest, "|") {
			if end := strings.IndexByte(rest[1:], '|'); end >= 0 {
				j += end + 2
			}
		}
		start = j
		i = j - 1
	}
	return append(parts, s[start:])
}

func shapeLabel(shape string) string {
	for _, delim := range [][2]string{{"[(", ")]"}, {"((", "))"}, {"[", "]"}, {"{", "}"}, {"(", ")"}, {">", "]"}} {
		if strings.HasPrefix(shape, delim[0]) && strings.HasSuffix(shape, delim[1]) {
			shape = shape[len(delim[0]) : len(shape)-len(delim[1])]
			break
		}
	}
	label := strings.TrimSpace(shape)
	label = strings.Trim(label, `"`)
	return strings.ReplaceAll(label, "#quot;", `"`)
}

// subgraphTitle handles both "subgraph Title" and "subgraph id [Title]".
func subgraphTitle(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 && strings.HasSuffix(s, "]") {
		return strings.Trim(strings.TrimSpace(s[i+1:len(s)-1]), `"`)
	}
	return strings.Trim(s, `"`)
}

// FormatMermaid writes g as a left-to-right Mermaid flowchart.
// Nodes with a category other than "decision" are grouped into subgraphs
// named after the category, decisions use the {} shape and ids are
// rewritten to Mermaid-safe identifiers. Tags are not representable and are
// omitted.
func FormatMermaid(g Graph) string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	declare := func(indent string, n Node) {
		open, close := "[", "]"
		if n.Category == CategoryDecision {
			open, close = "{", "}"
		}
		label := strings.ReplaceAll(n.DisplayLabel(), `"`, "#quot;")
		fmt.Fprintf(&b, "%s%s%s\"%s\"%s\n", indent, MermaidID(n.ID), open, label, close)
	}

	var categories []string
	grouped := map[string][]Node{}
	for _, n := range g.Nodes {
		if n.ID == "" {
			continue
		}
		if n.Category == "" || n.Category == CategoryDecision {
			declare("    ", n)
			continue
		}
		if _, ok := grouped[n.Category]; !ok {
			categories = append(categories, n.Category)
		}
		grouped[n.Category] = append(grouped[n.Category], n)
	}
	for _, c := range categories {
		fmt.Fprintf(&b, "    subgraph %s\n", c)
		for _, n := range grouped[c] {
			declare("        ", n)
		}
		b.WriteString("    end\n")
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "    %s --> %s\n", MermaidID(e.From), MermaidID(e.To))
	}
	return b.String()
}

// MermaidID maps an arbitrary node id to a Mermaid identifier.
func MermaidID(id string) string {
	return mermaidIDChars.ReplaceAllString(id, "_")
}
