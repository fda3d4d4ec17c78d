package blueprint

import (
	"strconv"
	"strings"

	"github.com/matzehuels/blueprint/pkg/graph"
)

// Source tells where a diagram graph came from.
type Source string

const (
	SourceGraph    Source = "graph"    // explicit graph in the blueprint
	SourceMermaid  Source = "mermaid"  // parsed Mermaid source
	SourceSections Source = "sections" // derived from system flow or tech stack
	SourceFallback Source = "fallback" // the diagram's default provider
)

// Diagram returns the graph for one of the blueprint's diagrams, using the
// canned provider of that diagram type as the last resort.
func Diagram(b Blueprint, t graph.DiagramType) (graph.Graph, Source) {
	if t == graph.DiagramTechStack {
		return TechStackGraph(b, graph.ProviderFor(t))
	}
	return UserFlowGraph(b, graph.ProviderFor(t))
}

// UserFlowGraph returns the user-flow graph of b. The first usable candidate
// wins: the explicit graph, the parsed Mermaid source, a chain of the system
// flow steps, and finally p. A nil p means [graph.DefaultProvider].
func UserFlowGraph(b Blueprint, p graph.Provider) (graph.Graph, Source) {
	return pick(b.Diagrams.UserFlow, b.Diagrams.UserFlowMermaid, StepsGraph(b.SystemFlow.Steps), p)
}

// TechStackGraph is [UserFlowGraph] for the tech-stack diagram; the derived
// candidate is the primary stack.
func TechStackGraph(b Blueprint, p graph.Provider) (graph.Graph, Source) {
	return pick(b.Diagrams.TechStack, b.Diagrams.TechStackMermaid, StackGraph(b.TechStack.Primary), p)
}

func pick(explicit *graph.Graph, mermaid string, derived graph.Graph, p graph.Provider) (graph.Graph, Source) {
	if explicit != nil && usable(*explicit) {
		return *explicit, SourceGraph
	}
	if strings.TrimSpace(mermaid) != "" {
		if g, err := graph.ParseMermaid(mermaid); err == nil && usable(g) {
			return g, SourceMermaid
		}
	}
	if usable(derived) {
		return derived, SourceSections
	}
	g, _ := graph.OrDefault(graph.Graph{}, p)
	return g, SourceFallback
}

func usable(g graph.Graph) bool {
	for _, n := range g.Nodes {
		if n.ID != "" {
			return true
		}
	}
	return false
}

// StepsGraph chains the system flow steps in order. Each step is a card
// labeled with its action and categorized by its actor.
func StepsGraph(steps []Step) graph.Graph {
	var g graph.Graph
	for i, s := range steps {
		id := "step-" + strconv.Itoa(i+1)
		g.Nodes = append(g.Nodes, graph.Node{ID: id, Label: s.Action, Category: s.Actor})
		if i > 0 {
			g.Edges = append(g.Edges, graph.Edge{From: "step-" + strconv.Itoa(i), To: id})
		}
	}
	return g
}

// StackGraph chains a user card through every primary technology in order.
func StackGraph(stack []Technology) graph.Graph {
	if len(stack) == 0 {
		return graph.Graph{}
	}
	g := graph.Graph{Nodes: []graph.Node{{ID: "user", Label: "User", Category: "Client"}}}
	prev := "user"
	seen := map[string]int{"user": 1}
	for _, t := range stack {
		id := slug(t.Category)
		if n := seen[id]; n > 0 {
			seen[id]++
			id += "-" + strconv.Itoa(n+1)
		} else {
			seen[id] = 1
		}
		node := graph.Node{ID: id, Label: t.Technology, Category: t.Category}
		if t.SkillLevel != "" {
			node.Tags = []string{t.SkillLevel}
		}
		g.Nodes = append(g.Nodes, node)
		g.Edges = append(g.Edges, graph.Edge{From: prev, To: id})
		prev = id
	}
	return g
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "layer"
	}
	return out
}
