package graph

import "fmt"

// DiagramType identifies which blueprint diagram a graph is drawn for.
type DiagramType string

// Diagram types.
const (
	DiagramUserFlow  DiagramType = "user-flow"
	DiagramTechStack DiagramType = "tech-stack"
)

// DiagramTypes lists every known diagram type.
var DiagramTypes = []DiagramType{DiagramUserFlow, DiagramTechStack}

// ParseDiagramType validates a diagram type name.
func ParseDiagramType(s string) (DiagramType, error) {
	for _, t := range DiagramTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid diagram type: %q (must be one of: user-flow, tech-stack)", s)
}

// Provider returns the default graph for a diagram.
// It is called whenever the supplied graph has no usable nodes.
type Provider func() Graph

// ProviderFor returns the canned default provider for a diagram type.
// Unknown types get the user flow.
func ProviderFor(t DiagramType) Provider {
	if t == DiagramTechStack {
		return TechStack
	}
	return UserFlow
}

// DefaultProvider is used when a caller does not inject one.
var DefaultProvider Provider = UserFlow

// OrDefault returns g unless it has no usable nodes, in which case it
// returns the provider's graph. The second result reports whether the
// fallback was used. A nil provider means [DefaultProvider].
func OrDefault(g Graph, p Provider) (Graph, bool) {
	for _, n := range g.Nodes {
		if n.ID != "" {
			return g, false
		}
	}
	if p == nil {
		p = DefaultProvider
	}
	return p(), true
}

// UserFlow returns the canned branching user-flow graph: an app entry that
// asks for login, a credential loop, and the dashboard path to task
// completion.
func UserFlow() Graph {
	return Graph{
		Nodes: []Node{
			{ID: "open-app", Label: "User Opens App", Category: "action"},
			{ID: "login-required", Label: "Login Required?", Category: "decision"},
			{ID: "login-page", Label: "Login Page", Category: "action"},
			{ID: "dashboard", Label: "Dashboard", Category: "action"},
			{ID: "enter-credentials", Label: "Enter Credentials", Category: "action"},
			{ID: "credentials-valid", Label: "Valid?", Category: "decision"},
			{ID: "use-features", Label: "Use Features", Category: "action"},
			{ID: "complete-task", Label: "Complete Task", Category: "action"},
		},
		Edges: []Edge{
			{From: "open-app", To: "login-required"},
			{From: "login-required", To: "login-page"},
			{From: "login-required", To: "dashboard"},
			{From: "login-page", To: "enter-credentials"},
			{From: "enter-credentials", To: "credentials-valid"},
			{From: "credentials-valid", To: "login-page"},
			{From: "credentials-valid", To: "dashboard"},
			{From: "dashboard", To: "use-features"},
			{From: "use-features", To: "complete-task"},
		},
	}
}

// TechStack returns the canned four-node pipeline from the user through the
// frontend and backend to the database.
func TechStack() Graph {
	return Graph{
		Nodes: []Node{
			{ID: "user", Label: "User", Category: "Client"},
			{ID: "frontend", Label: "Web Interface", Category: "Frontend", Tags: []string{"HTML/CSS/JavaScript"}},
			{ID: "backend", Label: "API Server", Category: "Backend", Tags: []string{"Python or Node.js"}},
			{ID: "database", Label: "Data Storage", Category: "Database", Tags: []string{"MySQL or MongoDB"}},
		},
		Edges: []Edge{
			{From: "user", To: "frontend"},
			{From: "frontend", To: "backend"},
			{From: "backend", To: "database"},
		},
	}
}
