package graph

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestEdgeUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Graph
		wantErr bool
	}{
		{
			name:  "pair edges",
			input: `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[["a","b"]]}`,
			want:  Graph{Nodes: []Node{{ID: "a"}, {ID: "b"}}, Edges: []Edge{{From: "a", To: "b"}}},
		},
		{
			name:  "object edges",
			input: `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"a"}]}`,
			want:  Graph{Nodes: []Node{{ID: "a"}}, Edges: []Edge{{From: "a", To: "a"}}},
		},
		{
			name:    "short pair",
			input:   `{"nodes":[],"edges":[["a"]]}`,
			wantErr: true,
		},
		{
			name:    "wrong type",
			input:   `{"nodes":[],"edges":[42]}`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unmarshal([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Unmarshal() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMarshalWritesPairs(t *testing.T) {
	data, err := Marshal(Graph{Nodes: []Node{{ID: "a"}, {ID: "b"}}, Edges: []Edge{{From: "a", To: "b"}}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"a",`) || strings.Contains(string(data), `"from"`) {
		t.Errorf("edges should be written as pairs, got:\n%s", data)
	}
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	g := TechStack()

	for _, name := range []string{"stack.json", "stack.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteFile(g, path); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if !reflect.DeepEqual(got, g) {
				t.Errorf("ReadFile() = %+v, want %+v", got, g)
			}
		})
	}
}

func TestReadYAMLObjectEdges(t *testing.T) {
	src := "nodes:\n  - id: a\n  - id: b\nedges:\n  - {from: a, to: b}\n  - [b, a]\n"
	path := filepath.Join(t.TempDir(), "g.yml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := []Edge{{From: "a", To: "b"}, {From: "b", To: "a"}}
	if !reflect.DeepEqual(g.Edges, want) {
		t.Errorf("edges = %v, want %v", g.Edges, want)
	}
}

func TestReadUnsupportedFormat(t *testing.T) {
	if _, err := Read(strings.NewReader("{}"), "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestIngest(t *testing.T) {
	g := Graph{
		Nodes: []Node{
			{ID: "a", Label: "First A"},
			{ID: ""},
			{ID: "b", Category: "Backend", Tags: []string{"Go"}},
			{ID: "a", Label: "Second A"},
		},
		Edges: []Edge{
			{From: "a", To: "b"},
			{From: "a", To: "ghost"},
			{From: "b", To: "b"},
			{From: "a", To: "b"},
		},
	}

	d, rep := Ingest(g)

	if got := d.IDs(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("IDs() = %v, want [a b]", got)
	}
	a, _ := d.Card("a")
	if a.Label != "First A" || a.Kind != KindPlain || a.Tags == nil {
		t.Errorf("card a = %+v, want first occurrence, plain, non-nil tags", a)
	}
	b, _ := d.Card("b")
	if b.Kind != KindCategorized || b.Label != "b" || b.Category != "Backend" {
		t.Errorf("card b = %+v, want categorized with id label", b)
	}

	wantEdges := []Edge{{From: "a", To: "b"}, {From: "b", To: "b"}, {From: "a", To: "b"}}
	if !reflect.DeepEqual(d.Edges, wantEdges) {
		t.Errorf("Edges = %v, want %v", d.Edges, wantEdges)
	}

	if rep.BlankIDs != 1 {
		t.Errorf("BlankIDs = %d, want 1", rep.BlankIDs)
	}
	if !reflect.DeepEqual(rep.Duplicates, []string{"a"}) {
		t.Errorf("Duplicates = %v, want [a]", rep.Duplicates)
	}
	if len(rep.Dangling) != 1 || rep.Dangling[0].To != "ghost" {
		t.Errorf("Dangling = %v, want [a→ghost]", rep.Dangling)
	}
	if rep.Clean() {
		t.Error("Report.Clean() should be false")
	}

	// input untouched
	if g.Nodes[3].Label != "Second A" || len(g.Edges) != 4 {
		t.Error("Ingest modified its input")
	}
}

func TestIngestCopiesTags(t *testing.T) {
	tags := []string{"x"}
	d, _ := Ingest(Graph{Nodes: []Node{{ID: "n", Tags: tags}}})
	tags[0] = "changed"
	if c, _ := d.Card("n"); c.Tags[0] != "x" {
		t.Errorf("card tags alias the input: %v", c.Tags)
	}
}

func TestNodeKindText(t *testing.T) {
	for _, k := range []NodeKind{KindPlain, KindCategorized} {
		text, _ := k.MarshalText()
		var got NodeKind
		if err := got.UnmarshalText(text); err != nil || got != k {
			t.Errorf("NodeKind %v round trip = %v, %v", k, got, err)
		}
	}
}

func TestOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		in           Graph
		provider     Provider
		wantFallback bool
		wantNodes    int
	}{
		{"empty uses default", Graph{}, nil, true, len(UserFlow().Nodes)},
		{"blank ids only", Graph{Nodes: []Node{{ID: ""}}}, TechStack, true, 4},
		{"edges without nodes", Graph{Edges: []Edge{{From: "a", To: "b"}}}, TechStack, true, 4},
		{"usable graph kept", Graph{Nodes: []Node{{ID: "x"}}}, TechStack, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fell := OrDefault(tt.in, tt.provider)
			if fell != tt.wantFallback {
				t.Errorf("fallback = %v, want %v", fell, tt.wantFallback)
			}
			if len(got.Nodes) != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", len(got.Nodes), tt.wantNodes)
			}
		})
	}
}

func TestFallbackGraphsAreClean(t *testing.T) {
	for _, typ := range DiagramTypes {
		g := ProviderFor(typ)()
		if _, rep := Ingest(g); !rep.Clean() {
			t.Errorf("%s fallback is not clean: %+v", typ, rep)
		}
	}
	if n := len(TechStack().Nodes); n != 4 {
		t.Errorf("TechStack nodes = %d, want 4", n)
	}
}

func TestParseDiagramType(t *testing.T) {
	if got, err := ParseDiagramType("tech-stack"); err != nil || got != DiagramTechStack {
		t.Errorf("ParseDiagramType(tech-stack) = %v, %v", got, err)
	}
	if _, err := ParseDiagramType("pie"); err == nil {
		t.Error("expected error for unknown diagram type")
	}
}

func TestParseMermaidUserFlow(t *testing.T) {
	src := `flowchart TD
    A[User Opens App] --> B{Login Required?}
    B -->|Yes| C[Login Page]
    B -->|No| D[Dashboard]
    C --> E[Enter Credentials]
    E --> F{Valid?}
    F -->|No| C
    F -->|Yes| D
    D --> G[Use Features]
    G --> H[Complete Task]`

	g, err := ParseMermaid(src)
	if err != nil {
		t.Fatalf("ParseMermaid: %v", err)
	}
	if len(g.Nodes) != 8 || len(g.Edges) != 9 {
		t.Fatalf("got %d nodes, %d edges; want 8, 9", len(g.Nodes), len(g.Edges))
	}
	if g.Nodes[1].Label != "Login Required?" || g.Nodes[1].Category != CategoryDecision {
		t.Errorf("node B = %+v, want decision", g.Nodes[1])
	}
	if g.Nodes[2].Category != "" {
		t.Errorf("node C category = %q, want empty", g.Nodes[2].Category)
	}
	if e := g.Edges[5]; e.From != "F" || e.To != "C" {
		t.Errorf("edge 5 = %v, want F→C", e)
	}
}

func TestParseMermaidSubgraphs(t *testing.T) {
	src := `flowchart LR
    subgraph Frontend
        A[Web Interface]
    end
    subgraph Backend
        B[API Server]
    end
    subgraph Database
        C[(Data Storage)]
    end
    A -->|HTTP| B
    B -->|Queries| C`

	g, err := ParseMermaid(src)
	if err != nil {
		t.Fatalf("ParseMermaid: %v", err)
	}
	want := []Node{
		{ID: "A", Label: "Web Interface", Category: "Frontend"},
		{ID: "B", Label: "API Server", Category: "Backend"},
		{ID: "C", Label: "Data Storage", Category: "Database"},
	}
	if !reflect.DeepEqual(g.Nodes, want) {
		t.Errorf("Nodes = %+v, want %+v", g.Nodes, want)
	}
	if len(g.Edges) != 2 {
		t.Errorf("Edges = %v, want 2", g.Edges)
	}
}

func TestParseMermaidChainsAndLabels(t *testing.T) {
	g, err := ParseMermaid(`graph LR; a["x --> y"] --> b --> c(("round"))`)
	if err != nil {
		t.Fatalf("ParseMermaid: %v", err)
	}
	if len(g.Nodes) != 3 || g.Nodes[0].Label != "x --> y" || g.Nodes[2].Label != "round" {
		t.Errorf("Nodes = %+v", g.Nodes)
	}
	if len(g.Edges) != 2 {
		t.Errorf("Edges = %v, want a→b, b→c", g.Edges)
	}
}

func TestParseMermaidErrors(t *testing.T) {
	for _, src := range []string{"", "not a diagram at all!", "flowchart TD\n  A --> "} {
		if _, err := ParseMermaid(src); err == nil {
			t.Errorf("ParseMermaid(%q) expected error", src)
		}
	}
}

func TestFormatMermaidRoundTrip(t *testing.T) {
	src := FormatMermaid(TechStack())
	g, err := ParseMermaid(src)
	if err != nil {
		t.Fatalf("ParseMermaid(FormatMermaid()): %v\n%s", err, src)
	}
	if len(g.Nodes) != 4 || len(g.Edges) != 3 {
		t.Fatalf("round trip lost structure:\n%s", src)
	}
	if g.Nodes[1].Category != "Frontend" || g.Nodes[1].Label != "Web Interface" {
		t.Errorf("node = %+v", g.Nodes[1])
	}

	flow, err := ParseMermaid(FormatMermaid(UserFlow()))
	if err != nil {
		t.Fatal(err)
	}
	d, rep := Ingest(flow)
	if !rep.Clean() || len(d.Cards) != 8 || len(d.Edges) != 9 {
		t.Fatalf("user flow round trip: %d cards, %d edges, report %+v", len(d.Cards), len(d.Edges), rep)
	}
	if c, ok := d.Card("login_required"); !ok || c.Category != CategoryDecision {
		t.Errorf("decision node = %+v, %v", c, ok)
	}
	if c, _ := d.Card("open_app"); c.Category != "action" {
		t.Errorf("action node = %+v", c)
	}
}
