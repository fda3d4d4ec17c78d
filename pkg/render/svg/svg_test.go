package svg

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/blueprint/pkg/graph"
	"github.com/matzehuels/blueprint/pkg/layout"
)

func techStackLayout(width float64) layout.Result {
	return layout.Build(graph.TechStack(), layout.DefaultConfig(), width)
}

func TestRenderIsWellFormedXML(t *testing.T) {
	out := Render(techStackLayout(0), WithTitle(`Stack & "friends"`), WithInteraction())
	dec := xml.NewDecoder(bytes.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("invalid XML: %v\n%s", err, out)
		}
	}
}

func TestRenderContents(t *testing.T) {
	res := techStackLayout(0)
	out := string(Render(res))

	if got := strings.Count(out, `class="card"`); got != 4 {
		t.Errorf("cards = %d, want 4", got)
	}
	if got := strings.Count(out, `class="arrow"`); got != 3 {
		t.Errorf("arrows = %d, want 3", got)
	}
	if !strings.Contains(out, res.Curves[0].Path()) {
		t.Error("curve path missing")
	}
	if !strings.Contains(out, "Web Interface") || !strings.Contains(out, "FRONTEND") {
		t.Error("label or category missing")
	}
	if !strings.Contains(out, `width="1180" height="330"`) {
		t.Errorf("unexpected size in:\n%s", out[:200])
	}
}

func TestRenderScale(t *testing.T) {
	res := techStackLayout(590)

	scaled := string(Render(res))
	if !strings.Contains(scaled, `viewBox="0 0 1180.0 330.0" width="590" height="165"`) {
		t.Errorf("scaled header wrong:\n%s", scaled[:200])
	}

	natural := string(Render(res, WithNaturalSize()))
	if !strings.Contains(natural, `width="1180" height="330"`) {
		t.Errorf("natural header wrong:\n%s", natural[:200])
	}
}

func TestRenderStyles(t *testing.T) {
	for _, name := range []string{"simple", "mono"} {
		s, ok := StyleByName(name)
		if !ok {
			t.Fatalf("StyleByName(%q) not found", name)
		}
		out := Render(techStackLayout(0), WithStyle(s))
		if !bytes.Contains(out, []byte(`marker-end="url(#arrowhead)"`)) {
			t.Errorf("%s: arrowheads missing", name)
		}
	}
	if _, ok := StyleByName("neon"); ok {
		t.Error("unknown style should not resolve")
	}
}

func TestRenderHTML(t *testing.T) {
	res := techStackLayout(590)
	out := string(RenderHTML(res))

	for _, want := range []string{
		"transform: scale(0.5)",
		"margin-bottom: -165.00px",
		`class="bp-card bp-card-categorized" data-id="frontend" data-level="1"`,
		"<span>HTML/CSS/JavaScript</span>",
		`class="arrow"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}

	natural := string(RenderHTML(res, WithNaturalSize()))
	if !strings.Contains(natural, "transform: scale(1)") || !strings.Contains(natural, "margin-bottom: 0.00px") {
		t.Error("natural size should not scale")
	}
}

func TestRenderHTMLEscapes(t *testing.T) {
	g := graph.Graph{Nodes: []graph.Node{{ID: "x", Label: "<script>"}}}
	out := string(RenderHTML(layout.Build(g, layout.DefaultConfig(), 0)))
	if strings.Contains(out, "<script>") {
		t.Error("label not escaped")
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		in    string
		width float64
		want  string
	}{
		{"short", 200, "short"},
		{"a rather long label that will not fit", 100, "a rather long.."},
		{"tiny", 1, "t.."},
	}
	for _, tt := range tests {
		if got := TruncateLabel(tt.in, tt.width, 10); got != tt.want {
			t.Errorf("TruncateLabel(%q, %v) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestFontSizeBounds(t *testing.T) {
	for _, label := range []string{"", "x", strings.Repeat("long", 30)} {
		s := FontSize(Card{Label: label, W: 200, H: 80})
		if s < fontSizeMin || s > fontSizeMax {
			t.Errorf("FontSize(%q) = %v out of bounds", label, s)
		}
	}
}

func TestCategoryColorStable(t *testing.T) {
	if CategoryColor("Backend") != CategoryColor("Backend") {
		t.Error("CategoryColor not deterministic")
	}
}
