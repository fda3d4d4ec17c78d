package svg

import (
	"bytes"
	"fmt"
	"hash/fnv"
)

// Style defines the visual appearance of a diagram.
// Implementations control how cards, arrows and labels are drawn.
type Style interface {
	// RenderDefs writes SVG <defs> content (markers, filters, gradients).
	RenderDefs(buf *bytes.Buffer)
	// RenderCard writes the SVG for a single card body.
	RenderCard(buf *bytes.Buffer, c Card)
	// RenderCurve writes the SVG for one arrow.
	RenderCurve(buf *bytes.Buffer, a Arrow)
	// RenderText writes the label, category and tags of a card.
	RenderText(buf *bytes.Buffer, c Card)
}

// Card contains all data needed to render a single card.
type Card struct {
	ID         string   // Node identifier
	Label      string   // Display text
	Category   string   // Empty for plain cards
	Tags       []string // Annotation chips
	X, Y, W, H float64  // Position and dimensions
	CX, CY     float64  // Center coordinates (for text)
}

// Arrow contains the path of one rendered edge.
type Arrow struct {
	FromID, ToID string
	Path         string
}

// Simple is a flat style: white cards with a colored category band and
// grey arrows.
type Simple struct{}

func (Simple) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <marker id="arrowhead" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="#64748b"/>
    </marker>
    <filter id="card-shadow" x="-10%" y="-10%" width="120%" height="130%">
      <feDropShadow dx="0" dy="2" stdDeviation="2" flood-opacity="0.15"/>
    </filter>
  </defs>
`)
}

func (Simple) RenderCard(buf *bytes.Buffer, c Card) {
	fmt.Fprintf(buf, `  <rect id="card-%s" class="card" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="10" ry="10" fill="white" stroke="#cbd5e1" stroke-width="1.5" filter="url(#card-shadow)"/>`+"\n",
		EscapeXML(c.ID), c.X, c.Y, c.W, c.H)
	if c.Category != "" {
		fmt.Fprintf(buf, `  <rect class="card-band" x="%.2f" y="%.2f" width="6" height="%.2f" rx="3" fill="%s"/>`+"\n",
			c.X, c.Y, c.H, CategoryColor(c.Category))
	}
}

func (Simple) RenderCurve(buf *bytes.Buffer, a Arrow) {
	fmt.Fprintf(buf, `  <path class="arrow" data-from="%s" data-to="%s" d="%s" fill="none" stroke="#64748b" stroke-width="2" marker-end="url(#arrowhead)"/>`+"\n",
		EscapeXML(a.FromID), EscapeXML(a.ToID), a.Path)
}

func (Simple) RenderText(buf *bytes.Buffer, c Card) {
	renderCardText(buf, c, "#0f172a", "#64748b")
}

// Mono is a black and white style suited for printing.
type Mono struct{}

func (Mono) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <marker id="arrowhead" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="black"/>
    </marker>
  </defs>
`)
}

func (Mono) RenderCard(buf *bytes.Buffer, c Card) {
	dash := ""
	if c.Category != "" {
		dash = ` stroke-dasharray="6 3"`
	}
	fmt.Fprintf(buf, `  <rect id="card-%s" class="card" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="white" stroke="black" stroke-width="1.5"%s/>`+"\n",
		EscapeXML(c.ID), c.X, c.Y, c.W, c.H, dash)
}

func (Mono) RenderCurve(buf *bytes.Buffer, a Arrow) {
	fmt.Fprintf(buf, `  <path class="arrow" data-from="%s" data-to="%s" d="%s" fill="none" stroke="black" stroke-width="1.5" marker-end="url(#arrowhead)"/>`+"\n",
		EscapeXML(a.FromID), EscapeXML(a.ToID), a.Path)
}

func (Mono) RenderText(buf *bytes.Buffer, c Card) {
	renderCardText(buf, c, "black", "black")
}

// StyleByName returns the style registered under name, or false.
func StyleByName(name string) (Style, bool) {
	switch name {
	case "", "simple":
		return Simple{}, true
	case "mono":
		return Mono{}, true
	default:
		return nil, false
	}
}

var categoryPalette = []string{
	"#3b82f6", "#10b981", "#f59e0b", "#ef4444",
	"#8b5cf6", "#06b6d4", "#ec4899", "#84cc16",
}

// CategoryColor returns a stable palette color for a category name.
func CategoryColor(category string) string {
	h := fnv.New32a()
	h.Write([]byte(category))
	return categoryPalette[h.Sum32()%uint32(len(categoryPalette))]
}
