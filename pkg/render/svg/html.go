package svg

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/blueprint/pkg/layout"
)

const htmlCardCSS = `.bp-diagram { position: relative; transform-origin: top left; font-family: system-ui, sans-serif; }
.bp-arrows { position: absolute; top: 0; left: 0; pointer-events: none; }
.bp-card { position: absolute; box-sizing: border-box; display: flex; flex-direction: column; justify-content: center; align-items: center; padding: 6px 10px; background: white; border: 1.5px solid #cbd5e1; border-radius: 10px; box-shadow: 0 2px 4px rgba(0,0,0,.08); text-align: center; overflow: hidden; }
.bp-card-category { font-size: 10px; text-transform: uppercase; letter-spacing: .05em; color: #64748b; }
.bp-card-label { font-weight: 600; color: #0f172a; }
.bp-card-tags { margin-top: 4px; display: flex; gap: 4px; flex-wrap: wrap; justify-content: center; }
.bp-card-tags span { font-size: 10px; padding: 1px 6px; border-radius: 8px; background: #f1f5f9; color: #475569; }`

// RenderHTML draws a layout as an HTML fragment: absolutely positioned card
// elements under an SVG arrow overlay, wrapped in a container that applies
// the layout scale as a top-left anchored CSS transform. When the scale is
// below 1 the container also gets the compensating negative bottom margin.
func RenderHTML(res layout.Result, opts ...Option) []byte {
	r := newRenderer(opts...)

	scale, margin := res.Scale, res.MarginBottom
	if r.natural || scale <= 0 {
		scale, margin = 1, 0
	}
	w, h := res.Config.CardWidth, res.Config.CardHeight
	if w <= 0 || h <= 0 {
		cfg := res.Config.WithDefaults()
		w, h = cfg.CardWidth, cfg.CardHeight
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<style>\n%s\n</style>\n", htmlCardCSS)
	fmt.Fprintf(&buf, `<div class="bp-diagram" style="width: %.0fpx; height: %.0fpx; transform: scale(%s); margin-bottom: %.2fpx;"`,
		res.CanvasWidth, res.CanvasHeight, formatScale(scale), margin)
	if r.title != "" {
		fmt.Fprintf(&buf, ` title="%s"`, html.EscapeString(r.title))
	}
	buf.WriteString(">\n")

	fmt.Fprintf(&buf, `  <svg class="bp-arrows" xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f">`+"\n",
		res.CanvasWidth, res.CanvasHeight)
	var overlay bytes.Buffer
	r.style.RenderDefs(&overlay)
	for _, a := range buildArrows(res) {
		r.style.RenderCurve(&overlay, a)
	}
	buf.WriteString(indent(overlay.String(), "  "))
	buf.WriteString("  </svg>\n")

	for _, c := range res.Cards {
		class := "bp-card"
		if c.IsCategorized() {
			class += " bp-card-categorized"
		}
		fmt.Fprintf(&buf, `  <div class="%s" data-id="%s" data-level="%d" style="left: %.2fpx; top: %.2fpx; width: %.0fpx; height: %.0fpx;">`+"\n",
			class, html.EscapeString(c.ID), c.Level, c.X, c.Y, w, h)
		if c.IsCategorized() {
			fmt.Fprintf(&buf, `    <div class="bp-card-category" style="color: %s">%s</div>`+"\n",
				CategoryColor(c.Category), html.EscapeString(c.Category))
		}
		fmt.Fprintf(&buf, "    <div class=\"bp-card-label\">%s</div>\n", html.EscapeString(c.Label))
		if len(c.Tags) > 0 {
			buf.WriteString(`    <div class="bp-card-tags">`)
			for _, t := range c.Tags {
				fmt.Fprintf(&buf, "<span>%s</span>", html.EscapeString(t))
			}
			buf.WriteString("</div>\n")
		}
		buf.WriteString("  </div>\n")
	}

	buf.WriteString("</div>\n")
	return buf.Bytes()
}

func formatScale(s float64) string {
	out := fmt.Sprintf("%.4f", s)
	out = strings.TrimRight(out, "0")
	return strings.TrimSuffix(out, ".")
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(l)
	}
	return b.String()
}
