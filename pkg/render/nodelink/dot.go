package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/blueprint/pkg/graph"
	"github.com/matzehuels/blueprint/pkg/layout"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the category and tags to node labels.
	// When false, only the label is shown.
	Detailed bool
	// Pinned fixes nodes at their computed layout positions instead of
	// letting Graphviz place them. Render pinned graphs with the neato engine.
	Pinned bool
}

// pointsPerPixel converts layout pixels to Graphviz points.
const pointsPerPixel = 0.75

// ToDOT converts a layout to Graphviz DOT. Cards on the same level share a
// rank, so Graphviz keeps the left-to-right column structure.
//
// Categorized cards get a filled header color; decisions are drawn as
// diamonds.
func ToDOT(res layout.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#64748b\"];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	cfg := res.Config.WithDefaults()
	levels := map[int][]string{}
	maxLevel := 0
	for _, c := range res.Cards {
		attrs := fmtAttrs(c, cfg, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", c.ID, strings.Join(attrs, ", "))
		levels[c.Level] = append(levels[c.Level], c.ID)
		maxLevel = max(maxLevel, c.Level)
	}

	if !opts.Pinned {
		buf.WriteString("\n")
		for l := 0; l <= maxLevel; l++ {
			ids := levels[l]
			if len(ids) < 2 {
				continue
			}
			quoted := make([]string, len(ids))
			for i, id := range ids {
				quoted[i] = strconv.Quote(id)
			}
			fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(quoted, "; "))
		}
	}

	buf.WriteString("\n")
	for _, c := range res.Curves {
		fmt.Fprintf(&buf, "  %q -> %q;\n", c.From, c.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(c layout.PlacedCard, detailed bool) string {
	if !detailed {
		return c.Label
	}
	parts := []string{c.Label}
	if c.Category != "" {
		parts = append(parts, "["+c.Category+"]")
	}
	if len(c.Tags) > 0 {
		parts = append(parts, strings.Join(c.Tags, ", "))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(c layout.PlacedCard, cfg layout.Config, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(c, opts.Detailed))}
	switch {
	case c.Category == graph.CategoryDecision:
		attrs = append(attrs, "shape=diamond", "style=filled", "fillcolor=\"#fef3c7\"")
	case c.IsCategorized():
		attrs = append(attrs, "fillcolor=\"#e0f2fe\"")
	}
	if opts.Pinned {
		cx, cy := c.X+cfg.CardWidth/2, c.Y+cfg.CardHeight/2
		attrs = append(attrs, fmt.Sprintf("pos=\"%.1f,%.1f!\"", cx*pointsPerPixel, -cy*pointsPerPixel))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
