// Package nodelink renders diagram layouts through Graphviz.
//
// # Overview
//
// The card renderer in [svg] draws layouts exactly as computed. This
// package hands the same cards and edges to Graphviz instead, which is
// useful for comparing against a classic layered layout or for feeding
// other Graphviz tooling.
//
// # Usage
//
//	res := layout.Build(g, layout.DefaultConfig(), 0)
//	dot := nodelink.ToDOT(res, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
//   - Detailed: node labels include the category and tags
//   - Pinned: nodes carry pos attributes at their computed layout centers
//
// Without Pinned, cards of the same level are put in one rank so Graphviz
// keeps the left-to-right column structure.
//
// [svg]: github.com/matzehuels/blueprint/pkg/render/svg
package nodelink
