// Package render groups the renderers for diagram layouts.
//
// # Overview
//
// Renderers are thin adapters: they read a computed [layout.Result] and
// never do layout math themselves.
//
//   - Card diagrams as SVG or HTML (in [svg] subpackage)
//   - Graphviz node-link diagrams (in [nodelink] subpackage)
//
// # Card Diagrams
//
//	res := layout.Build(g, layout.DefaultConfig(), 960)
//	doc := svg.Render(res)
//	frag := svg.RenderHTML(res)
//
// # Node-Link Diagrams
//
//	dot := nodelink.ToDOT(res, nodelink.Options{})
//	out, err := nodelink.RenderSVG(dot)
//
// [layout.Result]: github.com/matzehuels/blueprint/pkg/layout#Result
// [svg]: github.com/matzehuels/blueprint/pkg/render/svg
// [nodelink]: github.com/matzehuels/blueprint/pkg/render/nodelink
package render
