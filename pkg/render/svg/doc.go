// Package svg renders diagram layouts as SVG documents or HTML fragments.
//
// Both renderers only read a [layout.Result]: card positions, curves,
// canvas size and scale. No layout math happens here.
//
//	res := layout.Build(g, layout.DefaultConfig(), 960)
//	doc := svg.Render(res, svg.WithInteraction())
//	frag := svg.RenderHTML(res)
//
// [Render] sizes the SVG element to the scaled canvas and keeps the
// unscaled canvas as the viewBox. [RenderHTML] emits positioned card
// elements under an SVG arrow overlay and applies the scale as a CSS
// transform, with a negative bottom margin so a shrunk diagram does not
// reserve its unscaled height in page flow.
//
// Visual appearance is pluggable through [Style]; [Simple] and [Mono] are
// built in.
package svg
