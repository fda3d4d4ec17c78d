// Package layout turns a diagram graph into a left-to-right card layout with
// curved, port-anchored arrows, scaled to fit a container width.
//
// # Pipeline
//
// [Build] runs the whole pipeline over an ingested [graph.Diagram]:
//
//  1. [AssignLevels] puts every card in a column by breadth-first distance
//     from the cards with no incoming edges (or from the first card when the
//     graph is one big cycle). Cards no root reaches go in an extra column at
//     the end.
//  2. [ComputePositions] stacks each column's cards vertically, centered
//     against a nominal reference height and never above the padding line.
//  3. [FitToWidth] normalizes the bounds, sizes the canvas and computes the
//     scale factor for the available width, clamped to [0.3, 1].
//  4. [AllocatePorts] spreads each card's outgoing edges over its right edge
//     and incoming edges over its left edge, so arrows never share an anchor.
//  5. [RouteEdges] connects ports with cubic Bezier curves.
//
// Every step is a pure function. Calling Build twice with the same input
// yields identical output, so re-running it on every container resize is
// safe; [Result.Refit] is a cheaper path when only the width changed.
//
// # Coordinates
//
// All coordinates are pre-scale pixels with the origin at the top left and
// y growing downwards. A [Position] is the top-left corner of a card; every
// card is [Config.CardWidth] by [Config.CardHeight]. Port offsets are
// measured from the top of their card.
//
// # Fallback
//
// A graph without usable nodes is replaced by the graph of a
// [graph.Provider] (see [WithFallback]); the Result records that it did so.
// Layout never fails.
package layout
