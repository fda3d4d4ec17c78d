// Package graph provides the diagram graph model and its serialization.
//
// A [Graph] is the input of the layout engine: an ordered list of [Node]
// values and an ordered list of directed [Edge] values. It is the wire format
// used for graph files, API requests, blueprint documents and cache keys.
//
// # Wire Format
//
// Graphs are read from JSON or YAML. Edges may be written either as
// two-element arrays or as objects:
//
//	{
//	  "nodes": [
//	    {"id": "web", "label": "Web Interface", "category": "Frontend"},
//	    {"id": "api", "label": "API Server", "tags": ["Go", "chi"]}
//	  ],
//	  "edges": [["web", "api"]]
//	}
//
// Edges are always written back as arrays.
//
// # Ingestion
//
// Raw graphs are loosely typed: labels, categories and tags are optional and
// nothing stops two nodes from sharing an id. [Ingest] resolves all of that
// once, producing a [Diagram] of [Card] values whose [NodeKind] is explicit
// (Plain or Categorized) and whose labels are never empty. The ingestion
// policy is deterministic:
//
//   - nodes with an empty id are dropped
//   - the first node with a given id wins, later duplicates are dropped
//   - edges with an endpoint that is not a known node are dropped
//   - self-loops and parallel edges are kept
//
// Everything that was dropped is listed in the returned [Report] so callers
// can log it.
//
// # Fallback Graphs
//
// Every diagram type has a canned default graph ([UserFlow], [TechStack]),
// exposed as a [Provider]. Callers inject the provider for the diagram they
// are drawing and substitute it whenever the supplied graph has no usable
// nodes (see [OrDefault]).
//
// # Mermaid
//
// Blueprint documents carry their diagrams as Mermaid flowcharts.
// [ParseMermaid] reads the flowchart subset those documents use and
// [FormatMermaid] writes a graph back out.
package graph
