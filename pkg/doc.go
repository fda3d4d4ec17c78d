// Package pkg provides the core libraries for Blueprint project planning and
// diagram layout.
//
// # Overview
//
// Blueprint turns a project idea into a structured plan and draws two
// diagrams from it: the user flow and the tech stack. Diagrams are laid out
// left to right as levelled cards joined by curved, port-anchored arrows and
// scaled to fit the width they are shown in.
//
// The pkg directory is organized by concern:
//
//  1. [graph] - Diagram graph model, JSON/YAML/Mermaid input, fallback diagrams
//  2. [layout] - Levels, positions, ports, arrow curves and fit-to-width
//  3. [render] - SVG/HTML card renderers and the Graphviz node-link renderer
//  4. [blueprint] - The project plan and its diagram derivation
//  5. [planner] - Planning backend client and the clarifying-question dialogue
//  6. [pipeline] - Orchestration (graph → layout → render, idea → blueprint)
//  7. [cache], [store] - Layout cache and project persistence
//  8. [server] - HTTP API over the pipeline and the store
//
// # Architecture
//
// The typical data flow:
//
//	Idea
//	  ↓
//	[planner] (backend or default blueprint)
//	  ↓
//	[blueprint] package (explicit graph, Mermaid, sections or default diagram)
//	  ↓
//	[layout] package (cards + curves)
//	  ↓
//	SVG / HTML / DOT / JSON output
//
// # Quick Start
//
//	g, _ := graph.ReadFile("flow.mmd")
//	res := layout.Build(g, layout.DefaultConfig(), 960)
//	out := svg.Render(res, svg.WithTitle("Checkout"))
//
// Through the pipeline, with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{Formats: []string{"svg"}})
//
// # Infrastructure
//
// [config] - TOML configuration with validation.
//
// [errors] - Sentinel errors and input validation shared by CLI and API.
//
// [observability] - Hooks for pipeline, planner and HTTP metrics, with a
// Prometheus implementation.
//
// [httputil] - Retry with exponential backoff for outbound HTTP.
//
// [buildinfo] - Version information injected at build time.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/graph
// [layout]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/render
// [blueprint]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/blueprint
// [planner]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/planner
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/buildinfo
package pkg
