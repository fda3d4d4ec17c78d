package pipeline

import (
	"github.com/matzehuels/blueprint/pkg/graph"
	"github.com/matzehuels/blueprint/pkg/layout"
)

// GenerateLayout lays out g. It never fails for a structurally valid graph:
// a graph without usable nodes is replaced by the options' provider.
func GenerateLayout(g graph.Graph, opts Options) layout.Result {
	opts.SetLayoutDefaults()
	return layout.Build(g, opts.Layout, opts.AvailableWidth, layout.WithFallback(opts.Provider))
}

// logReport writes the ingestion findings at debug level.
func logReport(opts Options, rep graph.Report) {
	if rep.Clean() {
		return
	}
	for _, e := range rep.Dangling {
		opts.Logger.Debug("dropped dangling edge", "edge", e.String())
	}
	opts.Logger.Debug("ingested graph",
		"blank_ids", rep.BlankIDs,
		"duplicates", rep.Duplicates)
}
