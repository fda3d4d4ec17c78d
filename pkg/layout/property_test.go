package layout

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/blueprint/pkg/graph"
)

// randomGraph builds a graph of n nodes from a flat list of endpoint
// indices, two per edge. Cycles, self-loops and parallel edges all occur.
func randomGraph(n int, raw []int) graph.Graph {
	g := graph.Graph{Nodes: make([]graph.Node, n)}
	for i := range g.Nodes {
		g.Nodes[i] = graph.Node{ID: "n" + strconv.Itoa(i)}
	}
	for i := 0; i+1 < len(raw); i += 2 {
		g.Edges = append(g.Edges, graph.Edge{
			From: "n" + strconv.Itoa(raw[i]%n),
			To:   "n" + strconv.Itoa(raw[i+1]%n),
		})
	}
	return g
}

func layoutProperties(t *testing.T) *gopter.Properties {
	t.Helper()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return gopter.NewProperties(parameters)
}

func TestLayoutProperties(t *testing.T) {
	properties := layoutProperties(t)
	cfg := DefaultConfig()

	properties.Property("layout is idempotent", prop.ForAll(
		func(n int, raw []int, width float64) bool {
			g := randomGraph(n, raw)
			return reflect.DeepEqual(Build(g, cfg, width), Build(g, cfg, width))
		},
		gen.IntRange(1, 15),
		gen.SliceOf(gen.IntRange(0, 1000)),
		gen.Float64Range(0, 3000),
	))

	properties.Property("no card above or left of the padding", prop.ForAll(
		func(n int, raw []int, width float64) bool {
			r := Build(randomGraph(n, raw), cfg, width)
			for _, p := range r.Positions {
				if p.X < cfg.Padding || p.Y < cfg.Padding {
					return false
				}
			}
			return len(r.Positions) == n
		},
		gen.IntRange(1, 15),
		gen.SliceOf(gen.IntRange(0, 1000)),
		gen.Float64Range(0, 3000),
	))

	properties.Property("tree edges advance exactly one level", prop.ForAll(
		func(n int, raw []int) bool {
			d, _ := graph.Ingest(randomGraph(n, raw))
			lv := AssignLevels(d.Cards, d.Edges)
			for child, parent := range lv.Parent {
				if lv.ByID[child] != lv.ByID[parent]+1 {
					return false
				}
			}
			return len(lv.ByID) == n && len(lv.Roots) >= 1
		},
		gen.IntRange(1, 15),
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.Property("ports are strictly increasing inside the card", prop.ForAll(
		func(n int, raw []int) bool {
			d, _ := graph.Ingest(randomGraph(n, raw))
			ps := AllocatePorts(d.Edges, cfg)
			for _, side := range []map[string][]Port{ps.Outgoing, ps.Incoming} {
				for _, ports := range side {
					prev := 0.0
					for _, p := range ports {
						if p.Offset <= prev || p.Offset >= cfg.CardHeight {
							return false
						}
						prev = p.Offset
					}
				}
			}
			return true
		},
		gen.IntRange(1, 15),
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.Property("scale stays within [floor, 1]", prop.ForAll(
		func(canvas, avail float64) bool {
			s := ScaleFor(canvas, avail, DefaultScaleFloor)
			return s >= DefaultScaleFloor && s <= 1
		},
		gen.Float64Range(1, 1e6),
		gen.Float64Range(1, 1e6),
	))

	properties.Property("every routed curve starts on a right edge and ends on a left edge", prop.ForAll(
		func(n int, raw []int) bool {
			r := Build(randomGraph(n, raw), cfg, 0)
			for _, c := range r.Curves {
				if c.X1 != r.Positions[c.From].X+cfg.CardWidth || c.X2 != r.Positions[c.To].X {
					return false
				}
			}
			return len(r.Curves) == len(raw)/2
		},
		gen.IntRange(1, 15),
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}
