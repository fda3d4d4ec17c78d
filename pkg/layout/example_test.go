package layout_test

import (
	"fmt"

	"github.com/matzehuels/blueprint/pkg/graph"
	"github.com/matzehuels/blueprint/pkg/layout"
)

func ExampleBuild() {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		Edges: []graph.Edge{{From: "A", To: "B"}, {From: "B", To: "C"}},
	}

	r := layout.Build(g, layout.DefaultConfig(), 0)
	for _, c := range r.Cards {
		fmt.Printf("%s level=%d x=%.0f y=%.0f\n", c.ID, c.Level, c.X, c.Y)
	}
	fmt.Printf("canvas %.0fx%.0f scale %.1f\n", r.CanvasWidth, r.CanvasHeight, r.Scale)
	// Output:
	// A level=0 x=40 y=210
	// B level=1 x=340 y=210
	// C level=2 x=640 y=210
	// canvas 880x330 scale 1.0
}

func ExampleBuild_scaleToFit() {
	r := layout.Build(graph.TechStack(), layout.DefaultConfig(), 590)
	fmt.Printf("natural width %.0f, scale %.2f, margin-bottom %.0f\n", r.CanvasWidth, r.Scale, r.MarginBottom)
	// Output:
	// natural width 1180, scale 0.50, margin-bottom -165
}

func ExampleBuild_fallback() {
	r := layout.Build(graph.Graph{}, layout.DefaultConfig(), 0, layout.WithFallback(graph.TechStack))
	fmt.Println("fallback:", r.Fallback, "cards:", len(r.Cards))
	// Output:
	// fallback: true cards: 4
}

func ExampleAllocatePorts() {
	edges := []graph.Edge{{From: "A", To: "B"}, {From: "A", To: "C"}, {From: "A", To: "D"}}
	ports := layout.AllocatePorts(edges, layout.DefaultConfig())
	for _, p := range ports.Outgoing["A"] {
		fmt.Printf("%s at %.0f\n", p.Neighbor, p.Offset)
	}
	// Output:
	// B at 20
	// C at 40
	// D at 60
}

func ExampleCurve_Path() {
	pos := layout.Positions{"A": {X: 40, Y: 40}, "B": {X: 340, Y: 40}}
	edges := []graph.Edge{{From: "A", To: "B"}}
	cfg := layout.DefaultConfig()

	curves := layout.RouteEdges(edges, pos, layout.AllocatePorts(edges, cfg), cfg)
	fmt.Println(curves[0].Path())
	// Output:
	// M 240 80 C 300 75 280 75 340 80
}
