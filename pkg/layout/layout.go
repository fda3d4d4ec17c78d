package layout

import (
	"encoding/json"

	"github.com/matzehuels/blueprint/pkg/graph"
)

// PlacedCard is a card with its column and final pre-scale position.
type PlacedCard struct {
	graph.Card
	Level int     `json:"level"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Result is a complete diagram layout, ready for a renderer.
// Coordinates are pre-scale; renderers apply Scale as a transform anchored
// at the top-left corner.
type Result struct {
	Cards        []PlacedCard `json:"cards"`
	Positions    Positions    `json:"positions"`
	Curves       []Curve      `json:"curves"`
	Ports        Ports        `json:"ports"`
	CanvasWidth  float64      `json:"canvas_width"`
	CanvasHeight float64      `json:"canvas_height"`
	Scale        float64      `json:"scale"`
	MarginBottom float64      `json:"margin_bottom"`
	Config       Config       `json:"config"`
	// Fallback is set when the input graph had no usable nodes and the
	// provider's graph was laid out instead.
	Fallback bool         `json:"fallback,omitempty"`
	Report   graph.Report `json:"report"`
}

// Card returns the placed card with the given id.
func (r Result) Card(id string) (PlacedCard, bool) {
	for _, c := range r.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return PlacedCard{}, false
}

// ScaledWidth returns the on-screen width of the canvas.
func (r Result) ScaledWidth() float64 { return r.CanvasWidth * r.Scale }

// ScaledHeight returns the on-screen height of the canvas.
func (r Result) ScaledHeight() float64 { return r.CanvasHeight * r.Scale }

// Option configures [Build].
type Option func(*builder)

type builder struct {
	provider graph.Provider
}

// WithFallback sets the provider used when the graph has no usable nodes.
// The default is [graph.DefaultProvider].
func WithFallback(p graph.Provider) Option {
	return func(b *builder) { b.provider = p }
}

// Build lays out g for a container availableWidth pixels wide (non-positive
// means unconstrained). It is a pure function of its arguments: the same
// input always produces the same Result, and g is never modified.
func Build(g graph.Graph, cfg Config, availableWidth float64, opts ...Option) Result {
	b := builder{provider: graph.DefaultProvider}
	for _, opt := range opts {
		opt(&b)
	}
	cfg = cfg.WithDefaults()

	src, fallback := graph.OrDefault(g, b.provider)
	d, rep := graph.Ingest(src)

	lv := AssignLevels(d.Cards, d.Edges)
	fit := FitToWidth(ComputePositions(lv, cfg), cfg, availableWidth)
	ports := AllocatePorts(d.Edges, cfg)
	curves := RouteEdges(d.Edges, fit.Positions, ports, cfg)

	cards := make([]PlacedCard, 0, len(d.Cards))
	for _, c := range d.Cards {
		p := fit.Positions[c.ID]
		cards = append(cards, PlacedCard{Card: c, Level: lv.ByID[c.ID], X: p.X, Y: p.Y})
	}

	return Result{
		Cards:        cards,
		Positions:    fit.Positions,
		Curves:       curves,
		Ports:        ports,
		CanvasWidth:  fit.CanvasWidth,
		CanvasHeight: fit.CanvasHeight,
		Scale:        fit.Scale,
		MarginBottom: fit.MarginBottom,
		Config:       cfg,
		Fallback:     fallback,
		Report:       rep,
	}
}

// Refit rescales an existing layout for a new container width without
// recomputing levels, positions or curves.
func (r Result) Refit(availableWidth float64) Result {
	r.Scale = 1
	r.MarginBottom = 0
	if availableWidth > 0 {
		r.Scale = ScaleFor(r.CanvasWidth, availableWidth, r.Config.WithDefaults().ScaleFloor)
	}
	if r.Scale < 1 {
		r.MarginBottom = r.CanvasHeight * (r.Scale - 1)
	}
	return r
}

// Marshal encodes a layout as indented JSON.
func Marshal(r Result) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Unmarshal decodes a layout produced by [Marshal].
func Unmarshal(data []byte) (Result, error) {
	var r Result
	err := json.Unmarshal(data, &r)
	return r, err
}
