package layout

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/blueprint/pkg/graph"
)

// Curve is a cubic Bezier arrow from the right edge of one card to the left
// edge of another.
type Curve struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Edge int     `json:"edge"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	C1X  float64 `json:"c1x"`
	C1Y  float64 `json:"c1y"`
	C2X  float64 `json:"c2x"`
	C2Y  float64 `json:"c2y"`
	X2   float64 `json:"x2"`
	Y2   float64 `json:"y2"`
}

// Path returns the curve as SVG path data: "M x1 y1 C c1x c1y c2x c2y x2 y2".
func (c Curve) Path() string {
	var b strings.Builder
	b.WriteString("M ")
	writeCoords(&b, c.X1, c.Y1)
	b.WriteString(" C ")
	writeCoords(&b, c.C1X, c.C1Y, c.C2X, c.C2Y, c.X2, c.Y2)
	return b.String()
}

func writeCoords(b *strings.Builder, vs ...float64) {
	for i, v := range vs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
}

// Scaled returns the curve with every coordinate multiplied by s.
func (c Curve) Scaled(s float64) Curve {
	c.X1, c.Y1 = c.X1*s, c.Y1*s
	c.C1X, c.C1Y = c.C1X*s, c.C1Y*s
	c.C2X, c.C2Y = c.C2X*s, c.C2Y*s
	c.X2, c.Y2 = c.X2*s, c.Y2*s
	return c
}

// RouteEdges draws one curve per edge whose endpoints both have positions.
// The control points sit max(60, 0.4*|dx|) inside the endpoints and are
// shifted by -5, 0 or +5 pixels depending on the edge index so that
// near-parallel curves stay apart. An endpoint without a port anchors at
// the card's vertical midpoint.
func RouteEdges(edges []graph.Edge, pos Positions, ports Ports, cfg Config) []Curve {
	cfg = cfg.WithDefaults()
	curves := make([]Curve, 0, len(edges))
	for idx, e := range edges {
		src, ok := pos[e.From]
		if !ok {
			continue
		}
		dst, ok := pos[e.To]
		if !ok {
			continue
		}

		x1 := src.X + cfg.CardWidth
		y1 := src.Y + cfg.CardHeight/2
		if off, ok := ports.OutgoingOffset(e.From, idx); ok {
			y1 = src.Y + off
		}
		x2 := dst.X
		y2 := dst.Y + cfg.CardHeight/2
		if off, ok := ports.IncomingOffset(e.To, idx); ok {
			y2 = dst.Y + off
		}

		offset := math.Max(minCurveOffset, math.Abs(x2-x1)*curveFactor)
		jitter := Jitter(idx)
		curves = append(curves, Curve{
			From: e.From, To: e.To, Edge: idx,
			X1: x1, Y1: y1,
			C1X: x1 + offset, C1Y: y1 + jitter,
			C2X: x2 - offset, C2Y: y2 + jitter,
			X2: x2, Y2: y2,
		})
	}
	return curves
}

// Jitter returns the vertical control-point shift for the edge at idx,
// cycling through -5, 0 and +5.
func Jitter(idx int) float64 {
	return float64(idx%3-1) * jitterStep
}
