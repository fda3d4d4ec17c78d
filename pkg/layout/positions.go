package layout

import "math"

// Position is the top-left corner of a card, in pre-scale pixels.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Positions maps card ids to their top-left corners.
type Positions map[string]Position

// ComputePositions places each column of lv at a fixed x and stacks its
// cards top to bottom. Each column is vertically centered against
// cfg.ReferenceHeight but never starts above cfg.Padding.
func ComputePositions(lv Levels, cfg Config) Positions {
	cfg = cfg.WithDefaults()
	pos := make(Positions, len(lv.Order))

	for level, col := range lv.Columns() {
		n := float64(len(col))
		if n == 0 {
			continue
		}
		x := cfg.Padding + float64(level)*cfg.columnStep()
		total := n*cfg.CardHeight + (n-1)*cfg.VerticalGap
		startY := math.Max(cfg.Padding, (cfg.ReferenceHeight-total)/2)
		for i, id := range col {
			pos[id] = Position{X: x, Y: startY + float64(i)*cfg.rowStep()}
		}
	}

	pos.clampTo(cfg.Padding)
	return pos
}

// Bounds returns the smallest rectangle enclosing every card.
// An empty set yields all zeros.
func (p Positions) Bounds(cardWidth, cardHeight float64) (minX, minY, maxX, maxY float64) {
	if len(p) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, q := range p {
		minX = math.Min(minX, q.X)
		minY = math.Min(minY, q.Y)
		maxX = math.Max(maxX, q.X+cardWidth)
		maxY = math.Max(maxY, q.Y+cardHeight)
	}
	return minX, minY, maxX, maxY
}

// Clone returns an independent copy.
func (p Positions) Clone() Positions {
	out := make(Positions, len(p))
	for id, q := range p {
		out[id] = q
	}
	return out
}

// clampTo translates every position so that neither axis has a card
// closer to the origin than padding. Axes already clear of it are left alone.
func (p Positions) clampTo(padding float64) {
	if len(p) == 0 {
		return
	}
	minX, minY, _, _ := p.Bounds(0, 0)
	dx := math.Max(0, padding-minX)
	dy := math.Max(0, padding-minY)
	if dx == 0 && dy == 0 {
		return
	}
	for id, q := range p {
		p[id] = Position{X: q.X + dx, Y: q.Y + dy}
	}
}
