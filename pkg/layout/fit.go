package layout

import "math"

// Fit is the result of normalizing a set of positions and scaling them to
// an available width.
type Fit struct {
	Positions    Positions
	CanvasWidth  float64
	CanvasHeight float64
	// Scale is in [ScaleFloor, 1]. Diagrams are never enlarged.
	Scale float64
	// MarginBottom is canvasHeight*(scale-1) when scale < 1, else 0.
	// Applying it as a bottom margin removes the empty space a scaled-down
	// canvas would otherwise leave below itself.
	MarginBottom float64
}

// FitToWidth translates positions so the tightest card bound sits at
// cfg.Padding, sizes the canvas to the cards plus padding, and picks the
// scale that makes the canvas fit availableWidth. A non-positive
// availableWidth means unconstrained. The input is not modified.
func FitToWidth(pos Positions, cfg Config, availableWidth float64) Fit {
	cfg = cfg.WithDefaults()
	out := pos.Clone()
	out.clampTo(cfg.Padding)

	f := Fit{Positions: out, Scale: 1}
	if len(out) == 0 {
		f.CanvasWidth = 2 * cfg.Padding
		f.CanvasHeight = 2 * cfg.Padding
	} else {
		_, _, maxX, maxY := out.Bounds(cfg.CardWidth, cfg.CardHeight)
		f.CanvasWidth = maxX + cfg.Padding
		f.CanvasHeight = maxY + cfg.Padding
	}

	if availableWidth > 0 {
		f.Scale = ScaleFor(f.CanvasWidth, availableWidth, cfg.ScaleFloor)
	}
	if f.Scale < 1 {
		f.MarginBottom = f.CanvasHeight * (f.Scale - 1)
	}
	return f
}

// ScaleFor returns the factor that shrinks canvasWidth to availableWidth,
// clamped to [floor, 1]. It returns 1 when the canvas already fits.
func ScaleFor(canvasWidth, availableWidth, floor float64) float64 {
	if canvasWidth <= availableWidth || canvasWidth <= 0 {
		return 1
	}
	if floor <= 0 {
		floor = DefaultScaleFloor
	}
	return math.Min(1, math.Max(floor, availableWidth/canvasWidth))
}
