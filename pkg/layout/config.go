package layout

// Default geometry, in pre-scale pixels.
const (
	DefaultCardWidth       = 200.0
	DefaultCardHeight      = 80.0
	DefaultHorizontalGap   = 100.0
	DefaultVerticalGap     = 40.0
	DefaultPadding         = 40.0
	DefaultReferenceHeight = 500.0
	DefaultScaleFloor      = 0.3
)

// Curve shaping.
const (
	minCurveOffset = 60.0
	curveFactor    = 0.4
	jitterStep     = 5.0
)

// Config holds the geometry of a layout. Zero (or negative) fields take
// their defaults, so a partially filled Config is always usable. This holds
// for the gaps too: an explicit zero gap is not representable, use a small
// positive value such as 0.5 to pack cards edge to edge.
type Config struct {
	CardWidth       float64 `json:"card_width,omitempty" toml:"card_width" validate:"gte=0"`
	CardHeight      float64 `json:"card_height,omitempty" toml:"card_height" validate:"gte=0"`
	HorizontalGap   float64 `json:"horizontal_gap,omitempty" toml:"horizontal_gap" validate:"gte=0"`
	VerticalGap     float64 `json:"vertical_gap,omitempty" toml:"vertical_gap" validate:"gte=0"`
	Padding         float64 `json:"padding,omitempty" toml:"padding" validate:"gte=0"`
	ReferenceHeight float64 `json:"reference_height,omitempty" toml:"reference_height" validate:"gte=0"`
	ScaleFloor      float64 `json:"scale_floor,omitempty" toml:"scale_floor" validate:"gte=0,lte=1"`
}

// DefaultConfig returns the standard card geometry.
func DefaultConfig() Config {
	return Config{
		CardWidth:       DefaultCardWidth,
		CardHeight:      DefaultCardHeight,
		HorizontalGap:   DefaultHorizontalGap,
		VerticalGap:     DefaultVerticalGap,
		Padding:         DefaultPadding,
		ReferenceHeight: DefaultReferenceHeight,
		ScaleFloor:      DefaultScaleFloor,
	}
}

// WithDefaults returns a copy of c with every field <= 0 set to its
// default. It is idempotent.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	setDefault(&c.CardWidth, d.CardWidth)
	setDefault(&c.CardHeight, d.CardHeight)
	setDefault(&c.HorizontalGap, d.HorizontalGap)
	setDefault(&c.VerticalGap, d.VerticalGap)
	setDefault(&c.Padding, d.Padding)
	setDefault(&c.ReferenceHeight, d.ReferenceHeight)
	setDefault(&c.ScaleFloor, d.ScaleFloor)
	return c
}

func setDefault(v *float64, def float64) {
	if *v <= 0 {
		*v = def
	}
}

// columnStep is the distance between the left edges of adjacent columns.
func (c Config) columnStep() float64 { return c.CardWidth + c.HorizontalGap }

// rowStep is the distance between the top edges of adjacent rows.
func (c Config) rowStep() float64 { return c.CardHeight + c.VerticalGap }
