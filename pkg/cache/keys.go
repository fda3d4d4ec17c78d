package cache

import "strings"

// Keyer produces cache keys. Implementations must be deterministic: equal
// inputs give equal keys across processes.
type Keyer interface {
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
	BlueprintKey(idea, mode string) string
}

// LayoutKeyOpts holds every input of a layout besides the graph itself.
type LayoutKeyOpts struct {
	CardWidth       float64 `json:"cw"`
	CardHeight      float64 `json:"ch"`
	HorizontalGap   float64 `json:"hg"`
	VerticalGap     float64 `json:"vg"`
	Padding         float64 `json:"p"`
	ReferenceHeight float64 `json:"rh"`
	ScaleFloor      float64 `json:"sf"`
	AvailableWidth  float64 `json:"w"`
	Diagram         string  `json:"d,omitempty"`
}

// ArtifactKeyOpts holds every render option that changes the output bytes.
type ArtifactKeyOpts struct {
	Format      string `json:"f"`
	Style       string `json:"s,omitempty"`
	NaturalSize bool   `json:"n,omitempty"`
	Interactive bool   `json:"i,omitempty"`
	Engine      string `json:"e,omitempty"`
	Title       string `json:"t,omitempty"`
}

// DefaultKeyer hashes key options so keys have a bounded length.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, layoutHash, opts)
}

// BlueprintKey returns "blueprint:<hash>". The idea is compared after
// lowercasing and whitespace collapsing.
func (DefaultKeyer) BlueprintKey(idea, mode string) string {
	return hashKey("blueprint", strings.ToLower(strings.Join(strings.Fields(idea), " ")), mode)
}

var _ Keyer = DefaultKeyer{}
