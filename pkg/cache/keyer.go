package cache

// Keyer derives cache keys for the artifacts the pipeline produces.
// All keys are content-addressed: the graph hash plus every option
// that can change the output goes into the key.
type Keyer interface {
	// LayoutKey identifies a computed layout (full or incremental).
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ConnectionsKey identifies the derived edge set of a graph.
	ConnectionsKey(graphHash string) string

	// TransitionKey identifies a diff between two layouts.
	TransitionKey(fromHash, toHash string, threshold float64) string

	// ArtifactKey identifies a rendered export of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts captures every option that affects layout output.
// The fields mirror layout.Config plus the run mode and the highlight
// pair baked into the document's connections; any change to one of
// them must produce a different key.
type LayoutKeyOpts struct {
	Root            string         `json:"root"`
	MaxDegree       int            `json:"max_degree"`
	Degrees         map[string]int `json:"degrees,omitempty"` // external oracle values; maps hash deterministically
	BaseSpacing     float64        `json:"base_spacing"`
	SpouseSpacing   float64        `json:"spouse_spacing"`
	VerticalSpacing float64        `json:"vertical_spacing"`
	MinSpacing      float64        `json:"min_spacing"`
	ExpansionFactor float64        `json:"expansion_factor"`
	Incremental     bool           `json:"incremental"`
	HighlightFrom   string         `json:"highlight_from,omitempty"`
	HighlightTo     string         `json:"highlight_to,omitempty"`
}

// ArtifactKeyOpts captures the options that affect a rendered export.
type ArtifactKeyOpts struct {
	Format   string `json:"format"` // "dot", "svg", "png", "json"
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer is the standard key derivation: a prefix per artifact
// kind plus a SHA-256 over the identifying parts.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ConnectionsKey generates a key for derived-connection caching.
func (k *DefaultKeyer) ConnectionsKey(graphHash string) string {
	return hashKey("conn", graphHash)
}

// TransitionKey generates a key for transition caching.
func (k *DefaultKeyer) TransitionKey(fromHash, toHash string, threshold float64) string {
	return hashKey("transition", fromHash, toHash, threshold)
}

// ArtifactKey generates a key for rendered-export caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
