package cache

// Keyer builds cache keys for pipeline outputs.
type Keyer interface {
	// LayoutKey returns the key of a placed page for a document hash.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key of one rendered format for a layout hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the placement options that change a layout.
type LayoutKeyOpts struct {
	Width       float64 `json:"width"`
	BlockGap    float64 `json:"block_gap"`
	Padding     float64 `json:"padding"`
	TitleHeight float64 `json:"title_height"`
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Theme      string  `json:"theme,omitempty"`
	ShowLabels bool    `json:"show_labels,omitempty"`
	NoImages   bool    `json:"no_images,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
}

// DefaultKeyer generates unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
