package album

// Type is the variant tag of a block as it appears in the interchange format.
type Type string

// Block variant tags.
const (
	TypeSingle Type = "single"
	TypeSplit  Type = "split"
	TypeGrid   Type = "grid"
)

// Types lists every block variant in presentation order.
var Types = []Type{TypeSingle, TypeSplit, TypeGrid}

// ParseType converts a tag string to a Type.
func ParseType(s string) (Type, bool) {
	switch t := Type(s); t {
	case TypeSingle, TypeSplit, TypeGrid:
		return t, true
	}
	return "", false
}

// Field bounds shared by validation, the CLI and the HTTP API.
const (
	MinAspect = 0.2
	MaxAspect = 2.0

	MinSpacing     = 0
	MaxSpacing     = 24
	DefaultSpacing = 8

	MinWeight = 1.0
	MaxWeight = 12.0

	MinColumns     = 2
	MaxColumns     = 4
	DefaultColumns = 2

	MinRadius     = 0
	MaxRadius     = 48
	DefaultRadius = 16
)

// DefaultAspect returns the aspect a new block of type t starts with.
func DefaultAspect(t Type) float64 {
	if t == TypeSplit {
		return 0.6
	}
	return 1.0
}

// Spacing holds the gaps between slots and the padding around them, in pixels.
type Spacing struct {
	GapX int `json:"gapX" bson:"gap_x" yaml:"gapX"`
	GapY int `json:"gapY" bson:"gap_y" yaml:"gapY"`
	PadX int `json:"padX" bson:"pad_x" yaml:"padX"`
	PadY int `json:"padY" bson:"pad_y" yaml:"padY"`
}

// DefaultSpacingValue returns the spacing used when none is specified.
func DefaultSpacingValue() Spacing {
	return Spacing{GapX: DefaultSpacing, GapY: DefaultSpacing, PadX: DefaultSpacing, PadY: DefaultSpacing}
}

// Span is the number of grid columns and rows one slot occupies.
// A zero field means "unset" and normalizes to 1.
type Span struct {
	Cols int `json:"cols,omitempty" bson:"cols" yaml:"cols,omitempty"`
	Rows int `json:"rows,omitempty" bson:"rows" yaml:"rows,omitempty"`
}

// DefaultSpan is the span of a slot with no explicit span.
var DefaultSpan = Span{Cols: 1, Rows: 1}

// Variant is the sealed set of block layouts. Only [Single], [Split] and
// [Grid] implement it.
type Variant interface {
	Type() Type
	isVariant()
}

// Single renders the first asset across the whole block.
type Single struct{}

// Split renders the first two assets side by side.
type Split struct {
	ColumnWeights [2]float64
}

// Grid renders assets into an auto-flowing grid of square cells.
type Grid struct {
	Columns int
	Spans   []Span
}

func (Single) Type() Type { return TypeSingle }
func (Split) Type() Type  { return TypeSplit }
func (Grid) Type() Type   { return TypeGrid }

func (Single) isVariant() {}
func (Split) isVariant()  {}
func (Grid) isVariant()   {}

// SpanAt returns the normalized span of slot i, or [DefaultSpan] past the
// end of the span list.
func (g Grid) SpanAt(i int) Span {
	if i >= 0 && i < len(g.Spans) {
		return g.Spans[i]
	}
	return DefaultSpan
}

// Block is one full-width layout row of an album page.
type Block struct {
	ID       string
	Aspect   float64
	Spacing  Spacing
	AssetIDs []string
	Radius   int
	Variant  Variant
}

// New returns a block of type t with the editor defaults and no assets.
func New(id string, t Type) Block {
	b := Block{
		ID:       id,
		Aspect:   DefaultAspect(t),
		Spacing:  DefaultSpacingValue(),
		AssetIDs: []string{},
		Radius:   DefaultRadius,
	}
	switch t {
	case TypeSplit:
		b.Variant = Split{ColumnWeights: [2]float64{1, 1}}
	case TypeGrid:
		b.Variant = Grid{Columns: DefaultColumns}
	default:
		b.Variant = Single{}
	}
	return b
}

// Type returns the variant tag of the block.
func (b Block) Type() Type {
	if b.Variant == nil {
		return ""
	}
	return b.Variant.Type()
}

// Clone returns a deep copy of b that shares no slices with it.
func (b Block) Clone() Block {
	out := b
	out.AssetIDs = append(make([]string, 0, len(b.AssetIDs)), b.AssetIDs...)
	if g, ok := b.Variant.(Grid); ok && g.Spans != nil {
		g.Spans = append(make([]Span, 0, len(g.Spans)), g.Spans...)
		out.Variant = g
	}
	return out
}

// Normalize applies the span normalization pass and guarantees a non-nil
// asset list. Every mutation that touches asset ids, spans or the column
// count must call it.
func (b *Block) Normalize() {
	if b.AssetIDs == nil {
		b.AssetIDs = []string{}
	}
	if g, ok := b.Variant.(Grid); ok {
		g.Spans = NormalizeSpans(b.AssetIDs, g.Spans, g.Columns)
		b.Variant = g
	}
}

// SlotCount returns the number of slots placement emits for b: exactly one
// for single, exactly two for split, and one per asset id for grid.
func (b Block) SlotCount() int {
	switch b.Variant.(type) {
	case Single:
		return 1
	case Split:
		return 2
	case Grid:
		return len(b.AssetIDs)
	}
	return 0
}

// SlotAsset returns the asset id rendered in slot i, or "" for an empty slot.
func (b Block) SlotAsset(i int) string {
	if i < 0 || i >= len(b.AssetIDs) || i >= b.SlotCount() {
		return ""
	}
	return b.AssetIDs[i]
}
