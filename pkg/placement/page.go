package placement

import (
	"github.com/matzehuels/albumstack/pkg/album"
	"github.com/matzehuels/albumstack/pkg/document"
	apperr "github.com/matzehuels/albumstack/pkg/errors"
	"github.com/matzehuels/albumstack/pkg/geom"
)

// Page layout defaults.
const (
	DefaultWidth       = 420.0
	DefaultBlockGap    = 12.0
	DefaultPadding     = 12.0
	DefaultTitleHeight = 40.0
)

// Options controls how blocks are stacked on a page.
type Options struct {
	Width       float64 // Page width including padding
	BlockGap    float64 // Vertical gap between blocks
	Padding     float64 // Page padding on all sides
	TitleHeight float64 // Height of the title band; unused when the title is empty
}

// DefaultOptions returns the layout used by the editor preview.
func DefaultOptions() Options {
	return Options{
		Width:       DefaultWidth,
		BlockGap:    DefaultBlockGap,
		Padding:     DefaultPadding,
		TitleHeight: DefaultTitleHeight,
	}
}

// Slot is one entry of the render list.
type Slot struct {
	Index   int          `json:"index"`
	Rect    geom.Rect    `json:"rect"`
	Cell    *Cell        `json:"cell,omitempty"`
	AssetID string       `json:"assetId,omitempty"`
	Asset   *album.Asset `json:"asset,omitempty"`
	Empty   bool         `json:"empty"`
}

// BlockLayout is one placed block in page coordinates.
type BlockLayout struct {
	ID     string     `json:"id"`
	Index  int        `json:"index"`
	Type   album.Type `json:"type"`
	Rect   geom.Rect  `json:"rect"`
	Radius int        `json:"radius"`
	Aspect float64    `json:"aspect"`
	Slots  []Slot     `json:"slots"`
}

// PageLayout is a fully placed page.
type PageLayout struct {
	Width     float64       `json:"width"`
	Height    float64       `json:"height"`
	Title     string        `json:"title,omitempty"`
	TitleBand geom.Rect     `json:"titleBand"`
	Blocks    []BlockLayout `json:"blocks"`
}

// Slots returns every slot of the page in render order.
func (p PageLayout) Slots() []Slot {
	var out []Slot
	for _, b := range p.Blocks {
		out = append(out, b.Slots...)
	}
	return out
}

// EmptySlots counts the slots rendered as placeholders.
func (p PageLayout) EmptySlots() int {
	n := 0
	for _, b := range p.Blocks {
		for _, s := range b.Slots {
			if s.Empty {
				n++
			}
		}
	}
	return n
}

// PlacePage stacks every block of doc vertically and resolves each slot
// against the asset registry. A slot whose asset id is missing from the
// registry, or that has no asset id at all, is an empty slot; it is never an
// error.
func PlacePage(doc *document.Document, opts Options) (PageLayout, error) {
	if opts.Width <= 0 {
		return PageLayout{}, apperr.New(apperr.ErrCodeInvalidInput, "page width must be positive, got %v", opts.Width)
	}
	blockWidth := opts.Width - 2*opts.Padding
	if blockWidth <= 0 {
		return PageLayout{}, apperr.New(apperr.ErrCodeInvalidInput, "page width %v leaves no room inside padding %v", opts.Width, opts.Padding)
	}

	page := PageLayout{Width: opts.Width, Title: doc.Title, Blocks: make([]BlockLayout, 0, len(doc.Blocks))}
	y := opts.Padding
	if doc.Title != "" && opts.TitleHeight > 0 {
		page.TitleBand = geom.Rect{X: opts.Padding, Y: y, Width: blockWidth, Height: opts.TitleHeight}
		y += opts.TitleHeight + opts.BlockGap
	}

	for i, b := range doc.Blocks {
		rects, err := Place(b, blockWidth)
		if err != nil {
			return PageLayout{}, apperr.Wrap(apperr.GetCode(err), err, "place block %q", b.ID)
		}
		bl := BlockLayout{
			ID:     b.ID,
			Index:  i,
			Type:   b.Type(),
			Rect:   geom.Rect{X: opts.Padding, Y: y, Width: blockWidth, Height: Height(b, blockWidth)},
			Radius: b.Radius,
			Aspect: b.Aspect,
			Slots:  make([]Slot, len(rects)),
		}
		cells := Cells(b)
		for k, r := range rects {
			s := Slot{Index: k, Rect: r.Translate(bl.Rect.X, bl.Rect.Y)}
			if cells != nil {
				c := cells[k]
				s.Cell = &c
			}
			s.AssetID = b.SlotAsset(k)
			if a, ok := doc.Assets[s.AssetID]; ok && s.AssetID != "" {
				s.Asset = &a
			} else {
				s.Empty = true
			}
			bl.Slots[k] = s
		}
		page.Blocks = append(page.Blocks, bl)
		y = bl.Rect.Bottom() + opts.BlockGap
	}

	if len(doc.Blocks) > 0 || page.TitleBand.Height > 0 {
		y -= opts.BlockGap
	}
	page.Height = y + opts.Padding
	return page, nil
}
