package document

import (
	"encoding/json"

	"github.com/matzehuels/albumstack/pkg/album"
)

// Patch is a partial block update. Nil fields are left unchanged. A non-nil
// empty AssetIDs or Spans clears the list; nil entries in Spans are holes.
// The block id cannot be patched.
type Patch struct {
	Type          *album.Type   `json:"type,omitempty" yaml:"type,omitempty"`
	Aspect        *float64      `json:"aspect,omitempty" yaml:"aspect,omitempty"`
	Spacing       *SpacingPatch `json:"spacing,omitempty" yaml:"spacing,omitempty"`
	Radius        *int          `json:"radius,omitempty" yaml:"radius,omitempty"`
	AssetIDs      []string      `json:"assetIds,omitempty" yaml:"assetIds,omitempty"`
	ColumnWeights *[2]float64   `json:"columnWeights,omitempty" yaml:"columnWeights,omitempty"`
	Columns       *int          `json:"columns,omitempty" yaml:"columns,omitempty"`
	Spans         []*album.Span `json:"spans,omitempty" yaml:"spans,omitempty"`
}

// SpacingPatch updates individual spacing fields.
type SpacingPatch struct {
	GapX *int `json:"gapX,omitempty" yaml:"gapX,omitempty"`
	GapY *int `json:"gapY,omitempty" yaml:"gapY,omitempty"`
	PadX *int `json:"padX,omitempty" yaml:"padX,omitempty"`
	PadY *int `json:"padY,omitempty" yaml:"padY,omitempty"`
}

// UnmarshalJSON decodes a patch. Spans are checked like imported spans, so
// {"cols":0} is a range error here too rather than an unset value.
func (p *Patch) UnmarshalJSON(data []byte) error {
	type plain Patch
	var aux struct {
		plain
		Spans json.RawMessage `json:"spans"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	spans, err := album.DecodeSpans(-1, aux.Spans)
	if err != nil {
		return err
	}
	*p = Patch(aux.plain)
	p.Spans = spans
	return nil
}

// IsEmpty reports whether p changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Type == nil && p.Aspect == nil && p.Spacing == nil && p.Radius == nil &&
		p.AssetIDs == nil && p.ColumnWeights == nil && p.Columns == nil && p.Spans == nil
}

// Apply merges p into b and validates the result as block index.
func (p Patch) Apply(b album.Block, index int) (album.Block, error) {
	rec := b.Record()
	if p.Type != nil {
		rec.Type = *p.Type
	}
	if p.Aspect != nil {
		rec.Aspect = p.Aspect
	}
	if p.Spacing != nil {
		sp := *rec.Spacing
		for _, f := range []struct {
			src *int
			dst *int
		}{
			{p.Spacing.GapX, &sp.GapX},
			{p.Spacing.GapY, &sp.GapY},
			{p.Spacing.PadX, &sp.PadX},
			{p.Spacing.PadY, &sp.PadY},
		} {
			if f.src != nil {
				*f.dst = *f.src
			}
		}
		rec.Spacing = &sp
	}
	if p.Radius != nil {
		rec.Radius = p.Radius
	}
	if p.AssetIDs != nil {
		rec.AssetIDs = append([]string{}, p.AssetIDs...)
	}
	if p.ColumnWeights != nil {
		rec.ColumnWeights = p.ColumnWeights
	}
	if p.Columns != nil {
		rec.Columns = p.Columns
	}
	if p.Spans != nil {
		rec.Spans = p.Spans
	}
	return album.FromRecord(index, rec)
}
