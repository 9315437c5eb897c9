package album

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/multierr"

	apperr "github.com/matzehuels/albumstack/pkg/errors"
)

// BlockRecord is the wire and storage shape of a block. Optional fields are
// pointers so that "absent" can be told apart from a zero value; nil entries
// in Spans are holes.
type BlockRecord struct {
	ID            string      `json:"id" bson:"id" yaml:"id"`
	Type          Type        `json:"type" bson:"type" yaml:"type"`
	Aspect        *float64    `json:"aspect,omitempty" bson:"aspect,omitempty" yaml:"aspect,omitempty"`
	Spacing       *Spacing    `json:"spacing,omitempty" bson:"spacing,omitempty" yaml:"spacing,omitempty"`
	AssetIDs      []string    `json:"assetIds" bson:"asset_ids" yaml:"assetIds"`
	Radius        *int        `json:"radius,omitempty" bson:"radius,omitempty" yaml:"radius,omitempty"`
	ColumnWeights *[2]float64 `json:"columnWeights,omitempty" bson:"column_weights,omitempty" yaml:"columnWeights,omitempty"`
	Columns       *int        `json:"columns,omitempty" bson:"columns,omitempty" yaml:"columns,omitempty"`
	Spans         []*Span     `json:"spans,omitempty" bson:"spans,omitempty" yaml:"spans,omitempty"`
}

// Record returns the fully populated record of b. Spans are the normalized
// sequence, so the record has no holes.
func (b Block) Record() BlockRecord {
	aspect, radius, spacing := b.Aspect, b.Radius, b.Spacing
	rec := BlockRecord{
		ID:       b.ID,
		Type:     b.Type(),
		Aspect:   &aspect,
		Spacing:  &spacing,
		AssetIDs: append(make([]string, 0, len(b.AssetIDs)), b.AssetIDs...),
		Radius:   &radius,
	}
	switch v := b.Variant.(type) {
	case Split:
		w := v.ColumnWeights
		rec.ColumnWeights = &w
	case Grid:
		cols := v.Columns
		rec.Columns = &cols
		for _, s := range v.Spans {
			rec.Spans = append(rec.Spans, &s)
		}
	}
	return rec
}

// MarshalJSON encodes b in the interchange format.
func (b Block) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Record())
}

// UnmarshalJSON decodes and validates a single block.
func (b *Block) UnmarshalJSON(data []byte) error {
	v, err := ValidateBlock(-1, data)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// DecodeBlocks validates a JSON array of blocks. It returns the first failure
// only; the list is accepted whole or not at all. Block ids must be unique.
func DecodeBlocks(data []byte) ([]Block, error) {
	items, err := splitArray(data)
	if err != nil {
		return nil, err
	}
	blocks := make([]Block, 0, len(items))
	seen := make(map[string]int, len(items))
	for i, raw := range items {
		b, err := ValidateBlock(i, raw)
		if err != nil {
			return nil, err
		}
		if first, dup := seen[b.ID]; dup {
			return nil, duplicateID(i, b.ID, first)
		}
		seen[b.ID] = i
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// ValidateAll validates every element of a JSON block array and combines all
// failures into one error. Use [multierr.Errors] to list them.
func ValidateAll(data []byte) error {
	items, err := splitArray(data)
	if err != nil {
		return err
	}
	var errs error
	seen := make(map[string]int, len(items))
	for i, raw := range items {
		b, err := ValidateBlock(i, raw)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if first, dup := seen[b.ID]; dup {
			errs = multierr.Append(errs, duplicateID(i, b.ID, first))
			continue
		}
		seen[b.ID] = i
	}
	return errs
}

// EncodeBlocks writes blocks as an indented JSON array.
func EncodeBlocks(w io.Writer, blocks []Block) error {
	if blocks == nil {
		blocks = []Block{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(blocks); err != nil {
		return fmt.Errorf("encode blocks: %w", err)
	}
	return nil
}

// Records converts blocks to their wire records.
func Records(blocks []Block) []BlockRecord {
	out := make([]BlockRecord, len(blocks))
	for i, b := range blocks {
		out[i] = b.Record()
	}
	return out
}

// FromRecords validates a list of typed records with the same rules as
// [DecodeBlocks].
func FromRecords(recs []BlockRecord) ([]Block, error) {
	blocks := make([]Block, 0, len(recs))
	seen := make(map[string]int, len(recs))
	for i, rec := range recs {
		b, err := FromRecord(i, rec)
		if err != nil {
			return nil, err
		}
		if first, dup := seen[b.ID]; dup {
			return nil, duplicateID(i, b.ID, first)
		}
		seen[b.ID] = i
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func splitArray(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, apperr.Structural(-1, "blocks", "top-level value must be a JSON array")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, apperr.Structural(-1, "blocks", "malformed JSON: %v", err)
	}
	return items, nil
}

func duplicateID(index int, id string, first int) error {
	return apperr.Structural(index, "id", "duplicate block id %q (first used by block %d)", id, first)
}
