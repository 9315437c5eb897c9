package album

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	apperr "github.com/matzehuels/albumstack/pkg/errors"
)

// ValidateBlock decodes one raw block object and returns it normalized.
//
// Structural checks run first: the value must be an object carrying a
// non-empty string id, a known type tag and an assetIds array of non-empty
// strings, and every optional field present must have the right shape.
// Semantic checks follow (see [FromRecord]). The first violation is returned
// as an [apperr.ValidationError] naming index and field; a block is never
// partially accepted.
//
// Optional fields that are absent or null take the editor defaults. Fields
// that belong to another variant (columns on a split block, say) are ignored.
func ValidateBlock(index int, raw json.RawMessage) (Block, error) {
	rec, err := decodeRecord(index, raw)
	if err != nil {
		return Block{}, err
	}
	return FromRecord(index, rec)
}

// FromRecord runs the semantic checks on a typed record and converts it to a
// normalized block. Nil optional fields take the editor defaults; zero span
// fields mean unset.
func FromRecord(index int, rec BlockRecord) (Block, error) {
	if rec.ID == "" {
		return Block{}, apperr.Structural(index, "id", "required")
	}
	t, ok := ParseType(string(rec.Type))
	if !ok {
		if rec.Type == "" {
			return Block{}, apperr.Structural(index, "type", "required")
		}
		return Block{}, apperr.Structural(index, "type", "unknown block type %q (must be single, split or grid)", rec.Type)
	}
	for i, id := range rec.AssetIDs {
		if id == "" {
			return Block{}, apperr.Structural(index, fmt.Sprintf("assetIds[%d]", i), "must be a non-empty string")
		}
	}

	b := New(rec.ID, t)
	if len(rec.AssetIDs) > 0 {
		b.AssetIDs = append([]string(nil), rec.AssetIDs...)
	}

	if rec.Aspect != nil {
		b.Aspect = *rec.Aspect
	}
	if !inRange(b.Aspect, MinAspect, MaxAspect) {
		return Block{}, apperr.Range(index, "aspect", "%v outside [%v, %v]", b.Aspect, MinAspect, MaxAspect)
	}

	if rec.Spacing != nil {
		b.Spacing = *rec.Spacing
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"spacing.gapX", b.Spacing.GapX},
		{"spacing.gapY", b.Spacing.GapY},
		{"spacing.padX", b.Spacing.PadX},
		{"spacing.padY", b.Spacing.PadY},
	} {
		if f.v < MinSpacing || f.v > MaxSpacing {
			return Block{}, apperr.Range(index, f.name, "%d outside [%d, %d]", f.v, MinSpacing, MaxSpacing)
		}
	}

	if rec.Radius != nil {
		b.Radius = *rec.Radius
	}
	if b.Radius < MinRadius || b.Radius > MaxRadius {
		return Block{}, apperr.Range(index, "radius", "%d outside [%d, %d]", b.Radius, MinRadius, MaxRadius)
	}

	switch v := b.Variant.(type) {
	case Split:
		if rec.ColumnWeights != nil {
			v.ColumnWeights = *rec.ColumnWeights
		}
		for i, w := range v.ColumnWeights {
			if !inRange(w, MinWeight, MaxWeight) {
				return Block{}, apperr.Range(index, fmt.Sprintf("columnWeights[%d]", i), "%v outside [%v, %v]", w, MinWeight, MaxWeight)
			}
		}
		b.Variant = v
	case Grid:
		if rec.Columns != nil {
			v.Columns = *rec.Columns
		}
		if v.Columns < MinColumns || v.Columns > MaxColumns {
			return Block{}, apperr.Range(index, "columns", "%d outside [%d, %d]", v.Columns, MinColumns, MaxColumns)
		}
		if len(rec.Spans) > 0 {
			v.Spans = make([]Span, len(rec.Spans))
			for i, s := range rec.Spans {
				if s == nil {
					continue
				}
				if s.Cols < 0 {
					return Block{}, apperr.Range(index, fmt.Sprintf("spans[%d].cols", i), "%d is below 1", s.Cols)
				}
				if s.Rows < 0 {
					return Block{}, apperr.Range(index, fmt.Sprintf("spans[%d].rows", i), "%d is below 1", s.Rows)
				}
				v.Spans[i] = *s
			}
		}
		b.Variant = v
	}

	b.Normalize()
	return b, nil
}

// Validate re-runs the semantic checks on an already typed block.
func (b Block) Validate(index int) error {
	_, err := FromRecord(index, b.Record())
	return err
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

// =============================================================================
// Structural decoding
// =============================================================================

// fields is a decoded JSON object. Absent keys and explicit nulls are both
// reported as missing.
type fields struct {
	index int
	obj   map[string]json.RawMessage
}

func (f fields) get(key string) (json.RawMessage, bool) {
	raw, ok := f.obj[key]
	if !ok || isNull(raw) {
		return nil, false
	}
	return raw, true
}

func decodeRecord(index int, raw json.RawMessage) (BlockRecord, error) {
	var rec BlockRecord

	var obj map[string]json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &obj) != nil {
		return rec, apperr.Structural(index, "block", "must be a JSON object")
	}
	f := fields{index: index, obj: obj}

	id, err := f.requiredString("id")
	if err != nil {
		return rec, err
	}
	rec.ID = id

	tag, err := f.requiredString("type")
	if err != nil {
		return rec, err
	}
	t, ok := ParseType(tag)
	if !ok {
		return rec, apperr.Structural(index, "type", "unknown block type %q (must be single, split or grid)", tag)
	}
	rec.Type = t

	if rec.AssetIDs, err = f.assetIDs(); err != nil {
		return rec, err
	}
	if rec.Aspect, err = f.optionalNumber("aspect", "aspect"); err != nil {
		return rec, err
	}
	if rec.Spacing, err = f.spacing(); err != nil {
		return rec, err
	}
	if rec.Radius, err = f.optionalInt("radius", "radius"); err != nil {
		return rec, err
	}

	switch t {
	case TypeSplit:
		if rec.ColumnWeights, err = f.columnWeights(); err != nil {
			return rec, err
		}
	case TypeGrid:
		if rec.Columns, err = f.optionalInt("columns", "columns"); err != nil {
			return rec, err
		}
		if rec.Spans, err = f.spans(); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

func (f fields) requiredString(key string) (string, error) {
	raw, ok := f.get(key)
	if !ok {
		return "", apperr.Structural(f.index, key, "required")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", apperr.Structural(f.index, key, "must be a string")
	}
	if s == "" {
		return "", apperr.Structural(f.index, key, "must not be empty")
	}
	return s, nil
}

func (f fields) assetIDs() ([]string, error) {
	raw, ok := f.get("assetIds")
	if !ok {
		return nil, apperr.Structural(f.index, "assetIds", "required")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, apperr.Structural(f.index, "assetIds", "must be an array of strings")
	}
	ids := make([]string, len(items))
	for i, item := range items {
		if err := json.Unmarshal(item, &ids[i]); err != nil || isNull(item) || ids[i] == "" {
			return nil, apperr.Structural(f.index, fmt.Sprintf("assetIds[%d]", i), "must be a non-empty string")
		}
	}
	return ids, nil
}

func (f fields) optionalNumber(key, path string) (*float64, error) {
	raw, ok := f.get(key)
	if !ok {
		return nil, nil
	}
	v, err := number(f.index, raw, path)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (f fields) optionalInt(key, path string) (*int, error) {
	raw, ok := f.get(key)
	if !ok {
		return nil, nil
	}
	v, err := integer(f.index, raw, path)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (f fields) spacing() (*Spacing, error) {
	raw, ok := f.get("spacing")
	if !ok {
		return nil, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, apperr.Structural(f.index, "spacing", "must be an object")
	}
	sub := fields{index: f.index, obj: obj}
	sp := DefaultSpacingValue()
	for _, dst := range []struct {
		key string
		v   *int
	}{
		{"gapX", &sp.GapX},
		{"gapY", &sp.GapY},
		{"padX", &sp.PadX},
		{"padY", &sp.PadY},
	} {
		v, err := sub.optionalInt(dst.key, "spacing."+dst.key)
		if err != nil {
			return nil, err
		}
		if v != nil {
			*dst.v = *v
		}
	}
	return &sp, nil
}

func (f fields) columnWeights() (*[2]float64, error) {
	raw, ok := f.get("columnWeights")
	if !ok {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) != 2 {
		return nil, apperr.Structural(f.index, "columnWeights", "must be an array of exactly two numbers")
	}
	var w [2]float64
	for i, item := range items {
		v, err := number(f.index, item, fmt.Sprintf("columnWeights[%d]", i))
		if err != nil {
			return nil, err
		}
		w[i] = v
	}
	return &w, nil
}

// DecodeSpans checks a raw JSON span list with the same rules an import
// applies: null entries are holes and an explicit value below 1 is a range
// error. An absent or null list yields nil.
func DecodeSpans(index int, raw json.RawMessage) ([]*Span, error) {
	return fields{index: index, obj: map[string]json.RawMessage{"spans": raw}}.spans()
}

func (f fields) spans() ([]*Span, error) {
	raw, ok := f.get("spans")
	if !ok {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, apperr.Structural(f.index, "spans", "must be an array")
	}
	out := make([]*Span, len(items))
	for i, item := range items {
		if isNull(item) {
			continue
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil {
			return nil, apperr.Structural(f.index, fmt.Sprintf("spans[%d]", i), "must be an object or null")
		}
		sub := fields{index: f.index, obj: obj}
		var s Span
		for _, dst := range []struct {
			key string
			v   *int
		}{
			{"cols", &s.Cols},
			{"rows", &s.Rows},
		} {
			path := fmt.Sprintf("spans[%d].%s", i, dst.key)
			v, err := sub.optionalInt(dst.key, path)
			if err != nil {
				return nil, err
			}
			if v == nil {
				continue
			}
			if *v < 1 {
				return nil, apperr.Range(f.index, path, "%d is below 1", *v)
			}
			*dst.v = *v
		}
		out[i] = &s
	}
	return out, nil
}

func number(index int, raw json.RawMessage, path string) (float64, error) {
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, apperr.Structural(index, path, "must be a number")
	}
	return v, nil
}

func integer(index int, raw json.RawMessage, path string) (int, error) {
	v, err := number(index, raw, path)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, apperr.Structural(index, path, "must be an integer")
	}
	if math.Abs(v) > math.MaxInt32 {
		return 0, apperr.Range(index, path, "%g is out of range", v)
	}
	return int(v), nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
