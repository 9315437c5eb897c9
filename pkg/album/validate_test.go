package album

import (
	"encoding/json"
	"reflect"
	"testing"

	apperr "github.com/matzehuels/albumstack/pkg/errors"
)

func TestValidateBlockAccepts(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		check func(t *testing.T, b Block)
	}{
		{
			name: "MinimalSingle",
			json: `{"id":"b1","type":"single","assetIds":[]}`,
			check: func(t *testing.T, b Block) {
				if b.Aspect != 1.0 || b.Radius != DefaultRadius || b.Spacing != DefaultSpacingValue() {
					t.Errorf("defaults not applied: %+v", b)
				}
			},
		},
		{
			name: "SplitDefaults",
			json: `{"id":"b2","type":"split","assetIds":["a"]}`,
			check: func(t *testing.T, b Block) {
				if b.Aspect != 0.6 {
					t.Errorf("Aspect = %v, want 0.6", b.Aspect)
				}
				if w := b.Variant.(Split).ColumnWeights; w != [2]float64{1, 1} {
					t.Errorf("ColumnWeights = %v", w)
				}
			},
		},
		{
			name: "GridSparseSpans",
			json: `{"id":"b3","type":"grid","columns":2,"assetIds":["a","b","c"],"spans":[null,{},{"cols":2}]}`,
			check: func(t *testing.T, b Block) {
				want := []Span{{1, 1}, {1, 1}, {2, 1}}
				if got := b.Variant.(Grid).Spans; !reflect.DeepEqual(got, want) {
					t.Errorf("Spans = %v, want %v", got, want)
				}
			},
		},
		{
			name: "GridSpanAboveColumnsClamped",
			json: `{"id":"b4","type":"grid","columns":3,"assetIds":["a"],"spans":[{"cols":7,"rows":5}]}`,
			check: func(t *testing.T, b Block) {
				if got := b.Variant.(Grid).Spans[0]; got != (Span{3, 3}) {
					t.Errorf("span = %v, want {3 3}", got)
				}
			},
		},
		{
			name: "PartialSpacing",
			json: `{"id":"b5","type":"single","assetIds":[],"spacing":{"gapX":0,"padY":24}}`,
			check: func(t *testing.T, b Block) {
				want := Spacing{GapX: 0, GapY: 8, PadX: 8, PadY: 24}
				if b.Spacing != want {
					t.Errorf("Spacing = %+v, want %+v", b.Spacing, want)
				}
			},
		},
		{
			name: "ForeignFieldsIgnored",
			json: `{"id":"b6","type":"single","assetIds":["a"],"columns":99,"columnWeights":"x"}`,
			check: func(t *testing.T, b Block) {
				if _, ok := b.Variant.(Single); !ok {
					t.Errorf("Variant = %T", b.Variant)
				}
			},
		},
		{
			name: "NullOptionalsDefault",
			json: `{"id":"b7","type":"grid","assetIds":["a"],"aspect":null,"columns":null}`,
			check: func(t *testing.T, b Block) {
				if b.Aspect != 1.0 || b.Variant.(Grid).Columns != DefaultColumns {
					t.Errorf("null optionals not defaulted: %+v", b)
				}
			},
		},
		{
			name: "BoundsInclusive",
			json: `{"id":"b8","type":"split","assetIds":[],"aspect":2,"radius":48,"columnWeights":[1,12],"spacing":{"gapX":24,"gapY":0,"padX":0,"padY":24}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ValidateBlock(0, json.RawMessage(tt.json))
			if err != nil {
				t.Fatalf("ValidateBlock() error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, b)
			}
		})
	}
}

func TestValidateBlockRejects(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantCode  apperr.Code
		wantField string
	}{
		{"NotObject", `[1,2]`, apperr.ErrCodeStructural, "block"},
		{"Null", `null`, apperr.ErrCodeStructural, "block"},
		{"MissingID", `{"type":"single","assetIds":[]}`, apperr.ErrCodeStructural, "id"},
		{"EmptyID", `{"id":"","type":"single","assetIds":[]}`, apperr.ErrCodeStructural, "id"},
		{"NumericID", `{"id":7,"type":"single","assetIds":[]}`, apperr.ErrCodeStructural, "id"},
		{"MissingType", `{"id":"b","assetIds":[]}`, apperr.ErrCodeStructural, "type"},
		{"UnknownType", `{"id":"b","type":"mosaic","assetIds":[]}`, apperr.ErrCodeStructural, "type"},
		{"MissingAssetIDs", `{"id":"b","type":"single"}`, apperr.ErrCodeStructural, "assetIds"},
		{"AssetIDsNotArray", `{"id":"b","type":"single","assetIds":"a"}`, apperr.ErrCodeStructural, "assetIds"},
		{"AssetIDNotString", `{"id":"b","type":"single","assetIds":["a",3]}`, apperr.ErrCodeStructural, "assetIds[1]"},
		{"AspectString", `{"id":"b","type":"single","assetIds":[],"aspect":"1"}`, apperr.ErrCodeStructural, "aspect"},
		{"AspectHigh", `{"id":"b","type":"single","assetIds":[],"aspect":3.0}`, apperr.ErrCodeRange, "aspect"},
		{"AspectLow", `{"id":"b","type":"single","assetIds":[],"aspect":0.1}`, apperr.ErrCodeRange, "aspect"},
		{"SpacingNotObject", `{"id":"b","type":"single","assetIds":[],"spacing":8}`, apperr.ErrCodeStructural, "spacing"},
		{"SpacingFraction", `{"id":"b","type":"single","assetIds":[],"spacing":{"gapX":1.5}}`, apperr.ErrCodeStructural, "spacing.gapX"},
		{"SpacingHigh", `{"id":"b","type":"single","assetIds":[],"spacing":{"padY":25}}`, apperr.ErrCodeRange, "spacing.padY"},
		{"SpacingNegative", `{"id":"b","type":"single","assetIds":[],"spacing":{"gapY":-1}}`, apperr.ErrCodeRange, "spacing.gapY"},
		{"RadiusHigh", `{"id":"b","type":"single","assetIds":[],"radius":49}`, apperr.ErrCodeRange, "radius"},
		{"WeightsShape", `{"id":"b","type":"split","assetIds":[],"columnWeights":[1]}`, apperr.ErrCodeStructural, "columnWeights"},
		{"WeightLow", `{"id":"b","type":"split","assetIds":[],"columnWeights":[0.5,1]}`, apperr.ErrCodeRange, "columnWeights[0]"},
		{"WeightHigh", `{"id":"b","type":"split","assetIds":[],"columnWeights":[1,13]}`, apperr.ErrCodeRange, "columnWeights[1]"},
		{"ColumnsLow", `{"id":"b","type":"grid","assetIds":[],"columns":1}`, apperr.ErrCodeRange, "columns"},
		{"ColumnsHigh", `{"id":"b","type":"grid","assetIds":[],"columns":5}`, apperr.ErrCodeRange, "columns"},
		{"ColumnsFraction", `{"id":"b","type":"grid","assetIds":[],"columns":2.5}`, apperr.ErrCodeStructural, "columns"},
		{"SpansNotArray", `{"id":"b","type":"grid","assetIds":["a"],"spans":{}}`, apperr.ErrCodeStructural, "spans"},
		{"SpanNotObject", `{"id":"b","type":"grid","assetIds":["a"],"spans":[2]}`, apperr.ErrCodeStructural, "spans[0]"},
		{"SpanZero", `{"id":"b","type":"grid","assetIds":["a","b"],"spans":[null,{"cols":0}]}`, apperr.ErrCodeRange, "spans[1].cols"},
		{"ColumnsHuge", `{"id":"b","type":"grid","assetIds":[],"columns":1e10}`, apperr.ErrCodeRange, "columns"},
		{"SpanRowsHuge", `{"id":"b","type":"grid","assetIds":["a"],"spans":[{"rows":-5e12}]}`, apperr.ErrCodeRange, "spans[0].rows"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateBlock(4, json.RawMessage(tt.json))
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperr.Is(err, tt.wantCode) {
				t.Errorf("code = %q, want %q (%v)", apperr.GetCode(err), tt.wantCode, err)
			}
			ve, ok := apperr.AsValidation(err)
			if !ok {
				t.Fatalf("not a ValidationError: %T", err)
			}
			if ve.Index != 4 {
				t.Errorf("Index = %d, want 4", ve.Index)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestFromRecord(t *testing.T) {
	cols := 3
	rec := BlockRecord{
		ID:       "g",
		Type:     TypeGrid,
		AssetIDs: []string{"a", "b"},
		Columns:  &cols,
		Spans:    []*Span{nil, {Cols: 3}},
	}
	b, err := FromRecord(0, rec)
	if err != nil {
		t.Fatalf("FromRecord() error: %v", err)
	}
	want := []Span{{1, 1}, {3, 1}}
	if got := b.Variant.(Grid).Spans; !reflect.DeepEqual(got, want) {
		t.Errorf("Spans = %v, want %v", got, want)
	}

	rec.Spans = []*Span{{Cols: -1}}
	if _, err := FromRecord(2, rec); !apperr.Is(err, apperr.ErrCodeRange) {
		t.Errorf("negative span: err = %v, want RANGE", err)
	}
}

func TestAspectClamping(t *testing.T) {
	for _, aspect := range []float64{0.19, 2.01, -1} {
		b := New("b", TypeSingle)
		b.Aspect = aspect
		if err := b.Validate(0); !apperr.Is(err, apperr.ErrCodeRange) {
			t.Errorf("aspect %v: err = %v, want RANGE", aspect, err)
		}
	}
	for _, aspect := range []float64{0.2, 1, 2} {
		b := New("b", TypeSingle)
		b.Aspect = aspect
		if err := b.Validate(0); err != nil {
			t.Errorf("aspect %v: unexpected error %v", aspect, err)
		}
	}
}
