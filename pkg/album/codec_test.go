package album

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/multierr"

	apperr "github.com/matzehuels/albumstack/pkg/errors"
)

const sampleBlocks = `[
  {"id":"b1","type":"single","aspect":0.75,"assetIds":["img_001"]},
  {"id":"b2","type":"split","aspect":0.6,"columnWeights":[2,1],"assetIds":["img_002","img_003"]},
  {"id":"b3","type":"grid","columns":2,"spans":[null,null,{"cols":2}],"assetIds":["img_003","img_002","img_001"],"radius":0}
]`

func TestRoundTrip(t *testing.T) {
	blocks, err := DecodeBlocks([]byte(sampleBlocks))
	if err != nil {
		t.Fatalf("DecodeBlocks() error: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodeBlocks(&buf, blocks); err != nil {
		t.Fatalf("EncodeBlocks() error: %v", err)
	}
	again, err := DecodeBlocks(buf.Bytes())
	if err != nil {
		t.Fatalf("re-decode error: %v", err)
	}
	if !reflect.DeepEqual(blocks, again) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", blocks, again)
	}
	if strings.Contains(buf.String(), "null") {
		t.Errorf("export contains span holes:\n%s", buf.String())
	}
}

func TestDecodeBlocksErrors(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantIndex int
		wantField string
	}{
		{"NotArray", `{"blocks":[]}`, -1, "blocks"},
		{"NullTop", `null`, -1, "blocks"},
		{"Malformed", `[{"id":`, -1, "blocks"},
		{"FirstFailure", `[{"id":"a","type":"single","assetIds":[]},{"id":"b","type":"grid","assetIds":[],"columns":9},{"type":"x"}]`, 1, "columns"},
		{"DuplicateID", `[{"id":"a","type":"single","assetIds":[]},{"id":"a","type":"split","assetIds":[]}]`, 1, "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := DecodeBlocks([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if blocks != nil {
				t.Error("partial result returned")
			}
			ve, ok := apperr.AsValidation(err)
			if !ok {
				t.Fatalf("not a ValidationError: %v", err)
			}
			if ve.Index != tt.wantIndex || ve.Field != tt.wantField {
				t.Errorf("got blocks[%d].%s, want blocks[%d].%s", ve.Index, ve.Field, tt.wantIndex, tt.wantField)
			}
		})
	}
}

func TestDecodeBlocksEmpty(t *testing.T) {
	blocks, err := DecodeBlocks([]byte(` [] `))
	if err != nil {
		t.Fatalf("DecodeBlocks() error: %v", err)
	}
	if len(blocks) != 0 {
		t.Errorf("len = %d", len(blocks))
	}
}

func TestValidateAll(t *testing.T) {
	data := `[
		{"id":"a","type":"single","assetIds":[],"aspect":5},
		{"id":"b","type":"single","assetIds":[]},
		{"id":"b","type":"single","assetIds":[]},
		{"id":"c","type":"grid","assetIds":[],"columns":1}
	]`
	err := ValidateAll([]byte(data))
	errs := multierr.Errors(err)
	if len(errs) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(errs), err)
	}
	wantIdx := []int{0, 2, 3}
	for i, e := range errs {
		ve, ok := apperr.AsValidation(e)
		if !ok || ve.Index != wantIdx[i] {
			t.Errorf("error %d = %v, want index %d", i, e, wantIdx[i])
		}
	}

	if err := ValidateAll([]byte(sampleBlocks)); err != nil {
		t.Errorf("valid list reported %v", err)
	}
}

func TestBlockJSONMethods(t *testing.T) {
	var b Block
	if err := json.Unmarshal([]byte(`{"id":"x","type":"grid","assetIds":["a"]}`), &b); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if b.Type() != TypeGrid {
		t.Errorf("Type() = %q", b.Type())
	}
	if err := json.Unmarshal([]byte(`{"id":"x","type":"grid"}`), &b); !apperr.Is(err, apperr.ErrCodeStructural) {
		t.Errorf("missing assetIds: err = %v", err)
	}

	data, err := json.Marshal(New("s", TypeSingle))
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	_ = json.Unmarshal(data, &m)
	for _, key := range []string{"columns", "spans", "columnWeights"} {
		if _, ok := m[key]; ok {
			t.Errorf("single block exported foreign field %q", key)
		}
	}
}

func TestFromRecords(t *testing.T) {
	blocks, err := DecodeBlocks([]byte(sampleBlocks))
	if err != nil {
		t.Fatal(err)
	}
	again, err := FromRecords(Records(blocks))
	if err != nil {
		t.Fatalf("FromRecords() error: %v", err)
	}
	if !reflect.DeepEqual(blocks, again) {
		t.Error("records round trip mismatch")
	}
}
