package document

import (
	"encoding/json"
	"reflect"
	"testing"

	apperr "github.com/matzehuels/albumstack/pkg/errors"
)

func TestDocumentJSONRoundTrip(t *testing.T) {
	doc := Seed()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	var got Document
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if got.ID != doc.ID || got.Title != doc.Title || got.Revision != doc.Revision {
		t.Errorf("header = %s, want %s", got.String(), doc.String())
	}
	if !reflect.DeepEqual(got.Assets, doc.Assets) {
		t.Error("assets mismatch")
	}
	if !reflect.DeepEqual(got.Blocks, doc.Blocks) {
		t.Error("blocks mismatch")
	}
}

func TestDocumentUnmarshalValidates(t *testing.T) {
	tests := []struct {
		name string
		data string
		code apperr.Code
	}{
		{"BadBlock", `{"title":"x","assets":{},"blocks":[{"id":"a","type":"grid","assetIds":[],"columns":9}]}`, apperr.ErrCodeRange},
		{"BadAsset", `{"title":"x","assets":{"a":{"id":"a","mediaKind":"audio","uri":"x"}},"blocks":[]}`, apperr.ErrCodeInvalidInput},
		{"KeyMismatch", `{"title":"x","assets":{"a":{"id":"b","mediaKind":"image","uri":"x"}}}`, apperr.ErrCodeInvalidInput},
		{"NotJSON", `{`, apperr.ErrCodeInvalidFormat},
		{"Truncated", `{"title":"x","blocks":[`, apperr.ErrCodeInvalidFormat},
		{"WrongTitleType", `{"title":7}`, apperr.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			if !apperr.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRecordRoundTrip(t *testing.T) {
	doc := Seed()
	got, err := FromRecord(doc.Record())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("FromRecord(Record()) mismatch")
	}
}

func TestCloneIndependent(t *testing.T) {
	doc := Seed()
	c := doc.Clone()
	c.Blocks[0].AssetIDs[0] = "zzz"
	delete(c.Assets, "img_001")
	if doc.Blocks[0].AssetIDs[0] != "img_001" {
		t.Error("Clone shares blocks")
	}
	if _, ok := doc.Assets["img_001"]; !ok {
		t.Error("Clone shares assets")
	}
	if c.Revision != doc.Revision {
		t.Error("Clone bumped revision")
	}
}
