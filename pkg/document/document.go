// Package document holds the page document: the asset registry and the
// ordered block list of one album page, plus the mutations an editor applies
// to it.
//
// Documents are copy-on-write. Every mutation is a pure function that takes a
// *Document and returns a new one; the input is never modified. On failure the
// input pointer itself is returned together with the error, so callers can
// keep using it as the current state:
//
//	next, err := document.PatchBlock(doc, "b2", document.Patch{Aspect: &aspect})
//	if err != nil {
//	    // next == doc, nothing changed
//	}
//
// Each successful mutation bumps [Document.Revision]. Stores and edit sessions
// use the revision for optimistic concurrency.
package document

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/albumstack/pkg/album"
	apperr "github.com/matzehuels/albumstack/pkg/errors"
)

// Document is one album page.
type Document struct {
	ID       string
	Title    string
	Revision int64
	Assets   map[string]album.Asset
	Blocks   []album.Block
}

// New returns an empty document.
func New(id, title string) *Document {
	return &Document{
		ID:     id,
		Title:  title,
		Assets: map[string]album.Asset{},
		Blocks: []album.Block{},
	}
}

// Block returns the block with the given id and its index.
func (d *Document) Block(id string) (album.Block, int, bool) {
	for i, b := range d.Blocks {
		if b.ID == id {
			return b, i, true
		}
	}
	return album.Block{}, -1, false
}

// Asset looks up an asset by id.
func (d *Document) Asset(id string) (album.Asset, bool) {
	a, ok := d.Assets[id]
	return a, ok
}

// AssetIDs returns the registered asset ids in sorted order.
func (d *Document) AssetIDs() []string {
	return slices.Sorted(maps.Keys(d.Assets))
}

// SortedAssets returns the registered assets ordered by id.
func (d *Document) SortedAssets() []album.Asset {
	ids := d.AssetIDs()
	out := make([]album.Asset, len(ids))
	for i, id := range ids {
		out[i] = d.Assets[id]
	}
	return out
}

// DanglingRefs returns, per block id, the referenced asset ids that are not
// registered. Dangling references are legal and render as empty slots.
func (d *Document) DanglingRefs() map[string][]string {
	out := map[string][]string{}
	for _, b := range d.Blocks {
		for _, id := range b.AssetIDs {
			if _, ok := d.Assets[id]; !ok {
				out[b.ID] = append(out[b.ID], id)
			}
		}
	}
	return out
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := d.next()
	out.Revision = d.Revision
	out.Assets = maps.Clone(d.Assets)
	if out.Assets == nil {
		out.Assets = map[string]album.Asset{}
	}
	return out
}

// next starts a mutation: a shallow copy with its own block slice and a
// bumped revision. Blocks inside are values; replacing one in the new slice
// never affects d. Assets are shared until a mutation replaces the map.
func (d *Document) next() *Document {
	blocks := make([]album.Block, len(d.Blocks))
	for i, b := range d.Blocks {
		blocks[i] = b.Clone()
	}
	return &Document{
		ID:       d.ID,
		Title:    d.Title,
		Revision: d.Revision + 1,
		Assets:   d.Assets,
		Blocks:   blocks,
	}
}

// =============================================================================
// Persistence format
// =============================================================================

// Record is the storage shape of a document, shared by the JSON, YAML, BSON
// and SQL backends.
type Record struct {
	ID       string                 `json:"id,omitempty" bson:"_id,omitempty" yaml:"id,omitempty"`
	Title    string                 `json:"title" bson:"title" yaml:"title"`
	Revision int64                  `json:"revision" bson:"revision" yaml:"revision"`
	Assets   map[string]album.Asset `json:"assets" bson:"assets" yaml:"assets"`
	Blocks   []album.BlockRecord    `json:"blocks" bson:"blocks" yaml:"blocks"`
}

// Record converts d to its storage shape.
func (d *Document) Record() Record {
	return Record{
		ID:       d.ID,
		Title:    d.Title,
		Revision: d.Revision,
		Assets:   maps.Clone(d.Assets),
		Blocks:   album.Records(d.Blocks),
	}
}

// FromRecord validates a stored record and rebuilds the document.
func FromRecord(rec Record) (*Document, error) {
	doc := New(rec.ID, rec.Title)
	doc.Revision = rec.Revision
	for key, a := range rec.Assets {
		if a.ID == "" {
			a.ID = key
		}
		if a.ID != key {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "asset key %q does not match id %q", key, a.ID)
		}
		if err := album.ValidateAsset(a); err != nil {
			return nil, err
		}
		doc.Assets[key] = a
	}
	blocks, err := album.FromRecords(rec.Blocks)
	if err != nil {
		return nil, err
	}
	doc.Blocks = blocks
	return doc, nil
}

// Decode parses a document in the persistence format. Malformed JSON is
// reported as INVALID_FORMAT; validation failures keep their own code.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		if apperr.GetCode(err) == "" {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode document")
		}
		return nil, err
	}
	return &doc, nil
}

// MarshalJSON encodes d in the persistence format.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Record())
}

// UnmarshalJSON decodes and validates a persisted document. Blocks go through
// the same structural checks as an import.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string                 `json:"id"`
		Title    string                 `json:"title"`
		Revision int64                  `json:"revision"`
		Assets   map[string]album.Asset `json:"assets"`
		Blocks   json.RawMessage        `json:"blocks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode document")
	}
	doc, err := FromRecord(Record{ID: raw.ID, Title: raw.Title, Revision: raw.Revision, Assets: raw.Assets})
	if err != nil {
		return err
	}
	if len(raw.Blocks) > 0 && string(raw.Blocks) != "null" {
		blocks, err := album.DecodeBlocks(raw.Blocks)
		if err != nil {
			return err
		}
		doc.Blocks = blocks
	}
	*d = *doc
	return nil
}

// String returns a one-line summary.
func (d *Document) String() string {
	return fmt.Sprintf("%s %q rev %d (%d assets, %d blocks)", d.ID, d.Title, d.Revision, len(d.Assets), len(d.Blocks))
}
