package document

import (
	"bytes"
	"maps"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/albumstack/pkg/album"
	apperr "github.com/matzehuels/albumstack/pkg/errors"
)

// placeholderCount is how many random asset references a new block starts
// with when the document has assets.
var placeholderCount = map[album.Type]int{
	album.TypeSingle: 1,
	album.TypeSplit:  2,
	album.TypeGrid:   4,
}

// NewBlockID returns a fresh block id of the form b_xxxxxxxx.
func NewBlockID() string {
	return "b_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// AddBlock appends a block of type t with the editor defaults and returns the
// new document and the generated block id.
//
// When the document has assets, the block starts with randomly chosen
// placeholder references drawn from rng (one for single, two for split, four
// for grid); otherwise its asset list is empty. A nil rng uses the global
// source.
func AddBlock(doc *Document, t album.Type, rng *rand.Rand) (*Document, string, error) {
	if _, ok := album.ParseType(string(t)); !ok {
		return doc, "", apperr.New(apperr.ErrCodeInvalidInput, "unknown block type %q", t)
	}

	id := NewBlockID()
	for {
		if _, _, taken := doc.Block(id); !taken {
			break
		}
		id = NewBlockID()
	}

	b := album.New(id, t)
	if pool := doc.AssetIDs(); len(pool) > 0 {
		for range placeholderCount[t] {
			b.AssetIDs = append(b.AssetIDs, pool[intN(rng, len(pool))])
		}
	}
	b.Normalize()

	next := doc.next()
	next.Blocks = append(next.Blocks, b)
	return next, id, nil
}

func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}

// RemoveBlock deletes a block. Removing an absent id is a no-op that returns
// doc unchanged.
func RemoveBlock(doc *Document, blockID string) (*Document, error) {
	_, idx, ok := doc.Block(blockID)
	if !ok {
		return doc, nil
	}
	next := doc.next()
	next.Blocks = append(next.Blocks[:idx], next.Blocks[idx+1:]...)
	return next, nil
}

// MoveBlock swaps a block with its neighbour. dir is -1 (up) or +1 (down).
// Moving past either end is a no-op that returns doc unchanged.
func MoveBlock(doc *Document, blockID string, dir int) (*Document, error) {
	if dir != -1 && dir != 1 {
		return doc, apperr.New(apperr.ErrCodeInvalidInput, "move direction must be -1 or +1, got %d", dir)
	}
	_, idx, ok := doc.Block(blockID)
	if !ok {
		return doc, unknownBlock(blockID)
	}
	to := idx + dir
	if to < 0 || to >= len(doc.Blocks) {
		return doc, nil
	}
	next := doc.next()
	next.Blocks[idx], next.Blocks[to] = next.Blocks[to], next.Blocks[idx]
	return next, nil
}

// PatchBlock merges p into a block and re-runs validation on the result. If
// the merged block is invalid, doc is returned unchanged with the validation
// error.
func PatchBlock(doc *Document, blockID string, p Patch) (*Document, error) {
	b, idx, ok := doc.Block(blockID)
	if !ok {
		return doc, unknownBlock(blockID)
	}
	patched, err := p.Apply(b, idx)
	if err != nil {
		return doc, err
	}
	next := doc.next()
	next.Blocks[idx] = patched
	return next, nil
}

// AttachAsset appends an asset reference to a block. The asset must be
// registered.
func AttachAsset(doc *Document, blockID, assetID string) (*Document, error) {
	_, idx, ok := doc.Block(blockID)
	if !ok {
		return doc, unknownBlock(blockID)
	}
	if _, ok := doc.Assets[assetID]; !ok {
		return doc, apperr.New(apperr.ErrCodeReference, "asset %q not found", assetID)
	}
	next := doc.next()
	b := &next.Blocks[idx]
	b.AssetIDs = append(b.AssetIDs, assetID)
	b.Normalize()
	return next, nil
}

// DetachAsset removes the asset reference at slot index from a block. For
// grid blocks the span at that index goes with it so later spans stay aligned
// with their assets.
func DetachAsset(doc *Document, blockID string, index int) (*Document, error) {
	b, idx, ok := doc.Block(blockID)
	if !ok {
		return doc, unknownBlock(blockID)
	}
	if index < 0 || index >= len(b.AssetIDs) {
		return doc, apperr.New(apperr.ErrCodeInvalidInput, "block %q has no asset at index %d", blockID, index)
	}
	next := doc.next()
	nb := &next.Blocks[idx]
	nb.AssetIDs = append(nb.AssetIDs[:index], nb.AssetIDs[index+1:]...)
	if g, ok := nb.Variant.(album.Grid); ok && index < len(g.Spans) {
		g.Spans = append(g.Spans[:index], g.Spans[index+1:]...)
		nb.Variant = g
	}
	nb.Normalize()
	return next, nil
}

// SetSpan sets the span of one grid slot. Unset slots before index are
// back-filled with {1,1}; zero fields in span keep their previous value; the
// result is clamped to the block's column count.
func SetSpan(doc *Document, blockID string, index int, span album.Span) (*Document, error) {
	b, idx, ok := doc.Block(blockID)
	if !ok {
		return doc, unknownBlock(blockID)
	}
	g, ok := b.Variant.(album.Grid)
	if !ok {
		return doc, apperr.New(apperr.ErrCodeInvalidInput, "block %q is %s, spans apply to grid blocks only", blockID, b.Type())
	}
	if index < 0 || index >= len(b.AssetIDs) {
		return doc, apperr.New(apperr.ErrCodeInvalidInput, "block %q has no asset at index %d", blockID, index)
	}
	if span.Cols < 0 || span.Rows < 0 {
		return doc, apperr.Range(idx, "spans", "span values must be at least 1")
	}
	next := doc.next()
	nb := &next.Blocks[idx]
	g.Spans = album.WithSpan(g.Spans, index, span)
	nb.Variant = g
	nb.Normalize()
	return next, nil
}

// SetTitle renames the page.
func SetTitle(doc *Document, title string) (*Document, error) {
	next := doc.next()
	next.Title = title
	return next, nil
}

// AddAsset registers an asset. Assets are immutable, so an id that is
// already registered is rejected rather than overwritten.
func AddAsset(doc *Document, a album.Asset) (*Document, error) {
	if err := album.ValidateAsset(a); err != nil {
		return doc, err
	}
	if _, dup := doc.Assets[a.ID]; dup {
		return doc, apperr.New(apperr.ErrCodeConflict, "asset %q already exists", a.ID)
	}
	next := doc.next()
	next.Assets = maps.Clone(doc.Assets)
	if next.Assets == nil {
		next.Assets = map[string]album.Asset{}
	}
	next.Assets[a.ID] = a
	return next, nil
}

// RemoveAsset unregisters an asset. Blocks keep their references, which then
// render as empty slots.
func RemoveAsset(doc *Document, assetID string) (*Document, error) {
	if _, ok := doc.Assets[assetID]; !ok {
		return doc, apperr.New(apperr.ErrCodeReference, "asset %q not found", assetID)
	}
	next := doc.next()
	next.Assets = maps.Clone(doc.Assets)
	delete(next.Assets, assetID)
	return next, nil
}

// ImportBlocks replaces the whole block list with the JSON array in raw. The
// replacement is atomic: if any element fails validation, doc is returned
// unchanged with the first failure.
func ImportBlocks(doc *Document, raw []byte) (*Document, error) {
	blocks, err := album.DecodeBlocks(raw)
	if err != nil {
		return doc, err
	}
	next := doc.next()
	next.Blocks = blocks
	return next, nil
}

// ExportBlocks returns the block list as indented JSON. Spans are written in
// normalized form, so ImportBlocks(doc, ExportBlocks(doc)) reproduces the
// same blocks.
func ExportBlocks(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := album.EncodeBlocks(&buf, doc.Blocks); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "export blocks")
	}
	return buf.Bytes(), nil
}

func unknownBlock(id string) error {
	return apperr.New(apperr.ErrCodeReference, "block %q not found", id)
}
