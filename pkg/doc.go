// Package pkg provides the core libraries for Albumstack album page layout.
//
// # Overview
//
// An album page is an ordered stack of blocks. Each block is a single photo,
// a two-column split or a grid, and refers to photos and videos through an
// asset registry. Albumstack validates block lists, places every slot on the
// page and renders previews.
//
// # Architecture
//
// The typical data flow:
//
//	JSON / YAML file, HTTP request, editor
//	         ↓
//	    [album] package (block model + validation)
//	         ↓
//	    [document] package (asset registry + copy-on-write edits)
//	         ↓
//	    [placement] package (page geometry + grid auto-flow)
//	         ↓
//	    [render/sink] package (SVG, PNG, PDF, JSON)
//
// # Packages
//
// ## Model
//
// [album] - Block variants, assets, spans, bounds and the import validator
// that reports the first failure by block index and field.
//
// [document] - The page document and every mutation an editor applies:
// add, remove, move and patch blocks, attach and detach assets, set grid
// spans, import and export block lists.
//
// [errors] - Coded errors shared by every layer. Validation failures carry
// the block index and field that failed.
//
// ## Layout
//
// [placement] - Computes block rectangles and slot rectangles. Grid blocks
// use first-fit auto-flow over a growing occupancy matrix.
//
// [geom] - Rectangles and insets.
//
// ## Rendering
//
// [render] - Format conversion (SVG to PDF/PNG) via rsvg-convert.
//
// [render/sink] - Page previews as SVG, native PNG wireframes, PDF and JSON.
//
// [render/refgraph] - Block to asset reference diagrams using Graphviz.
//
// ## Infrastructure
//
// [pipeline] - Place → render with layout and artifact caching. Used by the
// CLI, the HTTP server and the file watcher.
//
// [cache] - Memory, file and Redis caches behind one interface.
//
// [store] - Document persistence with optimistic revisions: memory, file,
// SQLite, Redis and MongoDB.
//
// [session] - One serialized editing session per document.
//
// [io] - JSON and YAML document files.
//
// [observability] - Hooks for pipeline, cache and edit events.
//
// # Common Workflows
//
// Validate and place a block list:
//
//	blocks, err := album.DecodeBlocks(data)
//	doc := document.New("trip", "Road Trip")
//	doc.Blocks = blocks
//	page, err := placement.PlacePage(doc, placement.DefaultOptions())
//
// Edit through a session:
//
//	sess, _ := session.Open(ctx, st, "album_001", logger)
//	doc, err := sess.Apply(ctx, rev, "block.rm", func(d *document.Document) (*document.Document, error) {
//	    return document.RemoveBlock(d, "b2")
//	})
//
// # Testing
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/placement/...    # Specific package
//	go test -run Example ./pkg/... # Examples only
package pkg
