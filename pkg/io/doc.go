// Package io reads and writes page documents and block lists as files.
//
// # Formats
//
// Two encodings are supported:
//
//   - JSON: the canonical interchange and persistence format
//   - YAML: a hand-editing mirror with the same field names
//
// YAML input is converted to JSON before decoding, so both formats go
// through exactly the same structural and range checks. A YAML file that
// would be rejected as JSON is rejected with the same error.
//
// # Documents
//
// A document file holds the persistence format:
//
//	{
//	  "id": "album_001",
//	  "title": "Sample Album",
//	  "revision": 4,
//	  "assets": {"img_001": {"id": "img_001", "mediaKind": "image", "uri": "..."}},
//	  "blocks": [{"id": "b1", "type": "single", "assetIds": ["img_001"]}]
//	}
//
// Use [ImportDocument] and [ExportDocument] for files, or [ReadDocument] and
// [WriteDocument] for any reader or writer.
//
// # Block lists
//
// A block list file is a bare JSON (or YAML) array of blocks, the format of
// the editor's import/export panel. [ToJSON] converts either encoding to the
// JSON bytes [document.ImportBlocks] expects; [WriteBlocks] writes a list in
// normalized form.
//
// [document.ImportBlocks]: github.com/matzehuels/albumstack/pkg/document.ImportBlocks
package io
