// Package album defines the block model of an album page: media assets,
// layout blocks and the rules that keep them valid.
//
// # Blocks
//
// A [Block] is one full-width row of the page. Its layout is a closed set of
// variants behind the sealed [Variant] interface:
//
//   - [Single]: one slot covering the whole block
//   - [Split]: two side-by-side slots sized by [Split.ColumnWeights]
//   - [Grid]: an auto-flowing grid of square cells with per-slot [Span]s
//
// Consumers switch on the concrete variant type; [Types] lists every variant
// so tests can assert that a switch handles all of them.
//
// # Validation
//
// Blocks enter the system through [ValidateBlock] (raw JSON, structural and
// semantic checks) or [FromRecord] (typed wire records, semantic checks).
// Both return the block normalized: spans are back-filled with the default
// {1,1}, clamped to the grid's column count and sized to exactly one entry
// per asset slot. [NormalizeSpans] is the single place that rule lives.
//
// Failures are [errors.ValidationError] values naming the block index and
// the offending field.
//
// # Interchange Format
//
// Blocks serialize as the JSON objects the editor has always stored:
//
//	{
//	  "id": "b3",
//	  "type": "grid",
//	  "aspect": 1,
//	  "columns": 2,
//	  "spans": [{"cols": 1, "rows": 1}, null, {"cols": 2}],
//	  "assetIds": ["img_003", "img_002", "img_001"],
//	  "spacing": {"gapX": 8, "gapY": 8, "padX": 8, "padY": 8},
//	  "radius": 16
//	}
//
// Only id, type and assetIds are required. Spans may contain null holes on
// input; output always carries the normalized, hole-free sequence so that
// export followed by import is lossless.
//
// [errors.ValidationError]: github.com/matzehuels/albumstack/pkg/errors.ValidationError
package album
