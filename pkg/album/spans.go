package album

import "github.com/matzehuels/albumstack/pkg/geom"

// NormalizeSpans returns the canonical span list of a grid block.
//
// The result has exactly one entry per asset slot: raw is cut when it is
// longer and padded with [DefaultSpan] when it is shorter. Unset spans (and
// unset fields within a span) become 1 and every value is clamped to
// [1, columns] on both axes. The input is not modified, and
// NormalizeSpans(ids, NormalizeSpans(ids, s, c), c) equals
// NormalizeSpans(ids, s, c).
//
// Columns below 1 are treated as 1 so that normalization never fails; range
// errors on the column count are reported by validation.
func NormalizeSpans(assetIDs []string, raw []Span, columns int) []Span {
	n := len(assetIDs)
	if n == 0 {
		return nil
	}
	bound := max(columns, 1)

	out := make([]Span, n)
	for i := range out {
		var s Span
		if i < len(raw) {
			s = raw[i]
		}
		if s.Cols <= 0 {
			s.Cols = 1
		}
		if s.Rows <= 0 {
			s.Rows = 1
		}
		// Rows share the column bound; this mirrors the editor's behavior.
		s.Cols = geom.Clamp(s.Cols, 1, bound)
		s.Rows = geom.Clamp(s.Rows, 1, bound)
		out[i] = s
	}
	return out
}

// WithSpan returns spans with index i set to s, back-filling every unset
// index below i with [DefaultSpan]. The result is not yet clamped; pass it
// through [NormalizeSpans] (via [Block.Normalize]).
func WithSpan(spans []Span, i int, s Span) []Span {
	out := make([]Span, max(len(spans), i+1))
	copy(out, spans)
	for k := 0; k < i; k++ {
		if out[k] == (Span{}) {
			out[k] = DefaultSpan
		}
	}
	if s.Cols <= 0 {
		s.Cols = out[i].Cols
	}
	if s.Rows <= 0 {
		s.Rows = out[i].Rows
	}
	out[i] = s
	return out
}
