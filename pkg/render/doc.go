// Package render turns placed album pages into visual outputs.
//
// # Overview
//
// Placement (package placement) produces a [placement.PageLayout]: page
// coordinates for every block and slot. This package and its subpackages
// draw that layout:
//
//   - Generic format conversion (SVG to PDF/PNG) via rsvg-convert
//   - Page previews in [sink]: SVG, PNG wireframes, PDF and JSON
//   - Block-to-asset reference diagrams in [refgraph], drawn with Graphviz
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := sink.RenderSVG(page)
//	pdf, err := render.ToPDF(svg)
//
// The PNG sink does not need rsvg-convert: it rasterizes a wireframe of the
// page directly.
//
// [placement.PageLayout]: github.com/matzehuels/albumstack/pkg/placement.PageLayout
// [sink]: github.com/matzehuels/albumstack/pkg/render/sink
// [refgraph]: github.com/matzehuels/albumstack/pkg/render/refgraph
package render
