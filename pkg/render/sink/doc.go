// Package sink writes a placed page to output formats.
//
// Every sink takes a [placement.PageLayout] and functional options:
//
//	svg := sink.RenderSVG(page, sink.WithTheme(sink.Dark), sink.WithLabels())
//	png, err := sink.RenderPNG(page, sink.WithScale(2))
//	pdf, err := sink.RenderPDF(page)
//	data, err := sink.RenderJSON(page)
//
// Empty slots (no asset id, or an id missing from the registry) are drawn as
// dashed placeholders in every visual format.
//
// [placement.PageLayout]: github.com/matzehuels/albumstack/pkg/placement.PageLayout
package sink
