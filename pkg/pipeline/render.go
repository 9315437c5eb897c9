package pipeline

import (
	"fmt"

	"github.com/matzehuels/albumstack/pkg/document"
	"github.com/matzehuels/albumstack/pkg/placement"
	"github.com/matzehuels/albumstack/pkg/render/refgraph"
	"github.com/matzehuels/albumstack/pkg/render/sink"
)

// Place stacks the document's blocks with the placement options in opts.
func Place(doc *document.Document, opts Options) (placement.PageLayout, error) {
	return placement.PlacePage(doc, opts.PlacementOptions())
}

// RenderFromLayout renders a placed page in every requested format. The
// document is needed only for the DOT reference diagram.
func RenderFromLayout(page placement.PageLayout, doc *document.Document, opts Options) (map[string][]byte, error) {
	theme, err := sink.LookupTheme(opts.Theme)
	if err != nil {
		return nil, err
	}
	svgOpts := buildSVGOptions(theme, opts)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(page, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(page, sink.WithScale(opts.Scale), sink.WithPNGTheme(theme))
		case FormatPDF:
			data, err = sink.RenderPDF(page, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(page)
		case FormatDOT:
			if doc == nil {
				return nil, fmt.Errorf("dot output needs the document")
			}
			data = []byte(refgraph.ToDOT(doc, refgraph.Options{SlotLabels: opts.ShowLabels}))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(theme sink.Theme, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithTheme(theme)}
	if opts.ShowLabels {
		svgOpts = append(svgOpts, sink.WithLabels())
	}
	if opts.NoImages {
		svgOpts = append(svgOpts, sink.WithoutImages())
	}
	return svgOpts
}
