package refgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/albumstack/pkg/album"
	"github.com/matzehuels/albumstack/pkg/document"
	"github.com/matzehuels/albumstack/pkg/render"
)

// Options configures reference diagrams.
type Options struct {
	// SlotLabels labels each edge with its slot index.
	SlotLabels bool

	// HideUnused omits registered assets that no block references.
	HideUnused bool
}

// ToDOT converts a document's block→asset references to Graphviz DOT.
func ToDOT(doc *document.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph album {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("\n")

	used := map[string]bool{}
	for i, b := range doc.Blocks {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", blockNode(b.ID), blockLabel(i, b))
		for _, id := range b.AssetIDs {
			used[id] = true
		}
	}

	buf.WriteString("\n")
	for _, a := range doc.SortedAssets() {
		if !used[a.ID] {
			if opts.HideUnused {
				continue
			}
			fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, fillcolor=lightgrey];\n", assetNode(a.ID), a.Label())
			continue
		}
		fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse];\n", assetNode(a.ID), a.Label())
	}
	for _, id := range danglingIDs(doc) {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, style=\"filled,dashed\", fillcolor=mistyrose, color=red];\n",
			assetNode(id), id+"\n(missing)")
	}

	buf.WriteString("\n")
	for _, b := range doc.Blocks {
		for k, id := range b.AssetIDs {
			if opts.SlotLabels {
				fmt.Fprintf(&buf, "  %q -> %q [label=\"%d\"];\n", blockNode(b.ID), assetNode(id), k)
			} else {
				fmt.Fprintf(&buf, "  %q -> %q;\n", blockNode(b.ID), assetNode(id))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func blockNode(id string) string { return "block:" + id }
func assetNode(id string) string { return "asset:" + id }

func blockLabel(index int, b album.Block) string {
	parts := []string{fmt.Sprintf("#%d %s", index, b.ID), string(b.Type())}
	switch v := b.Variant.(type) {
	case album.Split:
		parts = append(parts, fmt.Sprintf("%g:%g", v.ColumnWeights[0], v.ColumnWeights[1]))
	case album.Grid:
		parts = append(parts, fmt.Sprintf("%d columns", v.Columns))
	}
	return strings.Join(parts, "\n")
}

// danglingIDs returns each unregistered asset id once, in first-use order.
func danglingIDs(doc *document.Document) []string {
	var out []string
	seen := map[string]bool{}
	for _, b := range doc.Blocks {
		for _, id := range b.AssetIDs {
			if _, ok := doc.Assets[id]; ok || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag with a zero-origin viewBox and
// explicit pixel size so the diagram embeds like the page previews.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
