package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/matzehuels/albumstack/pkg/geom"
	"github.com/matzehuels/albumstack/pkg/placement"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	theme  Theme
	labels bool
	images bool
}

// WithTheme sets the color palette.
func WithTheme(t Theme) SVGOption { return func(r *svgRenderer) { r.theme = t } }

// WithLabels draws each asset's label inside its slot.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithoutImages draws filled placeholders instead of linking asset URIs.
func WithoutImages() SVGOption { return func(r *svgRenderer) { r.images = false } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{theme: Light, images: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws the page as an SVG document.
func RenderSVG(page placement.PageLayout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		page.Width, page.Height, page.Width, page.Height)
	fmt.Fprintf(&buf, `  <rect class="page" width="%.1f" height="%.1f" fill="%s"/>`+"\n", page.Width, page.Height, r.theme.Background)

	if page.TitleBand.Height > 0 {
		tb := page.TitleBand
		fmt.Fprintf(&buf, `  <text class="title" x="%.1f" y="%.1f" font-family="sans-serif" font-size="20" font-weight="600" fill="%s" dominant-baseline="middle">%s</text>`+"\n",
			tb.X, tb.CenterY(), r.theme.Text, escapeXML(page.Title))
	}

	for _, b := range page.Blocks {
		r.renderBlock(&buf, b)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderBlock(buf *bytes.Buffer, b placement.BlockLayout) {
	fmt.Fprintf(buf, `  <g id="block-%s" class="block block-%s" data-index="%d">`+"\n", escapeXML(b.ID), b.Type, b.Index)
	fmt.Fprintf(buf, `    <rect class="block-frame" %s rx="%.1f" fill="%s"/>`+"\n",
		rectAttrs(b.Rect), cornerRadius(b.Rect, float64(b.Radius)), r.theme.Block)

	for _, s := range b.Slots {
		r.renderSlot(buf, b, s)
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderSlot(buf *bytes.Buffer, b placement.BlockLayout, s placement.Slot) {
	rx := cornerRadius(s.Rect, float64(b.Radius)/2)
	if s.Empty {
		fmt.Fprintf(buf, `    <rect class="slot empty" data-slot="%d" %s rx="%.1f" fill="none" stroke="%s" stroke-width="1.5" stroke-dasharray="6 4"/>`+"\n",
			s.Index, rectAttrs(s.Rect), rx, r.theme.Empty)
		return
	}

	clipID := fmt.Sprintf("clip-%s-%d", b.ID, s.Index)
	if r.images && s.Asset != nil {
		fmt.Fprintf(buf, `    <clipPath id="%s"><rect %s rx="%.1f"/></clipPath>`+"\n", escapeXML(clipID), rectAttrs(s.Rect), rx)
		fmt.Fprintf(buf, `    <image class="slot" data-slot="%d" data-asset="%s" href="%s" %s preserveAspectRatio="xMidYMid slice" clip-path="url(#%s)"/>`+"\n",
			s.Index, escapeXML(s.AssetID), escapeXML(s.Asset.URI), rectAttrs(s.Rect), escapeXML(clipID))
	} else {
		fmt.Fprintf(buf, `    <rect class="slot" data-slot="%d" data-asset="%s" %s rx="%.1f" fill="%s"/>`+"\n",
			s.Index, escapeXML(s.AssetID), rectAttrs(s.Rect), rx, r.theme.Slot)
	}

	if r.labels && s.Asset != nil {
		fmt.Fprintf(buf, `    <text class="slot-label" x="%.1f" y="%.1f" font-family="sans-serif" font-size="11" fill="%s" text-anchor="middle">%s</text>`+"\n",
			s.Rect.CenterX(), s.Rect.Bottom()-8, r.theme.Text, escapeXML(s.Asset.Label()))
	}
}

func rectAttrs(r geom.Rect) string {
	return fmt.Sprintf(`x="%.1f" y="%.1f" width="%.1f" height="%.1f"`, r.X, r.Y, r.Width, r.Height)
}

// cornerRadius caps radius at half the shorter side of r.
func cornerRadius(r geom.Rect, radius float64) float64 {
	return math.Max(0, math.Min(radius, math.Min(r.Width, r.Height)/2))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
