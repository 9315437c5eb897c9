package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/albumstack/pkg/placement"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	theme Theme
	scale float64
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGTheme sets the color palette.
func WithPNGTheme(t Theme) PNGOption {
	return func(r *pngRenderer) { r.theme = t }
}

// RenderPNG rasterizes a wireframe of the page: block frames, filled slots
// and dashed empty slots. Asset images are not fetched.
func RenderPNG(page placement.PageLayout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{theme: Light, scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("png scale must be positive, got %v", r.scale)
	}

	w := int(math.Ceil(page.Width * r.scale))
	h := int(math.Ceil(page.Height * r.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("page has no area: %vx%v", page.Width, page.Height)
	}

	dc := gg.NewContext(w, h)
	dc.Scale(r.scale, r.scale)
	dc.SetHexColor(r.theme.Background)
	dc.Clear()

	if page.TitleBand.Height > 0 {
		tb := page.TitleBand
		dc.SetHexColor(r.theme.Text)
		dc.DrawStringAnchored(page.Title, tb.X, tb.CenterY(), 0, 0.5)
	}

	for _, b := range page.Blocks {
		dc.SetHexColor(r.theme.Block)
		dc.DrawRoundedRectangle(b.Rect.X, b.Rect.Y, b.Rect.Width, b.Rect.Height, cornerRadius(b.Rect, float64(b.Radius)))
		dc.Fill()

		for _, s := range b.Slots {
			rx := cornerRadius(s.Rect, float64(b.Radius)/2)
			if s.Empty {
				dc.Push()
				dc.SetHexColor(r.theme.Empty)
				dc.SetLineWidth(1.5)
				dc.SetDash(6, 4)
				dc.DrawRoundedRectangle(s.Rect.X, s.Rect.Y, s.Rect.Width, s.Rect.Height, rx)
				dc.Stroke()
				dc.Pop()
				continue
			}
			dc.SetHexColor(r.theme.Slot)
			dc.DrawRoundedRectangle(s.Rect.X, s.Rect.Y, s.Rect.Width, s.Rect.Height, rx)
			dc.Fill()
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
