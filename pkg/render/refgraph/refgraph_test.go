package refgraph

import (
	"strings"
	"testing"

	"github.com/matzehuels/albumstack/pkg/album"
	"github.com/matzehuels/albumstack/pkg/document"
)

func TestToDOT(t *testing.T) {
	doc := document.Seed()
	dot := ToDOT(doc, Options{SlotLabels: true})

	for _, want := range []string{
		`"block:b1" [label="#0 b1\nsingle"]`,
		`"block:b2" [label="#1 b2\nsplit\n7:3"]`,
		`"block:b3" [label="#2 b3\ngrid\n2 columns"]`,
		`"block:b3" -> "asset:img_003" [label="3"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "missing") {
		t.Error("seed has no dangling references")
	}
	if got := strings.Count(dot, " -> "); got != 7 {
		t.Errorf("edges = %d, want 7 (one per slot)", got)
	}
}

func TestToDOTDanglingAndUnused(t *testing.T) {
	doc := document.New("x", "")
	doc.Assets["img_free"] = album.Asset{ID: "img_free", Kind: album.MediaImage, URI: "a.jpg"}
	b := album.New("b1", album.TypeSplit)
	b.AssetIDs = []string{"img_gone", "img_gone"}
	b.Normalize()
	doc.Blocks = []album.Block{b}

	dot := ToDOT(doc, Options{})
	if strings.Count(dot, `"asset:img_gone" [`) != 1 {
		t.Errorf("dangling node should be declared once:\n%s", dot)
	}
	if !strings.Contains(dot, "mistyrose") || !strings.Contains(dot, "lightgrey") {
		t.Errorf("dangling/unused styling missing:\n%s", dot)
	}

	hidden := ToDOT(doc, Options{HideUnused: true})
	if strings.Contains(hidden, "img_free") {
		t.Error("HideUnused kept an unused asset")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(normalizeViewBox([]byte(tt.svg))); got != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(document.Seed(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}
