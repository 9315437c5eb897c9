package placement

import (
	"testing"

	"github.com/matzehuels/albumstack/pkg/album"
	"github.com/matzehuels/albumstack/pkg/document"
	"github.com/matzehuels/albumstack/pkg/geom"
)

func TestPlacePageSeed(t *testing.T) {
	page, err := PlacePage(document.Seed(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Blocks) != 3 {
		t.Fatalf("blocks = %d", len(page.Blocks))
	}
	if page.TitleBand != (geom.Rect{X: 12, Y: 12, Width: 396, Height: 40}) {
		t.Errorf("TitleBand = %+v", page.TitleBand)
	}

	single := page.Blocks[0]
	if single.Rect != (geom.Rect{X: 12, Y: 64, Width: 396, Height: 396}) {
		t.Errorf("single rect = %+v", single.Rect)
	}
	if got := single.Slots[0].Rect; got != (geom.Rect{X: 20, Y: 72, Width: 380, Height: 380}) {
		t.Errorf("single slot = %+v", got)
	}
	if page.Blocks[1].Rect.Y != 64+396+12 {
		t.Errorf("split y = %v", page.Blocks[1].Rect.Y)
	}

	last := page.Blocks[2]
	if got, want := page.Height, last.Rect.Bottom()+12; got != want {
		t.Errorf("Height = %v, want %v", got, want)
	}
	if n := len(last.Slots); n != 4 {
		t.Errorf("grid slots = %d", n)
	}
	for _, s := range page.Slots() {
		if s.Empty || s.Asset == nil {
			t.Errorf("slot %+v unexpectedly empty", s)
		}
	}
	if last.Slots[0].Cell == nil {
		t.Error("grid slot missing cell")
	}
}

func TestPlacePageEmptySlots(t *testing.T) {
	doc := document.Seed()
	doc, _ = document.RemoveAsset(doc, "img_002")
	doc, _, _ = document.AddBlock(doc, album.TypeGrid, nil)
	doc.Blocks[3].AssetIDs = []string{}
	doc, _, _ = document.AddBlock(doc, album.TypeSingle, nil)
	doc.Blocks[4].AssetIDs = []string{}

	page, err := PlacePage(doc, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	// img_002 appears once in the split and once in the grid.
	split := page.Blocks[1].Slots
	if !split[0].Empty || split[0].AssetID != "img_002" || split[1].Empty {
		t.Errorf("split slots = %+v", split)
	}
	if n := len(page.Blocks[3].Slots); n != 0 {
		t.Errorf("empty grid rendered %d ghost slots", n)
	}
	if s := page.Blocks[4].Slots; len(s) != 1 || !s[0].Empty {
		t.Errorf("empty single = %+v", s)
	}
	if got := page.EmptySlots(); got != 3 {
		t.Errorf("EmptySlots() = %d, want 3", got)
	}
}

func TestPlacePageNoTitle(t *testing.T) {
	doc := document.New("p", "")
	page, err := PlacePage(doc, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if page.Height != 24 || page.TitleBand.Height != 0 {
		t.Errorf("empty page = %+v", page)
	}
}

func TestPlacePageBadWidth(t *testing.T) {
	opts := DefaultOptions()
	opts.Width = 20
	if _, err := PlacePage(document.Seed(), opts); err == nil {
		t.Error("expected error for width inside padding")
	}
}
