package document

import "github.com/matzehuels/albumstack/pkg/album"

// SeedID is the id of the demo album returned by [Seed].
const SeedID = "album_001"

// Seed returns the demo album: three photos laid out as a single, a 7:3
// split and a two-column grid.
func Seed() *Document {
	doc := New(SeedID, "Sample Album")
	for _, a := range []album.Asset{
		{
			ID:     "img_001",
			Kind:   album.MediaImage,
			URI:    "https://images.unsplash.com/photo-1542291026-7eec264c27ff?auto=format&fit=crop&w=1400&q=80",
			Width:  1400,
			Height: 875,
		},
		{
			ID:     "img_002",
			Kind:   album.MediaImage,
			URI:    "https://images.unsplash.com/photo-1471879832106-c7ab9e0cee23?auto=format&fit=crop&w=1400&q=80",
			Width:  1400,
			Height: 933,
		},
		{
			ID:     "img_003",
			Kind:   album.MediaImage,
			URI:    "https://images.unsplash.com/photo-1520975661595-6453be3f7070?auto=format&fit=crop&w=1400&q=80",
			Width:  1400,
			Height: 933,
		},
	} {
		doc.Assets[a.ID] = a
	}

	single := album.New("b1", album.TypeSingle)
	single.AssetIDs = []string{"img_001"}

	split := album.New("b2", album.TypeSplit)
	split.Variant = album.Split{ColumnWeights: [2]float64{7, 3}}
	split.AssetIDs = []string{"img_002", "img_003"}

	grid := album.New("b3", album.TypeGrid)
	grid.AssetIDs = []string{"img_003", "img_002", "img_001", "img_003"}

	doc.Blocks = []album.Block{single, split, grid}
	for i := range doc.Blocks {
		doc.Blocks[i].Normalize()
	}
	return doc
}
