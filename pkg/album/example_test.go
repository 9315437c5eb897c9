package album_test

import (
	"fmt"

	"github.com/matzehuels/albumstack/pkg/album"
)

func ExampleNormalizeSpans() {
	ids := []string{"img_001", "img_002", "img_003", "img_004"}
	raw := []album.Span{{}, {}, {Cols: 5}}

	// Holes are back-filled, the explicit span is clamped to 2 columns and
	// the last slot gets the default.
	fmt.Println(album.NormalizeSpans(ids, raw, 2))
	// Output:
	// [{1 1} {1 1} {2 1} {1 1}]
}

func ExampleDecodeBlocks() {
	data := []byte(`[
		{"id": "b1", "type": "single", "assetIds": ["img_001"]},
		{"id": "b2", "type": "grid", "columns": 5, "assetIds": []}
	]`)

	_, err := album.DecodeBlocks(data)
	fmt.Println(err)
	// Output:
	// RANGE: blocks[1].columns: 5 outside [2, 4]
}
