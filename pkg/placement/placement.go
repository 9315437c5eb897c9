package placement

import (
	"math"

	"github.com/matzehuels/albumstack/pkg/album"
	apperr "github.com/matzehuels/albumstack/pkg/errors"
	"github.com/matzehuels/albumstack/pkg/geom"
)

// Cell is the integer grid position of one grid slot.
type Cell struct {
	Row  int `json:"row"`
	Col  int `json:"col"`
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Place computes the slot rectangles of b laid out at containerWidth.
// Rectangles are relative to the block's top-left corner and returned in
// slot order: one for single, two for split, one per asset id for grid.
//
// Place is pure: the same block and width always yield the same sequence.
// Blocks are expected to be valid; callers that hold unvalidated data should
// run [album.Block.Validate] first.
func Place(b album.Block, containerWidth float64) ([]geom.Rect, error) {
	box, err := contentBox(b, containerWidth)
	if err != nil {
		return nil, err
	}

	switch v := b.Variant.(type) {
	case album.Single:
		return []geom.Rect{box}, nil
	case album.Split:
		return placeSplit(v, b.Spacing, box), nil
	case album.Grid:
		cells := GridCells(v, len(b.AssetIDs))
		rects := make([]geom.Rect, len(cells))
		for i, c := range cells {
			rects[i] = cellRect(c, v.Columns, b.Spacing, box)
		}
		return rects, nil
	}
	return nil, apperr.New(apperr.ErrCodeUnsupported, "block %q: unknown variant %T", b.ID, b.Variant)
}

// Height returns the outer height of b at containerWidth. Single and split
// blocks are exactly width*aspect; grid blocks use that as a minimum and grow
// to fit every placed row.
func Height(b album.Block, containerWidth float64) float64 {
	h := geom.ResolveHeight(containerWidth, b.Aspect)
	g, ok := b.Variant.(album.Grid)
	if !ok || len(b.AssetIDs) == 0 {
		return h
	}
	rows := RowCount(GridCells(g, len(b.AssetIDs)))
	side := cellSide(g.Columns, b.Spacing, contentWidth(b, containerWidth))
	need := 2*float64(b.Spacing.PadY) + float64(rows)*side + float64(max(rows-1, 0))*float64(b.Spacing.GapY)
	return math.Max(h, need)
}

// Cells returns the grid cell assignment of b, or nil for non-grid blocks.
func Cells(b album.Block) []Cell {
	g, ok := b.Variant.(album.Grid)
	if !ok {
		return nil
	}
	return GridCells(g, len(b.AssetIDs))
}

// RowCount returns the number of grid rows the cells occupy.
func RowCount(cells []Cell) int {
	rows := 0
	for _, c := range cells {
		rows = max(rows, c.Row+c.Rows)
	}
	return rows
}

func contentWidth(b album.Block, containerWidth float64) float64 {
	return math.Max(0, containerWidth-2*float64(b.Spacing.PadX))
}

func contentBox(b album.Block, containerWidth float64) (geom.Rect, error) {
	if math.IsNaN(containerWidth) || math.IsInf(containerWidth, 0) || containerWidth <= 0 {
		return geom.Rect{}, apperr.New(apperr.ErrCodeInvalidInput, "container width must be positive, got %v", containerWidth)
	}
	if b.Variant == nil {
		return geom.Rect{}, apperr.Structural(-1, "type", "block %q has no variant", b.ID)
	}
	sp := b.Spacing
	h := Height(b, containerWidth)
	return geom.Rect{
		X:      float64(sp.PadX),
		Y:      float64(sp.PadY),
		Width:  contentWidth(b, containerWidth),
		Height: math.Max(0, h-2*float64(sp.PadY)),
	}, nil
}

func placeSplit(v album.Split, sp album.Spacing, box geom.Rect) []geom.Rect {
	gap := float64(sp.GapX)
	avail := math.Max(0, box.Width-gap)
	w0, w1 := v.ColumnWeights[0], v.ColumnWeights[1]
	left := avail * w0 / (w0 + w1)
	right := avail - left
	return []geom.Rect{
		{X: box.X, Y: box.Y, Width: left, Height: box.Height},
		{X: box.X + left + gap, Y: box.Y, Width: right, Height: box.Height},
	}
}

func cellSide(columns int, sp album.Spacing, width float64) float64 {
	if columns < 1 {
		columns = 1
	}
	return math.Max(0, (width-float64(columns-1)*float64(sp.GapX))/float64(columns))
}

func cellRect(c Cell, columns int, sp album.Spacing, box geom.Rect) geom.Rect {
	side := cellSide(columns, sp, box.Width)
	gx, gy := float64(sp.GapX), float64(sp.GapY)
	return geom.Rect{
		X:      box.X + float64(c.Col)*(side+gx),
		Y:      box.Y + float64(c.Row)*(side+gy),
		Width:  float64(c.Cols)*side + float64(c.Cols-1)*gx,
		Height: float64(c.Rows)*side + float64(c.Rows-1)*gy,
	}
}
