package placement

import (
	"math"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/matzehuels/albumstack/pkg/album"
	apperr "github.com/matzehuels/albumstack/pkg/errors"
	"github.com/matzehuels/albumstack/pkg/geom"
)

func gridBlock(columns int, ids []string, spans []album.Span) album.Block {
	b := album.New("g", album.TypeGrid)
	b.AssetIDs = ids
	b.Variant = album.Grid{Columns: columns, Spans: spans}
	b.Normalize()
	return b
}

func TestPlaceGridExample(t *testing.T) {
	b := gridBlock(2, []string{"a", "b", "c", "d"}, []album.Span{{1, 1}, {1, 1}, {2, 1}, {1, 1}})

	wantCells := []Cell{
		{Row: 0, Col: 0, Rows: 1, Cols: 1},
		{Row: 0, Col: 1, Rows: 1, Cols: 1},
		{Row: 1, Col: 0, Rows: 1, Cols: 2},
		{Row: 2, Col: 0, Rows: 1, Cols: 1},
	}
	if got := Cells(b); !reflect.DeepEqual(got, wantCells) {
		t.Fatalf("Cells() = %+v, want %+v", got, wantCells)
	}

	// 400 wide, pad 8: content 384, cells (384-8)/2 = 188.
	rects, err := Place(b, 400)
	if err != nil {
		t.Fatal(err)
	}
	want := []geom.Rect{
		{X: 8, Y: 8, Width: 188, Height: 188},
		{X: 204, Y: 8, Width: 188, Height: 188},
		{X: 8, Y: 204, Width: 384, Height: 188},
		{X: 8, Y: 400, Width: 188, Height: 188},
	}
	if !reflect.DeepEqual(rects, want) {
		t.Errorf("Place() = %+v, want %+v", rects, want)
	}
	if got := Height(b, 400); got != 596 {
		t.Errorf("Height() = %v, want 596", got)
	}
}

func TestGridCellsFirstFit(t *testing.T) {
	tests := []struct {
		name  string
		grid  album.Grid
		n     int
		cells []Cell
	}{
		{
			name: "BackFillsEarlierRow",
			grid: album.Grid{Columns: 3, Spans: []album.Span{{2, 1}, {2, 1}, {1, 1}}},
			n:    3,
			cells: []Cell{
				{Row: 0, Col: 0, Rows: 1, Cols: 2},
				{Row: 1, Col: 0, Rows: 1, Cols: 2},
				{Row: 0, Col: 2, Rows: 1, Cols: 1},
			},
		},
		{
			name: "TallSpan",
			grid: album.Grid{Columns: 2, Spans: []album.Span{{1, 2}}},
			n:    3,
			cells: []Cell{
				{Row: 0, Col: 0, Rows: 2, Cols: 1},
				{Row: 0, Col: 1, Rows: 1, Cols: 1},
				{Row: 1, Col: 1, Rows: 1, Cols: 1},
			},
		},
		{
			name: "OverwideClampedToNewRow",
			grid: album.Grid{Columns: 2, Spans: []album.Span{{1, 1}, {3, 1}, {1, 1}}},
			n:    3,
			cells: []Cell{
				{Row: 0, Col: 0, Rows: 1, Cols: 1},
				{Row: 1, Col: 0, Rows: 1, Cols: 2},
				{Row: 0, Col: 1, Rows: 1, Cols: 1},
			},
		},
		{
			name:  "NoSlots",
			grid:  album.Grid{Columns: 4},
			n:     0,
			cells: []Cell{},
		},
		{
			name: "RowsGrowWithoutCap",
			grid: album.Grid{Columns: 2},
			n:    9,
			cells: func() []Cell {
				out := make([]Cell, 9)
				for i := range out {
					out[i] = Cell{Row: i / 2, Col: i % 2, Rows: 1, Cols: 1}
				}
				return out
			}(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GridCells(tt.grid, tt.n)
			if !reflect.DeepEqual(got, tt.cells) {
				t.Errorf("GridCells() = %+v, want %+v", got, tt.cells)
			}
		})
	}
}

func TestGridCellsDoesNotMutateSpans(t *testing.T) {
	spans := []album.Span{{3, 1}}
	GridCells(album.Grid{Columns: 2, Spans: spans}, 1)
	if spans[0] != (album.Span{3, 1}) {
		t.Errorf("spans mutated: %v", spans)
	}
}

func TestGridNoOverlap(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	for trial := range 200 {
		columns := album.MinColumns + rng.IntN(album.MaxColumns-album.MinColumns+1)
		n := rng.IntN(12)
		ids := make([]string, n)
		spans := make([]album.Span, n)
		for i := range n {
			ids[i] = "a"
			spans[i] = album.Span{Cols: 1 + rng.IntN(columns), Rows: 1 + rng.IntN(columns)}
		}
		b := gridBlock(columns, ids, spans)
		b.Spacing = album.Spacing{GapX: rng.IntN(25), GapY: rng.IntN(25), PadX: 8, PadY: 8}

		cells := Cells(b)
		for i, c := range cells {
			if c.Col < 0 || c.Col+c.Cols > columns {
				t.Fatalf("trial %d: cell %d out of column bound: %+v", trial, i, c)
			}
			for j := i + 1; j < len(cells); j++ {
				if cellsOverlap(c, cells[j]) {
					t.Fatalf("trial %d: cells %d and %d overlap: %+v %+v", trial, i, j, c, cells[j])
				}
			}
		}

		rects, err := Place(b, 480)
		if err != nil {
			t.Fatal(err)
		}
		for i := range rects {
			for j := i + 1; j < len(rects); j++ {
				if inset(rects[i]).Intersects(inset(rects[j])) {
					t.Fatalf("trial %d: rects %d and %d intersect", trial, i, j)
				}
			}
		}
	}
}

// inset shrinks r slightly so that rects sharing an edge up to float
// rounding do not count as intersecting.
func inset(r geom.Rect) geom.Rect {
	const eps = 1e-6
	return geom.Rect{X: r.X + eps, Y: r.Y + eps, Width: r.Width - 2*eps, Height: r.Height - 2*eps}
}

func cellsOverlap(a, b Cell) bool {
	return a.Col < b.Col+b.Cols && b.Col < a.Col+a.Cols &&
		a.Row < b.Row+b.Rows && b.Row < a.Row+a.Rows
}

func TestPlaceDeterministic(t *testing.T) {
	b := gridBlock(3, []string{"a", "b", "c", "d", "e"}, []album.Span{{2, 2}, {}, {3, 1}})
	first, _ := Place(b, 512)
	for range 10 {
		again, _ := Place(b, 512)
		if !reflect.DeepEqual(first, again) {
			t.Fatal("Place() not deterministic")
		}
	}
}

func TestPlaceSingle(t *testing.T) {
	b := album.New("s", album.TypeSingle)
	rects, err := Place(b, 400)
	if err != nil {
		t.Fatal(err)
	}
	want := []geom.Rect{{X: 8, Y: 8, Width: 384, Height: 384}}
	if !reflect.DeepEqual(rects, want) {
		t.Errorf("Place() = %+v, want %+v", rects, want)
	}

	b.AssetIDs = []string{"a", "b", "c"}
	if rects, _ := Place(b, 400); len(rects) != 1 {
		t.Errorf("single with trailing ids placed %d rects", len(rects))
	}
}

func TestPlaceSplitConservation(t *testing.T) {
	for _, w := range [][2]float64{{1, 1}, {7, 3}, {1, 12}, {5, 5}, {11, 2}} {
		for _, gap := range []int{0, 8, 24} {
			b := album.New("s", album.TypeSplit)
			b.Variant = album.Split{ColumnWeights: w}
			b.Spacing.GapX = gap

			rects, err := Place(b, 420)
			if err != nil {
				t.Fatal(err)
			}
			if len(rects) != 2 {
				t.Fatalf("len = %d", len(rects))
			}
			content := 420.0 - 2*8
			sum := rects[0].Width + rects[1].Width + float64(gap)
			if math.Abs(sum-content) > 1e-9 {
				t.Errorf("weights %v gap %d: widths sum to %v, want %v", w, gap, sum, content)
			}
			if math.Abs(rects[1].X-(rects[0].Right()+float64(gap))) > 1e-9 {
				t.Errorf("weights %v: right slot at %v", w, rects[1].X)
			}
			if math.Abs(rects[0].Height-(420*0.6-16)) > 1e-9 {
				t.Errorf("height = %v", rects[0].Height)
			}
		}
	}
}

func TestPlaceAspectHeight(t *testing.T) {
	prev := 0.0
	for _, aspect := range []float64{0.2, 0.5, 1, 1.5, 2} {
		b := album.New("s", album.TypeSingle)
		b.Aspect = aspect
		h := Height(b, 300)
		if h <= prev {
			t.Errorf("height not increasing at aspect %v", aspect)
		}
		prev = h
	}
}

func TestPlaceErrors(t *testing.T) {
	if _, err := Place(album.New("s", album.TypeSingle), 0); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("zero width: err = %v", err)
	}
	if _, err := Place(album.Block{ID: "x"}, 100); !apperr.Is(err, apperr.ErrCodeStructural) {
		t.Errorf("nil variant: err = %v", err)
	}
}
