package placement

import "github.com/matzehuels/albumstack/pkg/album"

// occupancy is a row-major bitmap with a fixed column count and as many rows
// as placement demands.
type occupancy struct {
	columns int
	rows    [][]bool
}

func (o *occupancy) grow(n int) {
	for len(o.rows) < n {
		o.rows = append(o.rows, make([]bool, o.columns))
	}
}

func (o *occupancy) free(row, col, rows, cols int) bool {
	if col+cols > o.columns {
		return false
	}
	o.grow(row + rows)
	for r := row; r < row+rows; r++ {
		for c := col; c < col+cols; c++ {
			if o.rows[r][c] {
				return false
			}
		}
	}
	return true
}

func (o *occupancy) mark(row, col, rows, cols int) {
	o.grow(row + rows)
	for r := row; r < row+rows; r++ {
		for c := col; c < col+cols; c++ {
			o.rows[r][c] = true
		}
	}
}

// used returns the number of rows holding at least one occupied cell.
func (o *occupancy) used() int {
	for r := len(o.rows) - 1; r >= 0; r-- {
		for _, taken := range o.rows[r] {
			if taken {
				return r + 1
			}
		}
	}
	return 0
}

// GridCells runs row-major first-fit auto-flow for n slots of g.
//
// Each slot, in order, takes the first top-left cell (scanning from the
// origin, left to right, top to bottom) whose cols×rows rectangle lies within
// the column bound and is entirely free. Rows are added as needed; there is
// no cap. A span wider than the grid is clamped to the column count for this
// computation only and starts column 0 of a fresh row below everything placed
// so far. The grid's stored spans are never modified.
func GridCells(g album.Grid, n int) []Cell {
	columns := max(g.Columns, 1)
	occ := &occupancy{columns: columns}
	cells := make([]Cell, n)

	for i := range n {
		span := g.SpanAt(i)
		rows, cols := max(span.Rows, 1), max(span.Cols, 1)

		if cols > columns {
			c := Cell{Row: occ.used(), Col: 0, Rows: rows, Cols: columns}
			occ.mark(c.Row, c.Col, c.Rows, c.Cols)
			cells[i] = c
			continue
		}

		cells[i] = firstFit(occ, rows, cols)
	}
	return cells
}

func firstFit(occ *occupancy, rows, cols int) Cell {
	for row := 0; ; row++ {
		for col := 0; col+cols <= occ.columns; col++ {
			if occ.free(row, col, rows, cols) {
				occ.mark(row, col, rows, cols)
				return Cell{Row: row, Col: col, Rows: rows, Cols: cols}
			}
		}
	}
}
