// Package grid defines the rectangular matrix of optional numeric values that
// flows through the load, fill and write stages.
package grid

import (
	"math"
)

// Cell holds either a present numeric value or a missing marker.
type Cell struct {
	Value   float64
	Missing bool
}

// Present returns a cell holding v.
func Present(v float64) Cell {
	return Cell{Value: v}
}

// Absent returns a missing cell.
func Absent() Cell {
	return Cell{Missing: true}
}

// Grid is an m x n row-major matrix of cells. Every row has the same length.
// A Grid is never modified after construction; stages that derive new values
// build a new Grid.
type Grid struct {
	cells [][]Cell
	cols  int
}

// New builds a Grid from rows. The rows are copied. It panics if the rows are
// not all the same length; callers that read untrusted input must check
// rectangularity first and report it as a format error.
func New(rows [][]Cell) *Grid {
	g := &Grid{cells: make([][]Cell, len(rows))}
	if len(rows) > 0 {
		g.cols = len(rows[0])
	}
	for i, row := range rows {
		if len(row) != g.cols {
			panic("grid: ragged rows")
		}
		g.cells[i] = append([]Cell(nil), row...)
	}
	return g
}

// FromFloats builds a Grid from plain values, treating NaN as a missing cell.
func FromFloats(rows [][]float64) *Grid {
	cells := make([][]Cell, len(rows))
	for i, row := range rows {
		cells[i] = make([]Cell, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				cells[i][j] = Absent()
			} else {
				cells[i][j] = Present(v)
			}
		}
	}
	return New(cells)
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return len(g.cells)
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	return g.cols
}

// Empty reports whether the grid has no cells.
func (g *Grid) Empty() bool {
	return g.Rows() == 0 || g.cols == 0
}

// InBounds reports whether (row, col) addresses a cell of the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.Rows() && col >= 0 && col < g.cols
}

// At returns the cell at (row, col). It panics when out of bounds.
func (g *Grid) At(row, col int) Cell {
	return g.cells[row][col]
}

// Missing reports whether the cell at (row, col) is missing.
func (g *Grid) Missing(row, col int) bool {
	return g.cells[row][col].Missing
}

// MissingCount returns the number of missing cells.
func (g *Grid) MissingCount() int {
	n := 0
	for _, row := range g.cells {
		for _, c := range row {
			if c.Missing {
				n++
			}
		}
	}
	return n
}

// Values returns the grid as plain values with NaN in place of missing cells.
func (g *Grid) Values() [][]float64 {
	out := make([][]float64, len(g.cells))
	for i, row := range g.cells {
		out[i] = make([]float64, len(row))
		for j, c := range row {
			if c.Missing {
				out[i][j] = math.NaN()
			} else {
				out[i][j] = c.Value
			}
		}
	}
	return out
}

// Equal reports whether g and other have the same shape, the same missing
// cells and present values that differ by at most tolerance.
func (g *Grid) Equal(other *Grid, tolerance float64) bool {
	if g.Rows() != other.Rows() || g.Cols() != other.Cols() {
		return false
	}
	for i, row := range g.cells {
		for j, c := range row {
			o := other.cells[i][j]
			if c.Missing != o.Missing {
				return false
			}
			if c.Missing || c.Value == o.Value {
				continue
			}
			if math.Abs(c.Value-o.Value) > tolerance {
				return false
			}
		}
	}
	return true
}

// Builder fills in the cells of a new grid one at a time.
type Builder struct {
	cells [][]Cell
}

// NewBuilder returns a Builder for a rows x cols grid with every cell missing.
func NewBuilder(rows, cols int) *Builder {
	b := &Builder{cells: make([][]Cell, rows)}
	for i := range b.cells {
		b.cells[i] = make([]Cell, cols)
		for j := range b.cells[i] {
			b.cells[i][j] = Absent()
		}
	}
	return b
}

// Set stores c at (row, col).
func (b *Builder) Set(row, col int, c Cell) {
	b.cells[row][col] = c
}

// Grid returns the built grid. The Builder must not be used afterwards.
func (b *Builder) Grid() *Grid {
	g := &Grid{cells: b.cells}
	if len(b.cells) > 0 {
		g.cols = len(b.cells[0])
	}
	b.cells = nil
	return g
}
