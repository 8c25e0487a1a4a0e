// Package interpolate fills the missing cells of a grid with the mean of their
// orthogonal neighbours.
//
// Only directly present neighbours are used: a missing cell touching another
// missing cell is an error rather than a second-order estimate. Every lookup
// reads the input grid, so a value computed for one cell never feeds into
// another.
package interpolate

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"gridfill/internal/errors"
	"gridfill/internal/grid"
)

// offsets lists the orthogonal neighbours: up, down, left, right.
var offsets = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// FilledCell records how one missing cell was resolved.
type FilledCell struct {
	Row        int       `json:"row"`
	Col        int       `json:"col"`
	Value      float64   `json:"value"`
	Neighbours []float64 `json:"neighbours"`
}

// Result is the outcome of a fill pass.
type Result struct {
	Grid   *grid.Grid
	Filled []FilledCell
}

// Fill returns a new grid in which every missing cell of g is replaced by the
// mean of its in-bounds orthogonal neighbours. g is not modified.
//
// Cells are visited in row-major order and the first unresolvable cell stops
// the pass with *errors.AdjacentMissingError, or *errors.UndefinedMeanError
// when infinite neighbours of opposite sign cancel to NaN.
func Fill(g *grid.Grid) (*Result, error) {
	out := grid.NewBuilder(g.Rows(), g.Cols())
	result := &Result{}

	for i := 0; i < g.Rows(); i++ {
		for j := 0; j < g.Cols(); j++ {
			cell := g.At(i, j)
			if !cell.Missing {
				out.Set(i, j, cell)
				continue
			}

			neighbours, err := Neighbours(g, i, j)
			if err != nil {
				return nil, err
			}

			value := mean(neighbours)
			if math.IsNaN(value) {
				return nil, errors.NewUndefinedMeanError(i, j)
			}
			out.Set(i, j, grid.Present(value))
			result.Filled = append(result.Filled, FilledCell{
				Row:        i,
				Col:        j,
				Value:      value,
				Neighbours: neighbours,
			})
		}
	}

	result.Grid = out.Grid()
	return result, nil
}

// Neighbours returns the values of the in-bounds orthogonal neighbours of
// (row, col) in up, down, left, right order. It fails if any of them is
// missing or if there are none.
func Neighbours(g *grid.Grid, row, col int) ([]float64, error) {
	values := make([]float64, 0, len(offsets))

	for _, off := range offsets {
		r, c := row+off[0], col+off[1]
		if !g.InBounds(r, c) {
			continue
		}
		n := g.At(r, c)
		if n.Missing {
			return nil, errors.NewAdjacentMissingError(row, col, "input contains adjacent missing values")
		}
		values = append(values, n.Value)
	}

	if len(values) == 0 {
		return nil, errors.NewAdjacentMissingError(row, col, "missing value has no neighbours")
	}

	return values, nil
}

// mean averages values without letting an overflowing sum turn finite inputs
// into an infinite result.
func mean(values []float64) float64 {
	m := stat.Mean(values, nil)
	if !math.IsInf(m, 0) || math.IsInf(floats.Max(values), 0) || math.IsInf(floats.Min(values), 0) {
		return m
	}

	scaled := make([]float64, len(values))
	floats.ScaleTo(scaled, 1/float64(len(values)), values)
	return floats.Sum(scaled)
}
