package interpolate

import (
	stderrors "errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"gridfill/internal/errors"
	"gridfill/internal/grid"
)

var nan = math.NaN()

func approx() cmp.Option {
	return cmpopts.EquateApprox(1e-12, 1e-9)
}

func TestFill(t *testing.T) {
	tests := []struct {
		name     string
		input    [][]float64
		expected [][]float64
		filled   int
	}{
		{
			name:     "no missing values",
			input:    [][]float64{{7.5, 9.1}, {3.2, 1.5}},
			expected: [][]float64{{7.5, 9.1}, {3.2, 1.5}},
		},
		{
			name:     "centre and corner",
			input:    [][]float64{{1, 2, 3}, {4, nan, 6}, {7, 8, nan}},
			expected: [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 7}},
			filled:   2,
		},
		{
			name:     "scientific notation",
			input:    [][]float64{{1e7, 20000, nan}, {4e7, nan, 10000}},
			expected: [][]float64{{1e7, 20000, 15000}, {4e7, 13343333.333333334, 10000}},
			filled:   2,
		},
		{
			name:     "single line",
			input:    [][]float64{{1, nan, -1}},
			expected: [][]float64{{1, 0, -1}},
			filled:   1,
		},
		{
			name:     "single line edge",
			input:    [][]float64{{nan, 5}},
			expected: [][]float64{{5, 5}},
			filled:   1,
		},
		{
			name:     "corner with two neighbours",
			input:    [][]float64{{1, 5, nan}, {1, 3, 4}},
			expected: [][]float64{{1, 5, 4.5}, {1, 3, 4}},
			filled:   1,
		},
		{
			name:     "surrounded",
			input:    [][]float64{{1, 2, 1}, {10, nan, 8}, {1, 0, 3}},
			expected: [][]float64{{1, 2, 1}, {10, 5, 8}, {1, 0, 3}},
			filled:   1,
		},
		{
			name:     "diagonal missing values are independent",
			input:    [][]float64{{nan, 2, 1}, {10, nan, 8}, {1, 0, nan}},
			expected: [][]float64{{6, 2, 1}, {10, 5, 8}, {1, 0, 4}},
			filled:   3,
		},
		{
			name:     "large magnitudes",
			input:    [][]float64{{1e20, nan, 2e20}},
			expected: [][]float64{{1e20, 1.5e20, 2e20}},
			filled:   1,
		},
		{
			name:     "sum beyond float range",
			input:    [][]float64{{1e308, nan, 1e308}},
			expected: [][]float64{{1e308, 1e308, 1e308}},
			filled:   1,
		},
		{
			name:     "largest finite values",
			input:    [][]float64{{math.MaxFloat64}, {nan}, {math.MaxFloat64}},
			expected: [][]float64{{math.MaxFloat64}, {math.MaxFloat64}, {math.MaxFloat64}},
			filled:   1,
		},
		{
			name:     "infinite neighbour",
			input:    [][]float64{{math.Inf(1), nan, 1}},
			expected: [][]float64{{math.Inf(1), math.Inf(1), 1}},
			filled:   1,
		},
		{
			name:     "single column",
			input:    [][]float64{{2}, {nan}, {4}},
			expected: [][]float64{{2}, {3}, {4}},
			filled:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Fill(grid.FromFloats(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tt.expected, result.Grid.Values(), approx()); diff != "" {
				t.Errorf("filled grid mismatch (-want +got):\n%s", diff)
			}
			if len(result.Filled) != tt.filled {
				t.Errorf("expected %d filled cells, got %d", tt.filled, len(result.Filled))
			}
			if result.Grid.MissingCount() != 0 {
				t.Errorf("expected no missing cells, got %d", result.Grid.MissingCount())
			}
		})
	}
}

func TestFillAdjacentMissing(t *testing.T) {
	tests := []struct {
		name      string
		input     [][]float64
		row, col  int
		expectMsg string
	}{
		{
			name:      "two missing at start of row",
			input:     [][]float64{{nan, nan, 3}},
			row:       0,
			col:       0,
			expectMsg: "input contains adjacent missing values at row 0, column 0",
		},
		{
			name:      "two missing at end of row",
			input:     [][]float64{{1, nan, nan}},
			row:       0,
			col:       1,
			expectMsg: "input contains adjacent missing values",
		},
		{
			name:      "vertical pair",
			input:     [][]float64{{1, 2}, {3, nan}, {5, nan}},
			row:       1,
			col:       1,
			expectMsg: "input contains adjacent missing values",
		},
		{
			name:      "lone missing cell",
			input:     [][]float64{{nan}},
			row:       0,
			col:       0,
			expectMsg: "missing value has no neighbours at row 0, column 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Fill(grid.FromFloats(tt.input))
			if err == nil {
				t.Fatalf("expected error, got result %v", result.Grid.Values())
			}

			var adjErr *errors.AdjacentMissingError
			if !stderrors.As(err, &adjErr) {
				t.Fatalf("expected *errors.AdjacentMissingError, got %T: %v", err, err)
			}
			if adjErr.Row != tt.row || adjErr.Col != tt.col {
				t.Errorf("expected cell (%d,%d), got (%d,%d)", tt.row, tt.col, adjErr.Row, adjErr.Col)
			}
			if !strings.Contains(err.Error(), tt.expectMsg) {
				t.Errorf("expected message containing %q, got %q", tt.expectMsg, err.Error())
			}
		})
	}
}

func TestFillUndefinedMean(t *testing.T) {
	tests := []struct {
		name     string
		input    [][]float64
		row, col int
	}{
		{
			name:  "opposite infinities in a row",
			input: [][]float64{{math.Inf(1), nan, math.Inf(-1)}},
			row:   0,
			col:   1,
		},
		{
			name:  "opposite infinities in a column",
			input: [][]float64{{1, math.Inf(-1)}, {2, nan}, {3, math.Inf(1)}},
			row:   1,
			col:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Fill(grid.FromFloats(tt.input))
			if err == nil {
				t.Fatalf("expected error, got result %v", result.Grid.Values())
			}

			var meanErr *errors.UndefinedMeanError
			if !stderrors.As(err, &meanErr) {
				t.Fatalf("expected *errors.UndefinedMeanError, got %T: %v", err, err)
			}
			if meanErr.Row != tt.row || meanErr.Col != tt.col {
				t.Errorf("expected cell (%d,%d), got (%d,%d)", tt.row, tt.col, meanErr.Row, meanErr.Col)
			}
			if !strings.Contains(err.Error(), "neighbour values have no defined mean") {
				t.Errorf("unexpected message: %q", err.Error())
			}
		})
	}
}

func TestFillDoesNotMutateInput(t *testing.T) {
	g := grid.FromFloats([][]float64{{1, nan}, {3, 4}})

	if _, err := Fill(g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !g.Missing(0, 1) {
		t.Error("input grid was modified by Fill")
	}
}

func TestFillPresentCellsUnchanged(t *testing.T) {
	input := [][]float64{{1.1, nan, 3.3}, {-4.4, 5.5e10, nan}, {7e-7, nan, 9}}
	g := grid.FromFloats(input)

	result, err := Fill(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, row := range input {
		for j, v := range row {
			if math.IsNaN(v) {
				continue
			}
			if got := result.Grid.At(i, j).Value; got != v {
				t.Errorf("present cell (%d,%d) changed: %v -> %v", i, j, v, got)
			}
		}
	}
}

func TestFillIdempotent(t *testing.T) {
	g := grid.FromFloats([][]float64{{1, nan, 3}, {4, 5, 6}})

	first, err := Fill(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Fill(first.Grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !first.Grid.Equal(second.Grid, 0) {
		t.Errorf("expected filling a complete grid to be a no-op, got %v", second.Grid.Values())
	}
	if len(second.Filled) != 0 {
		t.Errorf("expected no filled cells on second pass, got %d", len(second.Filled))
	}
}

func TestFillEmptyGrid(t *testing.T) {
	result, err := Fill(grid.New(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Grid.Empty() {
		t.Errorf("expected empty grid, got %dx%d", result.Grid.Rows(), result.Grid.Cols())
	}
}

func TestFilledCells(t *testing.T) {
	result, err := Fill(grid.FromFloats([][]float64{{1, 2, 3}, {4, nan, 6}, {7, 8, nan}}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []FilledCell{
		{Row: 1, Col: 1, Value: 5, Neighbours: []float64{2, 8, 4, 6}},
		{Row: 2, Col: 2, Value: 7, Neighbours: []float64{6, 8}},
	}
	if diff := cmp.Diff(expected, result.Filled, approx()); diff != "" {
		t.Errorf("filled cells mismatch (-want +got):\n%s", diff)
	}
}

func TestNeighbours(t *testing.T) {
	g := grid.FromFloats([][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})

	tests := []struct {
		name     string
		row, col int
		expected []float64
	}{
		{"centre", 1, 1, []float64{2, 8, 4, 6}},
		{"top left corner", 0, 0, []float64{4, 2}},
		{"bottom right corner", 2, 2, []float64{6, 8}},
		{"top edge", 0, 1, []float64{5, 1, 3}},
		{"left edge", 1, 0, []float64{1, 7, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Neighbours(g, tt.row, tt.col)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("neighbours mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
