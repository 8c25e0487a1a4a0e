// Package parser loads delimited text files into grids.
// Each record becomes a row and each field a cell: the exact token "nan"
// marks a missing cell, anything else must parse as a float64.
package parser

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"gridfill/internal/errors"
	"gridfill/internal/grid"
)

// MissingToken is the on-disk encoding of a missing cell. Matching is exact
// and case-sensitive.
const MissingToken = "nan"

// DefaultDelimiter separates fields within a record.
const DefaultDelimiter = ','

// LoadGrid reads the delimited file at filePath into a Grid.
// A missing file yields *errors.NotFoundError; unparseable content yields
// *errors.FormatError. An empty file yields an empty grid.
func LoadGrid(filePath string, delimiter rune) (*grid.Grid, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.WrapFileError(filePath, err)
	}
	defer file.Close()

	return ParseGrid(file, filePath, delimiter)
}

// ParseGrid parses delimited text from reader. filePath is only used to give
// errors context.
func ParseGrid(reader io.Reader, filePath string, delimiter rune) (*grid.Grid, error) {
	records, err := readRecords(reader, filePath, delimiter)
	if err != nil {
		return nil, err
	}

	if err := checkRectangular(records, filePath); err != nil {
		return nil, err
	}

	rows := make([][]grid.Cell, len(records))
	for i, record := range records {
		row := make([]grid.Cell, len(record))
		for j, field := range record {
			cell, err := parseCell(field, filePath)
			if err != nil {
				return nil, err
			}
			row[j] = cell
		}
		rows[i] = row
	}

	return grid.New(rows), nil
}

func readRecords(reader io.Reader, filePath string, delimiter rune) ([][]string, error) {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	// Row lengths are checked by checkRectangular so the error names the row.
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if stderrors.As(err, &parseErr) {
			return nil, errors.NewFormatError(filePath, "",
				fmt.Sprintf("malformed input at line %d: %v", parseErr.Line, parseErr.Err), err)
		}
		return nil, errors.NewFileError(filePath, "failed to read input", err)
	}

	return records, nil
}

func checkRectangular(records [][]string, filePath string) error {
	if len(records) == 0 {
		return nil
	}

	width := len(records[0])
	for i, record := range records {
		if len(record) != width {
			return errors.NewFormatError(filePath, "",
				fmt.Sprintf("row %d has %d fields, expected %d", i, len(record), width), nil)
		}
	}
	return nil
}

func parseCell(field, filePath string) (grid.Cell, error) {
	if field == MissingToken {
		return grid.Absent(), nil
	}

	value, err := strconv.ParseFloat(field, 64)
	if err != nil && !stderrors.Is(err, strconv.ErrRange) {
		return grid.Cell{}, errors.NewUnexpectedTokenError(filePath, field, err)
	}
	// "NaN" and friends parse, but only the exact missing token may mean
	// missing and a present NaN would poison every neighbouring average.
	if math.IsNaN(value) {
		return grid.Cell{}, errors.NewUnexpectedTokenError(filePath, field, nil)
	}

	return grid.Present(value), nil
}
