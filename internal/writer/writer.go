// Package writer serialises filled grids back to delimited text.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gridfill/internal/errors"
	"gridfill/internal/grid"
)

const defaultFileMode os.FileMode = 0o644

// FormatValue renders v in the shortest form that parses back to the same
// float64.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Encode writes g to w, one record per row. Every cell must be present.
func Encode(w io.Writer, g *grid.Grid, delimiter rune) error {
	if n := g.MissingCount(); n > 0 {
		return errors.NewFillError(fmt.Sprintf("grid still contains %d missing values", n))
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	record := make([]string, g.Cols())
	for i := 0; i < g.Rows(); i++ {
		for j := range record {
			record[j] = FormatValue(g.At(i, j).Value)
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteGrid writes g to filePath. The data is written to a temporary file in
// the same directory and renamed into place, so filePath is either left as it
// was or fully replaced. Any failure is reported as *errors.WriteError, except
// an unfilled grid which is an *errors.FillError.
func WriteGrid(g *grid.Grid, filePath string, delimiter rune) (err error) {
	if n := g.MissingCount(); n > 0 {
		return errors.NewFillError(fmt.Sprintf("grid still contains %d missing values", n))
	}

	mode := defaultFileMode
	if info, statErr := os.Stat(filePath); statErr == nil {
		if !info.Mode().IsRegular() {
			return errors.NewWriteError(filePath, fmt.Errorf("%s is not a regular file", filePath))
		}
		mode = info.Mode().Perm()
	}

	dir, base := filepath.Split(filePath)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return errors.NewWriteError(filePath, err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = Encode(tmp, g, delimiter); err != nil {
		return errors.NewWriteError(filePath, err)
	}
	if err = tmp.Sync(); err != nil {
		return errors.NewWriteError(filePath, err)
	}
	if err = tmp.Close(); err != nil {
		return errors.NewWriteError(filePath, err)
	}
	if err = os.Chmod(tmpPath, mode); err != nil {
		return errors.NewWriteError(filePath, err)
	}
	if err = os.Rename(tmpPath, filePath); err != nil {
		return errors.NewWriteError(filePath, err)
	}

	return nil
}
