// Package log provides progress logging and run reports for gridfill.
// It supports summary, JSON and CSV report formats and records every filled
// cell so a run can be audited after the fact.
package log

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gridfill/internal/config"
	"gridfill/internal/interpolate"
	"gridfill/internal/writer"
)

// Entry represents a single filled cell.
type Entry struct {
	Row        int       `json:"row"`
	Col        int       `json:"col"`
	Value      float64   `json:"value"`
	Neighbours []float64 `json:"neighbours"`
}

// Summary provides aggregate statistics for one run.
type Summary struct {
	InputPath      string        `json:"input_path"`
	OutputPath     string        `json:"output_path"`
	Rows           int           `json:"rows"`
	Cols           int           `json:"cols"`
	MissingCells   int           `json:"missing_cells"`
	FilledCells    int           `json:"filled_cells"`
	BackupPath     string        `json:"backup_path,omitempty"`
	Error          string        `json:"error,omitempty"`
	ProcessingTime time.Duration `json:"processing_time"`
	DryRun         bool          `json:"dry_run"`
}

// Logger prints progress lines and writes the final run report.
type Logger struct {
	config  *config.Config
	writer  io.Writer
	entries []Entry
	summary Summary
}

// NewLogger creates a Logger writing to the configured log file, or to
// stdout when none is set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	var w io.Writer = os.Stdout

	if cfg.LogFile != "" {
		file, err := os.Create(cfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file %s: %w", cfg.LogFile, err)
		}
		w = file
	}

	return NewLoggerWithWriter(cfg, w), nil
}

// NewLoggerWithWriter creates a Logger writing to w.
func NewLoggerWithWriter(cfg *config.Config, w io.Writer) *Logger {
	return &Logger{
		config:  cfg,
		writer:  w,
		entries: []Entry{},
		summary: Summary{
			InputPath:  cfg.InputPath,
			OutputPath: cfg.OutputPath,
			DryRun:     cfg.DryRun,
		},
	}
}

// SetGrid records the shape of the loaded grid.
func (l *Logger) SetGrid(rows, cols, missing int) {
	l.summary.Rows = rows
	l.summary.Cols = cols
	l.summary.MissingCells = missing
}

// LogResult records the cells filled by a fill pass.
func (l *Logger) LogResult(result *interpolate.Result) {
	for _, filled := range result.Filled {
		entry := Entry{
			Row:        filled.Row,
			Col:        filled.Col,
			Value:      filled.Value,
			Neighbours: filled.Neighbours,
		}
		l.entries = append(l.entries, entry)
		l.summary.FilledCells++

		if l.config.IsVerbose() {
			l.logVerbose(entry)
		}
	}
}

// SetBackupPath records where the previous output was copied to.
func (l *Logger) SetBackupPath(path string) {
	l.summary.BackupPath = path
}

// LogError records the failure that ended the run.
func (l *Logger) LogError(err error) {
	if err == nil {
		return
	}
	l.summary.Error = err.Error()
}

// SetProcessingTime records the total run duration.
func (l *Logger) SetProcessingTime(duration time.Duration) {
	l.summary.ProcessingTime = duration
}

// WriteReport generates the final run report in the configured format.
func (l *Logger) WriteReport() error {
	if l.config.Quiet {
		return nil
	}

	switch l.config.LogFormat {
	case config.LogFormatJSON:
		return l.writeJSONReport()
	case config.LogFormatCSV:
		return l.writeCSVReport()
	default:
		return l.writeSummaryReport()
	}
}

func (l *Logger) logVerbose(entry Entry) {
	fmt.Fprintf(l.writer, "FILLED: row %d, column %d = %s (%d neighbours)\n",
		entry.Row, entry.Col, writer.FormatValue(entry.Value), len(entry.Neighbours))
	if l.config.IsDebug() {
		fmt.Fprintf(l.writer, "  neighbours: %s\n", formatValues(entry.Neighbours, ", "))
	}
}

func (l *Logger) writeJSONReport() error {
	report := struct {
		Summary Summary `json:"summary"`
		Entries []Entry `json:"entries"`
	}{
		Summary: l.summary,
		Entries: l.entries,
	}

	encoder := json.NewEncoder(l.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (l *Logger) writeCSVReport() error {
	csvWriter := csv.NewWriter(l.writer)

	header := []string{"row", "col", "value", "neighbours"}
	if err := csvWriter.Write(header); err != nil {
		return err
	}

	for _, entry := range l.entries {
		record := []string{
			strconv.Itoa(entry.Row),
			strconv.Itoa(entry.Col),
			writer.FormatValue(entry.Value),
			formatValues(entry.Neighbours, " "),
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	// Statistics trail the records as comments.
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return err
	}
	fmt.Fprintf(l.writer, "# gridfill CSV Report (%s)\n", l.mode())
	fmt.Fprintf(l.writer, "# Grid: %d x %d\n", l.summary.Rows, l.summary.Cols)
	fmt.Fprintf(l.writer, "# Missing cells: %d\n", l.summary.MissingCells)
	fmt.Fprintf(l.writer, "# Filled cells: %d\n", l.summary.FilledCells)
	if l.summary.Error != "" {
		fmt.Fprintf(l.writer, "# Error: %s\n", l.summary.Error)
	}
	fmt.Fprintf(l.writer, "# Processing time: %v\n", l.summary.ProcessingTime)
	fmt.Fprintf(l.writer, "#\n")

	return nil
}

func (l *Logger) writeSummaryReport() error {
	fmt.Fprintf(l.writer, "\n=== gridfill Summary (%s) ===\n", l.mode())
	fmt.Fprintf(l.writer, "Input: %s\n", l.summary.InputPath)
	fmt.Fprintf(l.writer, "Output: %s\n", l.summary.OutputPath)
	fmt.Fprintf(l.writer, "Grid: %d x %d\n", l.summary.Rows, l.summary.Cols)
	fmt.Fprintf(l.writer, "Missing cells: %d\n", l.summary.MissingCells)
	fmt.Fprintf(l.writer, "Filled cells: %d\n", l.summary.FilledCells)
	if l.summary.BackupPath != "" {
		fmt.Fprintf(l.writer, "Backup: %s\n", l.summary.BackupPath)
	}
	fmt.Fprintf(l.writer, "Processing time: %v\n", l.summary.ProcessingTime)

	if l.summary.Error != "" {
		fmt.Fprintf(l.writer, "\nError encountered:\n  %s\n", l.summary.Error)
	}

	return nil
}

func (l *Logger) mode() string {
	if l.summary.DryRun {
		return "dry-run"
	}
	return "production"
}

func formatValues(values []float64, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = writer.FormatValue(v)
	}
	return strings.Join(parts, sep)
}

// Close releases the log file, if any.
// Note: os.Stdout is never closed to prevent interfering with coverage tools.
func (l *Logger) Close() error {
	if closer, ok := l.writer.(io.Closer); ok && l.writer != os.Stdout {
		return closer.Close()
	}
	return nil
}
