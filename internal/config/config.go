// Package config provides configuration management and validation for gridfill.
// It centralizes all command-line options and runtime settings, catching
// invalid settings before any file is read or written.
package config

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"gridfill/internal/errors"
)

// LogFormat represents the supported output formats for the run report.
type LogFormat string

// Supported report formats.
const (
	LogFormatSummary LogFormat = "summary"
	LogFormatJSON    LogFormat = "json"
	LogFormatCSV     LogFormat = "csv"
)

// DefaultDelimiter is the field separator used when none is configured.
const DefaultDelimiter = ","

// Config holds all runtime configuration options for a gridfill run.
type Config struct {
	InputPath  string
	OutputPath string
	Delimiter  string
	DryRun     bool
	Backup     bool
	Verbose    bool
	Debug      bool
	Quiet      bool
	LogFile    string
	LogFormat  LogFormat
}

// Validate checks and normalizes the configuration. A missing input file is
// reported as *errors.NotFoundError so nothing else runs.
func (c *Config) Validate() error {
	if err := c.validateInput(); err != nil {
		return err
	}

	if err := c.validateOutput(); err != nil {
		return err
	}

	if err := c.validateDelimiter(); err != nil {
		return err
	}

	if err := c.validateLogFormat(); err != nil {
		return err
	}

	c.normalizeConfig()
	return nil
}

func (c *Config) validateInput() error {
	if c.InputPath == "" {
		return errors.NewConfigError("input path is required", nil)
	}

	absInput, err := filepath.Abs(c.InputPath)
	if err != nil {
		return errors.NewConfigErrorWithPath(c.InputPath, "invalid input path", err)
	}
	c.InputPath = absInput

	info, err := os.Stat(absInput)
	if err != nil {
		return errors.WrapFileError(absInput, err)
	}
	if info.IsDir() {
		return errors.NewConfigErrorWithPath(absInput, "input path is a directory", nil)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.OutputPath == "" {
		return errors.NewConfigError("output path is required", nil)
	}

	absOutput, err := filepath.Abs(c.OutputPath)
	if err != nil {
		return errors.NewConfigErrorWithPath(c.OutputPath, "invalid output path", err)
	}
	c.OutputPath = absOutput
	return nil
}

func (c *Config) validateDelimiter() error {
	if c.Delimiter == "" {
		return nil
	}

	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return errors.NewConfigError("delimiter must be a single character", nil)
	}

	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	switch r {
	case '"', '\r', '\n', utf8.RuneError:
		return errors.NewConfigError("delimiter cannot be a quote, newline or invalid character", nil)
	}
	return nil
}

func (c *Config) validateLogFormat() error {
	switch c.LogFormat {
	case "", LogFormatSummary, LogFormatJSON, LogFormatCSV:
		return nil
	default:
		return errors.NewConfigError("log format must be 'summary', 'json' or 'csv'", nil)
	}
}

func (c *Config) normalizeConfig() {
	if c.Delimiter == "" {
		c.Delimiter = DefaultDelimiter
	}
	if c.LogFormat == "" {
		c.LogFormat = LogFormatSummary
	}
}

// DelimiterRune returns the configured field separator.
func (c *Config) DelimiterRune() rune {
	if c.Delimiter == "" {
		return []rune(DefaultDelimiter)[0]
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// IsVerbose determines if per-cell progress lines are printed.
// Quiet mode overrides Verbose mode.
func (c *Config) IsVerbose() bool {
	return (c.Verbose || c.Debug) && !c.Quiet
}

// IsDebug determines if neighbour values are printed alongside progress lines.
func (c *Config) IsDebug() bool {
	return c.Debug && !c.Quiet
}

// ShouldLog determines if any logging should occur.
func (c *Config) ShouldLog() bool {
	return !c.Quiet
}

// ShouldReport determines if a run report is written at the end of the run.
// Reports are opt-in: they are produced for verbose runs or when a log file
// is configured.
func (c *Config) ShouldReport() bool {
	return c.ShouldLog() && (c.IsVerbose() || c.LogFile != "")
}
