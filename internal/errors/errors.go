// Package errors provides a hierarchical error system for gridfill operations.
// It implements typed errors that can be inspected and handled differently
// based on their category, so the CLI can report load, fill and write
// failures precisely.
package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// ErrorType represents the category of error for classification and handling.
type ErrorType string

// Error type constants define the categories of errors that can occur while
// loading, filling and writing a grid.
const (
	ErrTypeFile   ErrorType = "file"
	ErrTypeConfig ErrorType = "config"
	ErrTypeFormat ErrorType = "format"
	ErrTypeFill   ErrorType = "fill"
	ErrTypeWrite  ErrorType = "write"
	ErrTypeBackup ErrorType = "backup"
)

// GridError is the base error type that provides structured error information.
// Specific error types embed it, so errors.As can pick out the concrete
// failure while errors.Is matches on the category.
type GridError struct {
	Type    ErrorType
	Path    string
	Message string
	Cause   error
}

func (e *GridError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Type, e.Path, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *GridError) Unwrap() error {
	return e.Cause
}

// Is implements error identity checking for Go 1.13+ error handling.
// Two GridErrors are considered equal when they share a category.
func (e *GridError) Is(target error) bool {
	t, ok := target.(*GridError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// FileError represents file system operation errors.
type FileError struct {
	*GridError
}

// NewFileError creates a file operation error with context.
func NewFileError(path, message string, cause error) *FileError {
	return &FileError{
		GridError: &GridError{
			Type:    ErrTypeFile,
			Path:    path,
			Message: message,
			Cause:   cause,
		},
	}
}

// NotFoundError is returned when the input file does not exist.
type NotFoundError struct {
	*FileError
}

// NewNotFoundError creates an input-not-found error.
func NewNotFoundError(path string, cause error) *NotFoundError {
	return &NotFoundError{
		FileError: NewFileError(path, "input file does not exist", cause),
	}
}

// WriteError is returned when the output destination cannot be created
// or written.
type WriteError struct {
	*FileError
}

// NewWriteError creates an output write error. It is categorised as
// ErrTypeWrite so callers can tell it apart from input failures.
func NewWriteError(path string, cause error) *WriteError {
	fe := NewFileError(path, "cannot write to output file", cause)
	fe.Type = ErrTypeWrite
	return &WriteError{FileError: fe}
}

// FormatError represents input text that cannot be turned into a grid:
// an unparseable token, a ragged row or malformed delimited text.
type FormatError struct {
	*GridError
	Token string
}

// NewFormatError creates a format error. Token is the offending field text
// and may be empty when the problem is structural (e.g. ragged rows).
func NewFormatError(path, token, message string, cause error) *FormatError {
	return &FormatError{
		GridError: &GridError{
			Type:    ErrTypeFormat,
			Path:    path,
			Message: message,
			Cause:   cause,
		},
		Token: token,
	}
}

// NewUnexpectedTokenError creates the format error raised for a field that is
// neither the missing marker nor a number.
func NewUnexpectedTokenError(path, token string, cause error) *FormatError {
	return NewFormatError(path, token, fmt.Sprintf("unexpected text in input file: '%s'", token), cause)
}

// FillError represents a grid that cannot be completed.
type FillError struct {
	*GridError
}

// NewFillError creates a fill error without cell context.
func NewFillError(message string) *FillError {
	return &FillError{
		GridError: &GridError{
			Type:    ErrTypeFill,
			Message: message,
		},
	}
}

// AdjacentMissingError is returned when a missing cell cannot be resolved from
// directly present neighbours: one of its neighbours is missing too, or it
// has no neighbours at all.
type AdjacentMissingError struct {
	*FillError
	Row int
	Col int
}

// NewAdjacentMissingError creates an adjacent-missing error for cell (row, col).
func NewAdjacentMissingError(row, col int, message string) *AdjacentMissingError {
	return &AdjacentMissingError{
		FillError: NewFillError(fmt.Sprintf("%s at row %d, column %d", message, row, col)),
		Row:       row,
		Col:       col,
	}
}

// UndefinedMeanError is returned when the neighbours of a missing cell are
// all present but average to NaN, as +Inf next to -Inf does.
type UndefinedMeanError struct {
	*FillError
	Row int
	Col int
}

// NewUndefinedMeanError creates an undefined-mean error for cell (row, col).
func NewUndefinedMeanError(row, col int) *UndefinedMeanError {
	return &UndefinedMeanError{
		FillError: NewFillError(fmt.Sprintf("neighbour values have no defined mean at row %d, column %d", row, col)),
		Row:       row,
		Col:       col,
	}
}

// ConfigError represents configuration validation and parsing errors.
type ConfigError struct {
	*GridError
}

// NewConfigError creates a configuration error without path context.
func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{
		GridError: &GridError{
			Type:    ErrTypeConfig,
			Message: message,
			Cause:   cause,
		},
	}
}

// NewConfigErrorWithPath creates a configuration error with file context.
func NewConfigErrorWithPath(path, message string, cause error) *ConfigError {
	return &ConfigError{
		GridError: &GridError{
			Type:    ErrTypeConfig,
			Path:    path,
			Message: message,
			Cause:   cause,
		},
	}
}

// BackupError represents errors while copying an existing output file aside.
type BackupError struct {
	*GridError
}

// NewBackupError creates a backup operation error.
func NewBackupError(path, message string, cause error) *BackupError {
	return &BackupError{
		GridError: &GridError{
			Type:    ErrTypeBackup,
			Path:    path,
			Message: message,
			Cause:   cause,
		},
	}
}

// WrapFileError converts an OS error from reading path into a typed error.
// Missing files become NotFoundError, everything else a generic FileError.
func WrapFileError(path string, err error) error {
	if err == nil {
		return nil
	}

	absPath, absErr := filepath.Abs(path)
	if absErr != nil {
		absPath = path
	}
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return NewNotFoundError(absPath, err)
	case stderrors.Is(err, fs.ErrPermission):
		return NewFileError(absPath, "file not readable", err)
	default:
		return NewFileError(absPath, "file operation failed", err)
	}
}
