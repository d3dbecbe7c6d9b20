package officebatch

import (
	"fmt"
	"strings"
)

// UnsupportedFormatError indicates a template extension with no canonical target.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported template extension: %s", e.Ext)
}

// NewUnsupportedFormatError creates a new unsupported-format error
func NewUnsupportedFormatError(ext string) error {
	return &UnsupportedFormatError{Ext: ext}
}

// ResolveError represents a failure to resolve a template reference to a file
type ResolveError struct {
	Template string
	Message  string
}

func (e *ResolveError) Error() string {
	if e.Template != "" {
		return fmt.Sprintf("template resolve error for %q: %s", e.Template, e.Message)
	}
	return fmt.Sprintf("template resolve error: %s", e.Message)
}

// NewResolveError creates a new template resolution error
func NewResolveError(template, message string) error {
	return &ResolveError{Template: template, Message: message}
}

// ConversionError represents a failure of the external conversion engine
type ConversionError struct {
	Cmd    string
	Output string
	Cause  error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("conversion engine failed: %s", e.Cmd)
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Output != "" {
		msg += "\n" + strings.TrimSpace(e.Output)
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// NewConversionError creates a new conversion error with captured diagnostics
func NewConversionError(cmd, output string, cause error) error {
	return &ConversionError{Cmd: cmd, Output: output, Cause: cause}
}

// MissingArtifactError indicates the engine reported success but produced no file
type MissingArtifactError struct {
	Path string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("expected artifact was not produced: %s", e.Path)
}

// NewMissingArtifactError creates a new missing-artifact error
func NewMissingArtifactError(path string) error {
	return &MissingArtifactError{Path: path}
}

// ExportError represents a failure to export after exhausting all strategies
type ExportError struct {
	Input    string
	Attempts int
	Cause    error
}

func (e *ExportError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("export of %s failed after %d attempts: %v", e.Input, e.Attempts, e.Cause)
	}
	return fmt.Sprintf("export of %s failed: %v", e.Input, e.Cause)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new export error
func NewExportError(input string, attempts int, cause error) error {
	return &ExportError{Input: input, Attempts: attempts, Cause: cause}
}

// PatternError represents a filename pattern referencing a missing column
type PatternError struct {
	Pattern string
	Column  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("filename pattern %q requires missing column %q", e.Pattern, e.Column)
}

// NewPatternError creates a new pattern error
func NewPatternError(pattern, column string) error {
	return &PatternError{Pattern: pattern, Column: column}
}

// DocumentError represents an error during document operations
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// IsUnsupportedFormatError checks if an error is an unsupported-format error
func IsUnsupportedFormatError(err error) bool {
	_, ok := err.(*UnsupportedFormatError)
	return ok
}

// IsResolveError checks if an error is a template resolution error
func IsResolveError(err error) bool {
	_, ok := err.(*ResolveError)
	return ok
}

// IsConversionError checks if an error is a conversion error
func IsConversionError(err error) bool {
	_, ok := err.(*ConversionError)
	return ok
}

// IsMissingArtifactError checks if an error is a missing-artifact error
func IsMissingArtifactError(err error) bool {
	_, ok := err.(*MissingArtifactError)
	return ok
}

// IsExportError checks if an error is an export error
func IsExportError(err error) bool {
	_, ok := err.(*ExportError)
	return ok
}

// IsPatternError checks if an error is a pattern error
func IsPatternError(err error) bool {
	_, ok := err.(*PatternError)
	return ok
}

// IsDocumentError checks if an error is a document error
func IsDocumentError(err error) bool {
	_, ok := err.(*DocumentError)
	return ok
}
