// Package errors provides custom error types for the perimeter
// reconciliation system. These errors enable programmatic error checking
// and keep per-record failures distinguishable from structural ones.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Join aggregates multiple errors, aliasing the standard library errors.Join.
var Join = errors.Join

// Common sentinel errors for the reconciliation system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingIdentifier indicates an input record without a usable
	// record identifier; this is structural and aborts the run
	ErrMissingIdentifier = errors.New("missing record identifier")

	// ErrGeometry indicates a geometry engine operation failed
	ErrGeometry = errors.New("geometry operation failed")

	// ErrPersistence indicates the final outputs could not be stored
	ErrPersistence = errors.New("persistence failed")
)

// ValidationError represents a validation failure on input records.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// GeometryError represents a failed geometry engine call for one record or
// pair. The affected record drops out of the spatial relation but stays in
// the batch as a singleton; the error is reported, not fatal.
type GeometryError struct {
	Op       string // "near", "centroid", "union", "area"
	RecordID int    // 0 when the failure is not tied to one record
	Err      error
}

// Error implements the error interface
func (e *GeometryError) Error() string {
	if e.RecordID != 0 {
		return fmt.Sprintf("geometry %s failed for record %d: %v", e.Op, e.RecordID, e.Err)
	}
	return fmt.Sprintf("geometry %s failed: %v", e.Op, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *GeometryError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *GeometryError) Is(target error) bool {
	return target == ErrGeometry
}

// NewGeometryError creates a new GeometryError
func NewGeometryError(op string, recordID int, err error) *GeometryError {
	return &GeometryError{Op: op, RecordID: recordID, Err: err}
}

// MappingError represents a single field that failed to derive a value
// during per-source attribute mapping. The field stays nil and the record
// continues; mapping errors never abort a record.
type MappingError struct {
	Source string
	Field  string
	Err    error
}

// Error implements the error interface
func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping %s field %s: %v", e.Source, e.Field, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *MappingError) Unwrap() error {
	return e.Err
}

// NewMappingError creates a new MappingError
func NewMappingError(source, field string, err error) *MappingError {
	return &MappingError{Source: source, Field: field, Err: err}
}

// StoreError represents a failure to persist final outputs. Store errors
// are structural: partial output must not be published as complete.
type StoreError struct {
	Operation string // "open", "write", "read"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("store %s of %s failed: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("store %s failed: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *StoreError) Is(target error) bool {
	return target == ErrPersistence
}

// NewStoreError creates a new StoreError
func NewStoreError(operation, path string, err error) *StoreError {
	return &StoreError{Operation: operation, Path: path, Err: err}
}

// ServiceError represents a failed request to an upstream feature service.
type ServiceError struct {
	URL        string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("feature service %s returned %d: %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("feature service %s: %s", e.URL, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// ParseError represents an error when parsing input data formats
type ParseError struct {
	Format  string // "geojson", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsGeometry checks if an error came from the geometry engine
func IsGeometry(err error) bool {
	return errors.Is(err, ErrGeometry)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsPersistence checks if an error is a persistence failure
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// WrapIO wraps an error as a StoreError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewStoreError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
