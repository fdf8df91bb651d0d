// Package domain defines core types and errors for the semantic compiler.
package domain

import "fmt"

// ParseError indicates malformed or contradictory model metadata.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string { return e.Message }

// NonCompiledModelError indicates a model that lacks compiled SQL.
type NonCompiledModelError struct {
	Message string
}

func (e *NonCompiledModelError) Error() string { return e.Message }

// MissingCatalogEntryError indicates an unresolved warehouse catalog lookup,
// either a missing table/column or a column type outside the recognised set.
type MissingCatalogEntryError struct {
	Message string
}

func (e *MissingCatalogEntryError) Error() string { return e.Message }

// ErrParse creates a ParseError with a formatted message.
func ErrParse(format string, args ...interface{}) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}

// ErrNonCompiledModel creates a NonCompiledModelError with a formatted message.
func ErrNonCompiledModel(format string, args ...interface{}) *NonCompiledModelError {
	return &NonCompiledModelError{Message: fmt.Sprintf(format, args...)}
}

// ErrMissingCatalogEntry creates a MissingCatalogEntryError with a formatted message.
func ErrMissingCatalogEntry(format string, args ...interface{}) *MissingCatalogEntryError {
	return &MissingCatalogEntryError{Message: fmt.Sprintf(format, args...)}
}
