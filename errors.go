package odbcadapter

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for common operations.
var (
	// ErrTxStarted is returned when attempting to begin a transaction
	// while one is already open on the connection.
	ErrTxStarted = errors.New("odbcadapter: cannot start a transaction within a transaction")

	// ErrTxNotStarted is returned by commit or rollback when no transaction
	// is open on the connection.
	ErrTxNotStarted = errors.New("odbcadapter: no transaction in progress")

	// ErrUnsupported is returned when the dialect has no statement for
	// the requested operation.
	ErrUnsupported = errors.New("odbcadapter: operation not supported by dialect")

	// ErrColumnNotFound is returned when a column lookup finds nothing.
	ErrColumnNotFound = errors.New("odbcadapter: column not found")
)

// ColumnNotFoundError represents a failed column lookup in the DBMS catalog.
type ColumnNotFoundError struct {
	Table  string
	Column string
}

// Error returns the error string.
func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("odbcadapter: column %q not found in table %q", e.Column, e.Table)
}

// Is reports whether the target error matches ColumnNotFoundError.
// This allows errors.Is(err, ErrColumnNotFound) to return true.
func (e *ColumnNotFoundError) Is(err error) bool {
	return err == ErrColumnNotFound
}

// NewColumnNotFoundError returns a new ColumnNotFoundError.
func NewColumnNotFoundError(table, column string) *ColumnNotFoundError {
	return &ColumnNotFoundError{Table: table, Column: column}
}

// IsColumnNotFound returns true if the error is a ColumnNotFoundError.
func IsColumnNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *ColumnNotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrColumnNotFound)
}

// UnsupportedError reports an operation the dialect cannot express.
type UnsupportedError struct {
	Dialect string
	Op      string
}

// Error returns the error string.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("odbcadapter: %s is not supported by dialect %q", e.Op, e.Dialect)
}

// Is reports whether the target error matches ErrUnsupported.
func (e *UnsupportedError) Is(err error) bool {
	return err == ErrUnsupported
}

// NewUnsupportedError returns a new UnsupportedError.
func NewUnsupportedError(dialect, op string) *UnsupportedError {
	return &UnsupportedError{Dialect: dialect, Op: op}
}

// ValidationError represents a migration operation that failed validation.
type ValidationError struct {
	Op      string // Operation name, e.g. "rename_column"
	Message string
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("odbcadapter: invalid %s: %s", e.Op, e.Message)
}

// NewValidationError returns a new ValidationError.
func NewValidationError(op, msg string) *ValidationError {
	return &ValidationError{Op: op, Message: msg}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e)
}

// AggregateError represents multiple errors collected during an operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "odbcadapter: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("odbcadapter: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
