package fluentdb

import (
	"errors"

	"github.com/biyonik/fluentdb/dialect"
	"github.com/biyonik/fluentdb/internal/validation"
)

// Sentinel errors for fluentdb.
// These errors can be checked using errors.Is().
var (
	// ErrInvalidIdentifier is returned when a table or column name contains invalid characters.
	ErrInvalidIdentifier = errors.New("fluentdb: invalid SQL identifier")

	// ErrInvalidOperator is returned when an unsupported comparison operator is used.
	ErrInvalidOperator = errors.New("fluentdb: invalid SQL operator")

	// ErrNoTable is returned when a statement is compiled without a table.
	ErrNoTable = dialect.ErrNoTable

	// ErrNoConflictKeys is returned by Replace on dialects that need an explicit conflict target.
	ErrNoConflictKeys = dialect.ErrNoConflictKeys

	// ErrNoExecutor is returned when a builder without an executor is asked to run a statement.
	ErrNoExecutor = errors.New("fluentdb: no executor configured")

	// ErrNilDestination is returned when Decode receives a nil pointer.
	ErrNilDestination = errors.New("fluentdb: nil destination pointer")

	// ErrInvalidDestination is returned when Decode's destination is not a pointer to a struct.
	ErrInvalidDestination = errors.New("fluentdb: destination must be a pointer to struct")

	// ErrTxAlreadyClosed is returned when a committed or rolled back transaction is used.
	ErrTxAlreadyClosed = errors.New("fluentdb: transaction already closed")
)

// QueryError wraps a driver error with the statement that produced it.
// Unwrap returns the driver error unchanged, so errors.As still reaches
// driver-specific types.
type QueryError struct {
	Op    string
	Table string
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	msg := "fluentdb: " + e.Op
	if e.Table != "" {
		msg += " " + e.Table
	}
	return msg + ": " + e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError creates a new QueryError with context.
func NewQueryError(op, table, query string, err error) *QueryError {
	return &QueryError{
		Op:    op,
		Table: table,
		Query: query,
		Err:   err,
	}
}

// WrapError adds an operation name to an error that has no statement attached.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{Op: op, Err: err}
}

// ValidationError represents an identifier or operator validation error.
type ValidationError struct {
	Identifier string
	Context    string
	Reason     string

	sentinel error
}

func (e *ValidationError) Error() string {
	return "fluentdb: invalid " + e.Context + " '" + e.Identifier + "': " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == e.sentinel
}

// NewValidationError creates a new ValidationError for an identifier.
func NewValidationError(identifier, context, reason string) *ValidationError {
	return &ValidationError{
		Identifier: identifier,
		Context:    context,
		Reason:     reason,
		sentinel:   ErrInvalidIdentifier,
	}
}

// translateValidation maps internal validation errors to ValidationError.
// Other errors are returned as is.
func translateValidation(err error) error {
	var idErr *validation.IdentifierError
	if errors.As(err, &idErr) {
		return NewValidationError(idErr.Identifier, "identifier", idErr.Reason)
	}

	var opErr *validation.OperatorError
	if errors.As(err, &opErr) {
		return &ValidationError{
			Identifier: opErr.Operator,
			Context:    "operator",
			Reason:     opErr.Reason,
			sentinel:   ErrInvalidOperator,
		}
	}

	return err
}
