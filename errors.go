package sqlquery

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/biyonik/go-sqlquery/dialect"
	"github.com/biyonik/go-sqlquery/expr"
)

// Sentinel errors for go-sqlquery.
// These errors can be checked using errors.Is().
var (
	// ErrUnsupportedExpression is recorded when a typed expression passed to
	// On/Where has a shape that cannot be translated into a condition.
	ErrUnsupportedExpression = expr.ErrUnsupported

	// ErrOnWithoutJoin is recorded when On is called before any join clause.
	ErrOnWithoutJoin = errors.New("sqlquery: on called before any join")

	// ErrNoConnection is returned when a query is executed without a supplied
	// connection and without an ambient connection provider.
	ErrNoConnection = errors.New("sqlquery: no connection supplied and no provider configured")

	// ErrNoRows is returned when a single-row result shape finds no rows.
	ErrNoRows = errors.New("sqlquery: no rows in result set")

	// ErrResultMapping is wrapped by every MappingError.
	ErrResultMapping = errors.New("sqlquery: result does not match the requested shape")

	// ErrNilDestination is returned when a nil pointer is passed as scan destination.
	ErrNilDestination = errors.New("sqlquery: nil destination pointer")

	// ErrInvalidDestination is returned when the destination is not a pointer.
	ErrInvalidDestination = errors.New("sqlquery: destination must be a non-nil pointer")

	// ErrNilQuery is returned by To and ToAsync for a nil query.
	ErrNilQuery = errors.New("sqlquery: nil query")

	// ErrAsyncRejected is returned by a Future whose work could not be scheduled.
	ErrAsyncRejected = errors.New("sqlquery: async execution rejected")

	// ErrNoTable is returned when a query is rendered without a FROM clause.
	ErrNoTable = dialect.ErrNoTable
)

// ExpressionError is the error type recorded for unsupported expressions.
type ExpressionError = expr.UnsupportedError

// QueryError wraps a driver error with the statement that produced it.
type QueryError struct {
	Err         error
	Op          string
	Query       string
	Args        []any
	ExecutionID uuid.UUID
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("sqlquery: %s failed (execution %s): %v", e.Op, e.ExecutionID, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError creates a new QueryError with context.
func NewQueryError(op string, err error, query string, args []any, id uuid.UUID) *QueryError {
	return &QueryError{
		Err:         err,
		Op:          op,
		Query:       query,
		Args:        args,
		ExecutionID: id,
	}
}

// MappingError reports a result set whose shape does not match the requested
// result type.
type MappingError struct {
	Target string
	Column string
	Reason string
	Err    error
}

func (e *MappingError) Error() string {
	msg := "sqlquery: cannot map result into " + e.Target
	if e.Column != "" {
		msg += " (column " + e.Column + ")"
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MappingError) Is(target error) bool {
	return target == ErrResultMapping
}

func (e *MappingError) Unwrap() error {
	return e.Err
}
