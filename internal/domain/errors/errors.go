package errors

import (
	"net/http"

	"planmap/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Is matches errors carrying the same business error code, so a sentinel
// still matches its WithDetails copies.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == other.errorCode
}

// Predefined error types
var (
	// ErrPayloadNotObject is the one hard parse failure of the
	// normalization layer: the top-level payload is not a JSON object.
	ErrPayloadNotObject = NewBaseError(
		http.StatusBadRequest,
		"PAYLOAD_NOT_OBJECT",
		"Solver response must be a JSON object",
		"",
	)

	// ErrNoOrders rejects a plan request with an empty order list; there is
	// nothing to reconstruct against.
	ErrNoOrders = NewBaseError(
		http.StatusUnprocessableEntity,
		"NO_ORDERS",
		"Plan request carries no orders",
		"",
	)

	ErrNoDepot = NewBaseError(
		http.StatusUnprocessableEntity,
		"NO_DEPOT",
		"Plan request must carry exactly one depot",
		"",
	)

	// ErrCaptureParse is the distinct kind for clipboard/log parsing
	// failures (empty buffer, invalid JSON) so the caller can show a
	// targeted message instead of a generic parse error.
	ErrCaptureParse = NewBaseError(
		http.StatusBadRequest,
		"CAPTURE_PARSE",
		"Enriched log capture could not be parsed",
		"",
	)

	// ErrCaptureNotFound covers replay-by-reference when no archived
	// capture exists under the given name.
	ErrCaptureNotFound = NewBaseError(
		http.StatusNotFound,
		"CAPTURE_NOT_FOUND",
		"No archived capture under this reference",
		"",
	)

	ErrPlanNotFound = NewBaseError(
		http.StatusNotFound,
		"PLAN_NOT_FOUND",
		"No plan is stored under this key",
		"",
	)

	ErrNoResult = NewBaseError(
		http.StatusNotFound,
		"NO_RESULT",
		"No solver result has been applied to this plan",
		"",
	)

	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Plan request validation failed",
		"",
	)

	ErrMatrixUnavailable = NewBaseError(
		http.StatusBadGateway,
		"MATRIX_UNAVAILABLE",
		"Travel-time matrix could not be fetched",
		"",
	)

	ErrSolverUnavailable = NewBaseError(
		http.StatusBadGateway,
		"SOLVER_UNAVAILABLE",
		"Solver invocation failed",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
