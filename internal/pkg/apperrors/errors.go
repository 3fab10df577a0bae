package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrTokenNotFound = errors.New("token not found")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Feed errors
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrActorNotFound   = errors.New("actor not found")

	// ErrReplyTargetMismatch is returned when a reply references a comment
	// that belongs to a different post. A reply target that has been deleted
	// is NOT an error; such a comment is rendered as root-level instead.
	ErrReplyTargetMismatch = errors.New("reply target belongs to a different post")

	// ErrScopeUnavailable is returned when an actor publishes to a scope
	// they have no attribute for (e.g. faculty scope without a faculty).
	ErrScopeUnavailable = errors.New("actor has no attribute for the requested scope")

	ErrUnknownScopeKind      = errors.New("unknown scope kind")
	ErrUnknownEngagementKind = errors.New("unknown engagement kind")
)

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}
