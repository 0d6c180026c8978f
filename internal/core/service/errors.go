package service

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "Bad Request"
	case KindUnauthorized:
		return "Unauthorized"
	case KindNotFound:
		return "Not Found"
	case KindConflict:
		return "Conflict"
	default:
		return "Internal Server Error"
	}
}

// ServiceError carries a client-safe message and the kind used to pick the
// HTTP status. Err holds the underlying cause, if any, for logging.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NewServiceError(kind ErrorKind, message string) *ServiceError {
	return &ServiceError{Kind: kind, Message: message}
}

func BadRequest(format string, args ...interface{}) *ServiceError {
	return NewServiceError(KindBadRequest, fmt.Sprintf(format, args...))
}

func Unauthorized(format string, args ...interface{}) *ServiceError {
	return NewServiceError(KindUnauthorized, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...interface{}) *ServiceError {
	return NewServiceError(KindNotFound, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...interface{}) *ServiceError {
	return NewServiceError(KindConflict, fmt.Sprintf(format, args...))
}

// Internal wraps an unexpected failure. The message is what clients see.
func Internal(err error, message string) *ServiceError {
	return &ServiceError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of the first ServiceError in err's chain.
// Errors that are not service errors are internal.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
