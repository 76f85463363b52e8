package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNoCache              = errors.New("no cached grades found")
	ErrNoCredentials        = errors.New("no upstream credentials available")
	ErrNoSession            = errors.New("no active session")
	ErrSessionSuperseded    = errors.New("session no longer active")
	ErrCourseNotFound       = errors.New("course not found")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrUpstreamUnavailable  = errors.New("upstream fetch failed")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrStoreUnavailable     = errors.New("grade store unavailable")
	ErrPoolSaturated        = errors.New("worker pool saturated")
)

type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s",
		e.Field, e.Value, e.Message)
}

type RetryableError struct {
	Err     error
	Message string
}

func (e RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %s - %s", e.Message, e.Err.Error())
}

func (e RetryableError) Unwrap() error {
	return e.Err
}

func NewRetryableError(err error, message string) error {
	return RetryableError{
		Err:     err,
		Message: message,
	}
}

func IsRetryable(err error) bool {
	var re RetryableError
	return errors.As(err, &re)
}
