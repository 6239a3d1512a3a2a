package batch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind is a closed set of failure classifications. The process function
// (or the boundary that wraps it) attaches a kind once; the retry loop never
// re-parses error text to decide whether to retry.
type ErrorKind string

const (
	// Terminal business failures. Never retried.
	KindValidation           ErrorKind = "validation"
	KindUnauthorized         ErrorKind = "unauthorized"
	KindNotFound             ErrorKind = "not_found"
	KindDuplicate            ErrorKind = "duplicate"
	KindInsufficientResource ErrorKind = "insufficient_resource"

	// Infrastructure failures. Retried with backoff.
	KindTransient ErrorKind = "transient"
	KindUnknown   ErrorKind = "unknown"
)

// Terminal reports whether the kind is a business failure that must not be
// retried.
func (k ErrorKind) Terminal() bool {
	switch k {
	case KindValidation, KindUnauthorized, KindNotFound, KindDuplicate, KindInsufficientResource:
		return true
	}
	return false
}

// Error is a classified processing failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a classified error with a formatted message.
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a kind to an underlying error.
func WrapError(kind ErrorKind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Classify infers the kind of an error. Classified errors keep their attached
// kind; timeouts and network failures are transient; everything else is
// unknown (and therefore retried).
func Classify(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindTransient
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindTransient
	}

	return KindUnknown
}
