// Package apperrors holds the closed set of failure kinds a reconciliation
// job can end with. The job queue only looks at the kind to decide between
// retrying and dropping.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindAppService       Kind = "app_service"
	KindInvalidPayload   Kind = "invalid_payload"
	KindResourceNotFound Kind = "resource_not_found"
	KindExternalAPI      Kind = "external_api"
	KindPersistence      Kind = "persistence"
)

// ErrInvalidArgument is returned by callers that reject input before any
// work is scheduled (e.g. enqueueing a job without a resource id).
var ErrInvalidArgument = errors.New("invalid argument")

type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

func InvalidPayload(op, msg string) *Error {
	return newError(KindInvalidPayload, op, msg, nil)
}

func ResourceNotFound(op, msg string) *Error {
	return newError(KindResourceNotFound, op, msg, nil)
}

func ExternalAPI(op, msg string, err error) *Error {
	return newError(KindExternalAPI, op, msg, err)
}

func Persistence(op, msg string, err error) *Error {
	return newError(KindPersistence, op, msg, err)
}

func AppService(op, msg string, err error) *Error {
	return newError(KindAppService, op, msg, err)
}

// KindOf returns the kind of the outermost *Error in the chain. Errors that
// were never classified are treated as AppService.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindAppService
}

// Retryable reports whether a failed job should be scheduled again.
// Only malformed payloads are terminal.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	return KindOf(err) != KindInvalidPayload
}

func IsInvalidPayload(err error) bool {
	return err != nil && KindOf(err) == KindInvalidPayload
}

func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindResourceNotFound
}
