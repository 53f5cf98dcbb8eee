// Package dErrors provides coded domain errors so services can express
// failure taxonomy (not-found vs. conflict vs. validation) without leaking
// transport concerns. Handlers translate codes to HTTP status via httputil.
package dErrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error. The set is closed; adding a code requires
// a corresponding mapping in httputil.WriteError.
type Code string

const (
	// CodeBadRequest marks malformed request bodies or parameters.
	CodeBadRequest Code = "bad_request"
	// CodeInvalidInput marks values rejected at a trust boundary
	// (bad UUIDs, out-of-vocabulary enum values, too-short reasons).
	CodeInvalidInput Code = "invalid_input"
	// CodeNotFound marks absent processes, versions, entities or stakeholders.
	CodeNotFound Code = "not_found"
	// CodeConflict marks uniqueness violations: duplicate approval for a
	// (version, stakeholder) pair, duplicate version number for a process.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation marks illegal state transitions detected by
	// domain models before any write happens.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeUnauthorized marks missing or invalid authentication.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks authenticated callers lacking the role an
	// operation requires.
	CodeForbidden Code = "forbidden"
	// CodeUnavailable marks collaborator failures (store down). Always
	// surfaced, never swallowed.
	CodeUnavailable Code = "unavailable"
	// CodeInternal marks unexpected failures whose details must not reach
	// clients.
	CodeInternal Code = "internal"
)

// Error is a domain error with a classification code. The wrapped cause, if
// any, is preserved for errors.Is/errors.As chains.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for unwrapping.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return New(code, message)
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var domainErr *Error
	for errors.As(err, &domainErr) {
		if domainErr.Code == code {
			return true
		}
		err = domainErr.Unwrap()
		if err == nil {
			return false
		}
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code carried by err, or CodeInternal when err
// is not a domain error.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost domain message, or a generic one for
// non-domain errors so internals never leak to clients.
func MessageOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "internal error"
}
