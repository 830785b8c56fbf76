// Package errs defines the error taxonomy shared by every component of the
// fleet-health RAG service. Every component returns an *Error rather than an
// ad-hoc string or a bare wrapped error, so that the tool surface can always
// recover a stable error kind at the boundary.
package errs

import (
	"errors"
	"fmt"
)

// Kind enumerates the error categories components may return. Callers
// distinguish these with Is/As against the sentinel Kind values, never by
// inspecting message text.
type Kind string

const (
	// InvalidInput covers malformed queries or arguments, including
	// references to unknown enum values.
	InvalidInput Kind = "INVALID_ARGUMENT"
	// NotFound covers missing documents, devices, or schemas.
	NotFound Kind = "NOT_FOUND"
	// ValidationError covers a document or record rejected for shape or
	// length reasons.
	ValidationError Kind = "VALIDATION_ERROR"
	// UpstreamUnavailable covers failures of the LLM, embedder, vector
	// store, or data source.
	UpstreamUnavailable Kind = "UPSTREAM_UNAVAILABLE"
	// Timeout covers a deadline that elapsed before a call completed.
	Timeout Kind = "TIMEOUT"
	// Canceled covers a context cancellation.
	Canceled Kind = "CANCELED"
	// IncompatibleState covers persisted state with an unreadable
	// schema_version.
	IncompatibleState Kind = "INCOMPATIBLE_STATE"
	// Internal covers a bug: anything that should never happen given a
	// correct implementation.
	Internal Kind = "INTERNAL"
)

// Error is the one error type every component in this module returns.
// Component names the package that produced the error (e.g. "document",
// "health", "orchestrator"); Message is a short human-readable description;
// Cause, when non-nil, is the wrapped upstream error.
type Error struct {
	Kind      Kind
	Component string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Kind, e.Component, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Component, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an *Error with no wrapped cause.
func New(kind Kind, component, message string) *Error {
	return &Error{Kind: kind, Component: component, Message: message}
}

// Wrap builds an *Error that carries cause as its Unwrap target. The result
// always carries kind; a Kind already set on cause is not inherited.
func Wrap(kind Kind, component, message string, cause error) *Error {
	return &Error{Kind: kind, Component: component, Message: message, Cause: cause}
}

// KindOf extracts the Kind carried by err, walking the error chain. Errors
// that are not of type *Error report Internal, since an un-taxonomized error
// reaching the boundary is itself a bug.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if err == nil {
		return ""
	}
	return Internal
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// UserMessage renders a bounded-length, structured message suitable for
// returning to an external caller: first line names the error kind, body
// names the offending component and the message. Stack traces never appear
// here; only Message and Component are surfaced.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return fmt.Sprintf("%s\ncomponent: unknown\n%v", Internal, err)
	}
	return fmt.Sprintf("%s\ncomponent: %s\n%s", e.Kind, e.Component, e.Message)
}
