package failure

import (
	"strings"

	"github.com/next-trace/scg-failure/contract"
)

// Error is the canonical failure type for SCG services.
//
// Fields:
//   - Kind:    one of BadRequest, EventProcessing, InvalidInput, NotFound
//   - Message: optional human detail; presence is tracked explicitly
//   - Cause:   optional underlying error, held by reference
//
// An Error has no mutators and is safe to share between goroutines.
type Error struct {
	kind       Kind
	message    string
	hasMessage bool
	cause      error
}

// compile-time guarantee that *Error implements contract.Failure
var _ contract.Failure = (*Error)(nil)

// Sentinels for errors.Is. They carry neither message nor cause.
var (
	ErrBadRequest      = BadRequest.New()
	ErrEventProcessing = EventProcessing.New()
	ErrInvalidInput    = InvalidInput.New()
	ErrNotFound        = NotFound.New()
)

// ------ standard error interface

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	var b strings.Builder

	if e.kind.Valid() {
		b.WriteString(e.kind.name)
	} else {
		// only reachable through a zero Error{} literal
		b.WriteString("unknown")
	}

	if e.hasMessage && e.message != "" {
		b.WriteString(": ")
		b.WriteString(e.message)
	}

	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is a bare failure (no message, no cause) of the
// same kind. This lets the Err* sentinels match any failure of their kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}

	return !t.hasMessage && t.cause == nil && e.kind == t.kind
}

// ------ getters

func (e *Error) Kind() Kind       { return e.kind }
func (e *Error) Code() string     { return e.kind.name }
func (e *Error) Message() string  { return e.message }
func (e *Error) HasMessage() bool { return e.hasMessage }
func (e *Error) Cause() error     { return e.cause }
