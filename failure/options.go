package failure

import "fmt"

// Option configures an Error during construction via E().
type Option func(*Error)

// WithMessage sets the message for the error during E() construction.
func WithMessage(message string) Option {
	return func(e *Error) {
		e.message = message
		e.hasMessage = true
	}
}

// WithMessagef is WithMessage with fmt.Sprintf formatting.
func WithMessagef(format string, args ...any) Option {
	return WithMessage(fmt.Sprintf(format, args...))
}

// WithCause sets the underlying cause to be returned by Unwrap().
// A nil cause, typed or untyped, leaves the cause absent.
func WithCause(cause error) Option {
	return func(e *Error) { e.cause = absentIfNil(cause) }
}

// E is the option-based builder for call sites that assemble a failure
// conditionally. Options are applied in order; later ones win.
// Like the Kind builders it panics on the zero Kind.
func E(kind Kind, opts ...Option) *Error {
	mustValid(kind)

	e := &Error{kind: kind}
	for _, o := range opts {
		o(e)
	}

	return e
}
