package failure

import (
	"errors"
)

// As returns the outermost *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}

	return nil, false
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	if e, ok := As(err); ok && e.kind.Valid() {
		return e.kind, true
	}

	return Kind{}, false
}

// IsKind reports whether the outermost failure in err's chain has kind k.
func IsKind(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}

// Ensure converts any error to *Error.
//
// Behavior:
//   - nil input => nil output
//   - if err's chain holds an *Error => that *Error (same pointer)
//   - otherwise fallback.From(err)
func Ensure(err error, fallback Kind) *Error {
	if err == nil {
		return nil
	}

	if e, ok := As(err); ok {
		return e
	}

	return fallback.From(err)
}
