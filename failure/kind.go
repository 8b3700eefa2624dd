package failure

import (
	"fmt"
	"reflect"
)

// Kind is the fixed category of a failure, chosen at construction.
//
// The set is closed: the only valid kinds are the four package-level values
// below. Code outside this package can only produce the zero Kind, which
// every builder rejects.
//
// A Kind value doubles as the builder for its four construction forms, so
// every kind shares a single implementation:
//
//	failure.NotFound.New()
//	failure.BadRequest.Msg("missing field: id")
//	failure.InvalidInput.Wrap("bad format", parseErr)
//	failure.EventProcessing.From(ioErr)
type Kind struct {
	name string
}

// The closed taxonomy. BadRequest and InvalidInput are distinct labels with
// no rule separating them; callers pick the one their API documents.
var (
	// BadRequest: the request is structurally or semantically invalid for the operation.
	BadRequest = Kind{name: "bad_request"}

	// EventProcessing: handling an asynchronous event or message failed.
	EventProcessing = Kind{name: "event_processing"}

	// InvalidInput: the supplied input data is invalid.
	InvalidInput = Kind{name: "invalid_input"}

	// NotFound: the requested entity does not exist.
	NotFound = Kind{name: "not_found"}
)

// Kinds returns every kind in a stable order. The slice is a fresh copy.
func Kinds() []Kind {
	return []Kind{BadRequest, EventProcessing, InvalidInput, NotFound}
}

// ParseKind resolves a kind name. Unknown names yield an InvalidInput failure.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if k.name == s {
			return k, nil
		}
	}

	return Kind{}, InvalidInput.Msgf("unknown failure kind %q", s)
}

// Valid reports whether k belongs to the taxonomy. Only the zero Kind is invalid.
func (k Kind) Valid() bool {
	switch k {
	case BadRequest, EventProcessing, InvalidInput, NotFound:
		return true
	default:
		return false
	}
}

func (k Kind) String() string { return k.name }

// MarshalText encodes k as its name. The zero Kind cannot be encoded.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, InvalidInput.Msg("zero failure kind")
	}

	return []byte(k.name), nil
}

// UnmarshalText accepts exactly the names of the four kinds.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}

// New builds a failure of kind k with neither message nor cause.
func (k Kind) New() *Error { return build(k, "", false, nil) }

// Msg builds a failure of kind k carrying message.
func (k Kind) Msg(message string) *Error { return build(k, message, true, nil) }

// Msgf is Msg with fmt.Sprintf formatting.
func (k Kind) Msgf(format string, args ...any) *Error {
	return k.Msg(fmt.Sprintf(format, args...))
}

// Wrap builds a failure of kind k carrying message and cause.
// A nil cause, typed or untyped, is recorded as absent.
func (k Kind) Wrap(message string, cause error) *Error {
	return build(k, message, true, cause)
}

// From builds a failure of kind k that wraps cause without a message of its
// own. Error() still renders the cause so logs stay informative.
func (k Kind) From(cause error) *Error { return build(k, "", false, cause) }

// build is the single constructor behind every form. It panics on the zero
// Kind: that is a programming error, like a nil map write.
func build(k Kind, message string, hasMessage bool, cause error) *Error {
	mustValid(k)

	return &Error{kind: k, message: message, hasMessage: hasMessage, cause: absentIfNil(cause)}
}

func mustValid(k Kind) {
	if !k.Valid() {
		panic("failure: zero Kind used to build an error")
	}
}

// absentIfNil maps typed nils (e.g. (*os.PathError)(nil)) to a nil interface
// so Error() and Unwrap() never see them.
func absentIfNil(err error) error {
	if err == nil {
		return nil
	}

	switch v := reflect.ValueOf(err); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			return nil
		}
	}

	return err
}
