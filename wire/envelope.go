// Package wire defines the versioned JSON form of a failure for the cases
// where one crosses a process boundary (event replies, RPC bodies, logs that
// are shipped elsewhere).
package wire

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/next-trace/scg-failure/failure"
)

// SchemaVersion is the current envelope layout. Decode rejects anything else.
const SchemaVersion = 1

// Envelope is the serialized form of a *failure.Error.
type Envelope struct {
	SchemaVersion int          `json:"schemaVersion"`
	Kind          failure.Kind `json:"kind"`
	Message       *string      `json:"message,omitempty"`
	Cause         *Cause       `json:"cause,omitempty"`
}

// Cause carries the description of a wrapped error. Failure is set when the
// cause was itself a taxonomy failure.
type Cause struct {
	Message string    `json:"message"`
	Failure *Envelope `json:"failure,omitempty"`
}

// remoteError stands in for a cause that was not a taxonomy failure.
type remoteError struct{ msg string }

func (e *remoteError) Error() string { return e.msg }

// Encode converts err into an Envelope. err's chain must hold a *failure.Error;
// the outermost one is encoded.
func Encode(err error) (Envelope, error) {
	f, ok := failure.As(err)
	if !ok || !f.Kind().Valid() {
		return Envelope{}, failure.InvalidInput.Msgf("wire: cannot encode unclassified error %T", err)
	}

	return encode(f), nil
}

func encode(f *failure.Error) Envelope {
	env := Envelope{SchemaVersion: SchemaVersion, Kind: f.Kind()}

	if f.HasMessage() {
		msg := f.Message()
		env.Message = &msg
	}

	if c := f.Cause(); c != nil {
		env.Cause = &Cause{Message: c.Error()}

		var inner *failure.Error
		if errors.As(c, &inner) && inner.Kind().Valid() {
			nested := encode(inner)
			env.Cause.Failure = &nested
		}
	}

	return env
}

// Decode rebuilds a failure from env. Causes that were not taxonomy failures
// come back as opaque errors carrying the original description.
func Decode(env Envelope) (*failure.Error, error) {
	if env.SchemaVersion != SchemaVersion {
		return nil, failure.InvalidInput.Msgf("wire: unsupported schema version %d", env.SchemaVersion)
	}

	if !env.Kind.Valid() {
		return nil, failure.InvalidInput.Msg("wire: missing kind")
	}

	opts := make([]failure.Option, 0, 2)

	if env.Message != nil {
		opts = append(opts, failure.WithMessage(*env.Message))
	}

	if env.Cause != nil {
		cause, err := decodeCause(env.Cause)
		if err != nil {
			return nil, err
		}

		opts = append(opts, failure.WithCause(cause))
	}

	return failure.E(env.Kind, opts...), nil
}

func decodeCause(c *Cause) (error, error) {
	if c.Failure == nil {
		return &remoteError{msg: c.Message}, nil
	}

	inner, err := Decode(*c.Failure)
	if err != nil {
		return nil, fmt.Errorf("decode cause: %w", err)
	}

	// The nested envelope only captures the taxonomy layer; keep the full
	// description when intermediate wrapping added context.
	if inner.Error() != c.Message {
		return &wrappedRemote{msg: c.Message, inner: inner}, nil
	}

	return inner, nil
}

// wrappedRemote preserves an intermediate description around a decoded failure.
type wrappedRemote struct {
	msg   string
	inner error
}

func (e *wrappedRemote) Error() string { return e.msg }
func (e *wrappedRemote) Unwrap() error { return e.inner }

// Marshal encodes err straight to JSON.
func Marshal(err error) ([]byte, error) {
	env, encErr := Encode(err)
	if encErr != nil {
		return nil, encErr
	}

	return json.Marshal(env)
}

// Unmarshal decodes JSON produced by Marshal.
func Unmarshal(data []byte) (*failure.Error, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, failure.InvalidInput.Wrap("wire: malformed envelope", err)
	}

	return Decode(env)
}
