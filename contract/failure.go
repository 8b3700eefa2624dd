// Package contract exposes the minimal failure interface used by other packages.
//
// Implementations must be immutable once constructed and support
// errors.Unwrap for proper interoperability with standard error helpers.
package contract

// Failure is the minimal, stable surface that other packages can depend on.
//
// Implementations must:
//   - Never change Code, Message or Cause after construction.
//   - Report HasMessage() == false when no message was supplied, even though
//     Message() returns "" in that case too.
//   - Return the wrapped cause by reference from both Cause() and Unwrap().
type Failure interface {
	error
	// Code is the stable, machine-facing kind name (e.g. "not_found").
	Code() string
	Message() string
	HasMessage() bool
	Cause() error
	Unwrap() error
}
