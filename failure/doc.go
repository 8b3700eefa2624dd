// Package failure provides the SCG error taxonomy: a closed set of four
// failure kinds sharing one immutable, transport-agnostic error type.
//
// Key characteristics:
//   - Kinds: BadRequest, EventProcessing, InvalidInput, NotFound
//   - Four construction forms per kind via Kind.New, Kind.Msg, Kind.Wrap, Kind.From
//   - Optional message with explicit presence (HasMessage)
//   - Optional cause held by reference and exposed for errors.Is / errors.As
//   - Err* sentinels so errors.Is(err, failure.ErrNotFound) matches by kind
//
// A cause-only failure has no message of its own; its Error() string shows the
// cause instead. Transport mapping (HTTP status codes, event replies, wire
// encoding) lives in sibling adapter packages, never here.
package failure
