package failure_test

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/next-trace/scg-failure/contract"
	"github.com/next-trace/scg-failure/failure"
)

func TestConstructionForms_RoundTrip(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying")

	for _, k := range failure.Kinds() {
		forms := []struct {
			name       string
			build      func() *failure.Error
			wantMsg    string
			wantHasMsg bool
			wantCause  error
		}{
			{"no-arg", k.New, "", false, nil},
			{"message", func() *failure.Error { return k.Msg("m") }, "m", true, nil},
			{"message+cause", func() *failure.Error { return k.Wrap("m", cause) }, "m", true, cause},
			{"cause", func() *failure.Error { return k.From(cause) }, "", false, cause},
		}

		for _, f := range forms {
			t.Run(k.String()+"/"+f.name, func(t *testing.T) {
				t.Parallel()

				e := f.build()

				if e.Kind() != k {
					t.Fatalf("Kind=%q want=%q", e.Kind(), k)
				}

				if e.Code() != k.String() {
					t.Fatalf("Code=%q want=%q", e.Code(), k)
				}

				if e.Message() != f.wantMsg || e.HasMessage() != f.wantHasMsg {
					t.Fatalf("Message=%q HasMessage=%v want=%q/%v", e.Message(), e.HasMessage(), f.wantMsg, f.wantHasMsg)
				}

				if e.Cause() != f.wantCause || e.Unwrap() != f.wantCause {
					t.Fatalf("Cause=%v Unwrap=%v want=%v", e.Cause(), e.Unwrap(), f.wantCause)
				}
			})
		}
	}
}

func TestScenario_NotFoundNoArgs(t *testing.T) {
	t.Parallel()

	e := failure.NotFound.New()

	if e.HasMessage() || e.Cause() != nil || e.Kind() != failure.NotFound {
		t.Fatalf("unexpected fields: %q %v %v", e.Kind(), e.HasMessage(), e.Cause())
	}

	if got := e.Error(); got != "not_found" {
		t.Fatalf("Error()=%q", got)
	}
}

func TestScenario_BadRequestMessage(t *testing.T) {
	t.Parallel()

	e := failure.BadRequest.Msg("missing field: id")

	if e.Message() != "missing field: id" || e.Cause() != nil {
		t.Fatalf("Message=%q Cause=%v", e.Message(), e.Cause())
	}

	if got, want := e.Error(), "bad_request: missing field: id"; got != want {
		t.Fatalf("Error()=%q want=%q", got, want)
	}
}

func TestScenario_InvalidInputMessageAndCause(t *testing.T) {
	t.Parallel()

	parseErr := fmt.Errorf("parse: %w", io.ErrUnexpectedEOF)
	e := failure.InvalidInput.Wrap("bad format", parseErr)

	if e.Message() != "bad format" {
		t.Fatalf("Message=%q", e.Message())
	}

	if e.Cause() != parseErr {
		t.Fatalf("Cause must be the same reference")
	}

	if !errors.Is(e, io.ErrUnexpectedEOF) {
		t.Fatalf("errors.Is must traverse into the cause chain")
	}
}

func TestScenario_EventProcessingCauseOnly(t *testing.T) {
	t.Parallel()

	ioErr := errors.New("broker unavailable")
	e := failure.EventProcessing.From(ioErr)

	if e.Cause() != ioErr {
		t.Fatalf("Cause must be the same reference")
	}

	// Cause-only keeps the message absent; Error() derives text from the cause.
	if e.HasMessage() || e.Message() != "" {
		t.Fatalf("cause-only form must leave message absent, got %q", e.Message())
	}

	if got, want := e.Error(), "event_processing: broker unavailable"; got != want {
		t.Fatalf("Error()=%q want=%q", got, want)
	}
}

func TestEmptyMessageIsPresent(t *testing.T) {
	t.Parallel()

	e := failure.BadRequest.Msg("")
	if !e.HasMessage() {
		t.Fatalf("explicit empty message must be present")
	}

	if got := e.Error(); got != "bad_request" {
		t.Fatalf("Error()=%q", got)
	}
}

func TestNilCauseIsAbsent(t *testing.T) {
	t.Parallel()

	if e := failure.NotFound.From(nil); e.Cause() != nil || e.Unwrap() != nil {
		t.Fatalf("nil cause must stay absent")
	}

	if e := failure.NotFound.Wrap("m", nil); e.Cause() != nil || e.Error() != "not_found: m" {
		t.Fatalf("Wrap with nil cause: %q", e.Error())
	}
}

func TestKindIdentity_NeverConfused(t *testing.T) {
	t.Parallel()

	sentinels := map[failure.Kind]error{
		failure.BadRequest:      failure.ErrBadRequest,
		failure.EventProcessing: failure.ErrEventProcessing,
		failure.InvalidInput:    failure.ErrInvalidInput,
		failure.NotFound:        failure.ErrNotFound,
	}

	for _, k := range failure.Kinds() {
		e := fmt.Errorf("layer: %w", k.Msg("x"))

		for other, sentinel := range sentinels {
			if got, want := errors.Is(e, sentinel), other == k; got != want {
				t.Fatalf("errors.Is(%s, Err(%s))=%v want=%v", k, other, got, want)
			}

			if got, want := failure.IsKind(e, other), other == k; got != want {
				t.Fatalf("IsKind(%s, %s)=%v want=%v", k, other, got, want)
			}
		}
	}
}

func TestIs_MessageBearingTargetDoesNotMatchByKind(t *testing.T) {
	t.Parallel()

	a := failure.NotFound.Msg("a")
	b := failure.NotFound.Msg("b")

	if errors.Is(a, b) {
		t.Fatalf("only bare sentinels match by kind")
	}

	if !errors.Is(a, a) {
		t.Fatalf("identity must match")
	}
}

func TestContractInterface(t *testing.T) {
	t.Parallel()

	var f contract.Failure = failure.InvalidInput.Msg("x")

	var e *failure.Error
	if !errors.As(f, &e) || e.Kind() != failure.InvalidInput {
		t.Fatalf("errors.As should yield *Error itself")
	}
}

func TestNilReceiverBehaviors(t *testing.T) {
	t.Parallel()

	var e *failure.Error

	if got := e.Error(); got != "<nil>" {
		t.Fatalf("nil receiver Error()=%q", got)
	}

	if e.Is(failure.ErrNotFound) {
		t.Fatalf("nil receiver must not match")
	}
}

func TestEBuilder_Options(t *testing.T) {
	t.Parallel()

	cause := errors.New("sql: no rows in result set")
	e := failure.E(failure.NotFound,
		failure.WithMessagef("product %d", 7),
		failure.WithCause(cause),
	)

	if e.Message() != "product 7" || e.Cause() != cause || e.Kind() != failure.NotFound {
		t.Fatalf("unexpected fields: %q %v %q", e.Message(), e.Cause(), e.Kind())
	}

	bare := failure.E(failure.BadRequest)
	if bare.HasMessage() || bare.Cause() != nil {
		t.Fatalf("E without options must be bare")
	}
}

func TestConcurrentReads(t *testing.T) {
	t.Parallel()

	e := failure.InvalidInput.Wrap("shared", errors.New("c"))

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if !strings.HasPrefix(e.Error(), "invalid_input: shared") || !failure.IsKind(e, failure.InvalidInput) {
				t.Errorf("unexpected read: %q", e.Error())
			}
		}()
	}

	wg.Wait()
}

// FuzzMsg (no panics, message preserved verbatim).
func FuzzMsg(f *testing.F) {
	f.Add("missing field: id")
	f.Add("")
	f.Fuzz(func(t *testing.T, msg string) {
		for _, k := range failure.Kinds() {
			e := k.Wrap(msg, io.EOF)
			if e.Message() != msg || !e.HasMessage() || e.Cause() != io.EOF {
				t.Fatalf("round trip failed for %q", msg)
			}
		}
	})
}
