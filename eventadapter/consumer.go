// Package eventadapter runs NATS message handlers and labels their failures
// as EventProcessing unless the handler already returned a taxonomy failure.
package eventadapter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/next-trace/scg-failure/failure"
	"github.com/next-trace/scg-failure/metrics"
	"github.com/next-trace/scg-failure/wire"
)

// Handler processes one message.
type Handler func(ctx context.Context, msg *nats.Msg) error

// Consumer wraps handlers with failure classification, logging and metrics.
type Consumer struct {
	logger   *slog.Logger
	recorder *metrics.Recorder
	respond  func(msg *nats.Msg, data []byte) error
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithLogger sets the slog logger. nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Consumer) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder counts every failed message.
func WithRecorder(r *metrics.Recorder) Option {
	return func(c *Consumer) { c.recorder = r }
}

// NewConsumer creates a Consumer.
func NewConsumer(opts ...Option) *Consumer {
	c := &Consumer{
		logger:  slog.Default(),
		respond: func(msg *nats.Msg, data []byte) error { return msg.Respond(data) },
	}
	for _, o := range opts {
		o(c)
	}

	return c
}

// Process runs h on msg. Plain errors and panics come back as EventProcessing
// failures; taxonomy failures returned by h are passed through unchanged.
func (c *Consumer) Process(ctx context.Context, msg *nats.Msg, h Handler) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = failure.EventProcessing.Wrap(
				fmt.Sprintf("panic handling %s", msg.Subject),
				fmt.Errorf("%v", rec),
			)
		}

		if err != nil {
			c.report(ctx, msg, err)
		}
	}()

	if herr := h(ctx, msg); herr != nil {
		return failure.Ensure(herr, failure.EventProcessing)
	}

	return nil
}

// Wrap adapts h to a nats.MsgHandler. When a failing message carries a reply
// subject the wire envelope of the failure is sent back. Every delivered
// message is processed; ctx is only handed to h.
func (c *Consumer) Wrap(ctx context.Context, h Handler) nats.MsgHandler {
	return func(msg *nats.Msg) {
		err := c.Process(ctx, msg, h)
		if err == nil || msg.Reply == "" {
			return
		}

		data, encErr := wire.Marshal(err)
		if encErr != nil {
			c.logger.Error("encode failure reply", "subject", msg.Subject, "error", encErr)
			return
		}

		if rerr := c.respond(msg, data); rerr != nil {
			c.logger.Warn("send failure reply", "subject", msg.Subject, "reply", msg.Reply, "error", rerr)
		}
	}
}

// DrainTimeout bounds how long Subscribe waits for in-flight messages once
// ctx is done.
const DrainTimeout = 10 * time.Second

// Subscribe queue-subscribes h on subject and blocks until ctx is done, then
// drains the subscription. Handlers see ctx's values but not its
// cancellation, so messages already delivered finish before Subscribe returns.
func (c *Consumer) Subscribe(ctx context.Context, nc *nats.Conn, subject, queue string, h Handler) error {
	sub, err := nc.QueueSubscribe(subject, queue, c.Wrap(context.WithoutCancel(ctx), h))
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	if err := nc.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	c.logger.Info("consuming events", "subject", subject, "queue", queue)

	<-ctx.Done()

	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}

	if err := waitDrained(sub, DrainTimeout); err != nil {
		return err
	}

	if err := nc.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}

	c.logger.Info("subscription drained", "subject", subject)

	return nil
}

// waitDrained blocks until sub has delivered its pending messages and been
// removed, or timeout elapses.
func waitDrained(sub *nats.Subscription, timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()

	for sub.IsValid() {
		select {
		case <-deadline.C:
			return fmt.Errorf("nats drain subscription %s: %w", sub.Subject, nats.ErrTimeout)
		case <-tick.C:
		}
	}

	return nil
}

func (c *Consumer) report(ctx context.Context, msg *nats.Msg, err error) {
	c.recorder.Observe(metrics.TransportNATS, err)
	c.logger.ErrorContext(ctx, "event processing failed",
		"subject", msg.Subject,
		"kind", metrics.Label(err),
		"error", err.Error(),
	)
}
