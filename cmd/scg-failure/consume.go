package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/next-trace/scg-failure/eventadapter"
	"github.com/next-trace/scg-failure/failure"
)

// demoEvent is the payload understood by consume. A non-empty Fail names the
// kind to raise for that event.
type demoEvent struct {
	ID      string `json:"id"`
	Fail    string `json:"fail,omitempty"`
	Message string `json:"message,omitempty"`
}

func newConsumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Consume demo events from NATS and report their failures",
		Example: `  nats req scg.events '{"id":"1","fail":"not_found","message":"order 1"}'
  nats pub scg.events 'not json'`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return consume(ctx)
		},
	}
}

func consume(ctx context.Context) error {
	logger := cfg.Logger(os.Stderr)

	nc, err := nats.Connect(
		cfg.NATS.URL,
		nats.Name("scg-failure"),
		nats.Timeout(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return fmt.Errorf("connect nats: %w", err)
	}
	defer nc.Close()

	consumer := eventadapter.NewConsumer(eventadapter.WithLogger(logger))

	return consumer.Subscribe(ctx, nc, cfg.NATS.Subject, cfg.NATS.Queue, func(ctx context.Context, msg *nats.Msg) error {
		var ev demoEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			// Left unclassified so the adapter labels it EventProcessing.
			return fmt.Errorf("decode event: %w", err)
		}

		if ev.Fail == "" {
			logger.InfoContext(ctx, "event handled", "id", ev.ID)
			return nil
		}

		k, err := failure.ParseKind(ev.Fail)
		if err != nil {
			return err
		}

		if ev.Message != "" {
			return k.Msg(ev.Message)
		}

		return k.New()
	})
}
