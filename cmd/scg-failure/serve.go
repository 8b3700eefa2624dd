package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/next-trace/scg-failure/failure"
	"github.com/next-trace/scg-failure/httpadapter"
	"github.com/next-trace/scg-failure/metrics"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve demo routes that raise each failure kind",
		Long: `serve starts an HTTP server with:

  GET /kinds/{kind}?message=...   raises a failure of the given kind
  GET /metrics                    Prometheus metrics`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	logger := cfg.Logger(os.Stderr)

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	statuses, err := cfg.StatusMap()
	if err != nil {
		return err
	}

	adapter := httpadapter.New(
		httpadapter.WithLogger(logger),
		httpadapter.WithStatuses(statuses),
		httpadapter.WithRecorder(rec),
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.NotFound(adapter.NotFound())
	r.Get("/kinds/{kind}", adapter.Handle(raiseKind))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("listening", "addr", cfg.HTTP.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

func raiseKind(_ http.ResponseWriter, r *http.Request) error {
	k, err := failure.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		return failure.BadRequest.Wrap("unknown kind", err)
	}

	if msg := r.URL.Query().Get("message"); msg != "" {
		return k.Msg(msg)
	}

	return k.New()
}
