// Package main implements the scg-failure CLI: it inspects the taxonomy and
// runs demo HTTP and NATS endpoints that report failures through the adapters.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/next-trace/scg-failure/config"
	"github.com/next-trace/scg-failure/failure"
	"github.com/next-trace/scg-failure/httpadapter"
	"github.com/next-trace/scg-failure/wire"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

var (
	configPath string
	cfg        config.Config
)

func main() {
	root := newRootCmd()

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error to the process status. Bad invocations and
// invalid input exit with exitUsage.
func exitCode(err error) int {
	if failure.IsKind(err, failure.InvalidInput) || failure.IsKind(err, failure.BadRequest) {
		return exitUsage
	}

	return exitFailure
}

// usageArgs classifies positional argument errors as BadRequest.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return failure.BadRequest.From(err)
		}

		return nil
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scg-failure",
		Short: "Inspect the SCG failure taxonomy and run its adapters",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			var err error
			cfg, err = config.Load(configPath)

			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Subcommands inherit this, so every flag parse error is a BadRequest.
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return failure.BadRequest.From(err)
	})

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")

	root.AddCommand(newKindsCmd(), newEncodeCmd(), newServeCmd(), newConsumeCmd())

	return root
}

func newAdapter() (*httpadapter.Adapter, error) {
	statuses, err := cfg.StatusMap()
	if err != nil {
		return nil, err
	}

	return httpadapter.New(
		httpadapter.WithLogger(cfg.Logger(os.Stderr)),
		httpadapter.WithStatuses(statuses),
	), nil
}

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List failure kinds and their HTTP status",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			adapter, err := newAdapter()
			if err != nil {
				return err
			}

			for _, k := range failure.Kinds() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-18s %d\n", k, adapter.StatusCodeFor(k.New()))
			}

			return nil
		},
	}
}

func newEncodeCmd() *cobra.Command {
	var cause string

	cmd := &cobra.Command{
		Use:     "encode KIND [MESSAGE]",
		Short:   "Print the wire envelope of a failure",
		Example: `  scg-failure encode not_found "product 7" --cause "sql: no rows"`,
		Args:    usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := failure.ParseKind(args[0])
			if err != nil {
				return err
			}

			opts := []failure.Option{}
			if len(args) == 2 {
				opts = append(opts, failure.WithMessage(args[1]))
			}

			if cause != "" {
				opts = append(opts, failure.WithCause(errors.New(cause)))
			}

			env, err := wire.Encode(failure.E(k, opts...))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			return enc.Encode(env)
		},
	}

	cmd.Flags().StringVar(&cause, "cause", "", "Description of an underlying cause")

	return cmd
}
