// =============================================================================
// main.go - Segment Keyspaces Entry Point
// =============================================================================
//
// export and restore subcommands for moving keyspace definitions
// between servers.
//
// =============================================================================

// Command segment-keyspaces exports a server's keyspace definitions and
// restores them into another server.
//
// Usage:
//
//	segment-keyspaces export [--output FILE]   One "create" line per keyspace
//	segment-keyspaces restore FILE             Replay an export
//
// FILE may be a local path, "-" for stdin/stdout, or gs://bucket/object.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/segment-dev/segment-cli/internal/config"
	"github.com/segment-dev/segment-cli/internal/dumpfile"
	"github.com/segment-dev/segment-cli/internal/keyspaces"
	"github.com/segment-dev/segment-cli/internal/logging"
	"github.com/segment-dev/segment-cli/segmentprotocol"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "segment-keyspaces",
		Short:         "Export and restore Segment keyspace definitions",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := config.AddFlags(root.PersistentFlags())

	root.AddCommand(newExportCmd(flags))
	root.AddCommand(newRestoreCmd(flags))
	return root
}

func newExportCmd(flags *config.Flags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print a create command for every keyspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conn, err := connect(ctx, flags)
			if err != nil {
				return err
			}
			defer conn.Close()

			// The output is opened only once the query has succeeded.
			lines, err := keyspaces.Export(ctx, conn)
			if err != nil {
				printError(cmd.OutOrStdout(), err)
				return err
			}
			if err := writeDump(ctx, output, lines); err != nil {
				return err
			}
			log.Info().Int("keyspaces", len(lines)).Str("output", output).Msg("export finished")
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", dumpfile.Stdio, `file to write ("-" for stdout, or gs://bucket/object)`)
	return cmd
}

func newRestoreCmd(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "restore FILE",
		Short: "Replay an export, one command per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conn, err := connect(ctx, flags)
			if err != nil {
				return err
			}
			defer conn.Close()

			r, err := dumpfile.Open(ctx, args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			report, err := keyspaces.Restore(ctx, conn, r)
			printFailures(cmd.OutOrStdout(), report.Failed)
			if err != nil {
				return err
			}
			if len(report.Failed) > 0 {
				return fmt.Errorf("%d line(s) could not be restored", len(report.Failed))
			}
			return nil
		},
	}
}

// writeDump writes lines to the location raw. A failed write cancels the
// Cloud Storage upload instead of committing a partial object.
func writeDump(ctx context.Context, raw string, lines []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := dumpfile.Create(ctx, raw)
	if err != nil {
		return err
	}
	if err := keyspaces.WriteLines(w, lines); err != nil {
		cancel()
		w.Close()
		return fmt.Errorf("write %s: %w", raw, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write %s: %w", raw, err)
	}
	return nil
}

func connect(ctx context.Context, flags *config.Flags) (segmentprotocol.Connection, error) {
	cfg, err := flags.Load()
	if err != nil {
		return nil, err
	}
	return segmentprotocol.NewClient(cfg.ConnectionOptions()).GetConnection(ctx)
}

func printFailures(w io.Writer, failed []keyspaces.LineFailure) {
	for _, f := range failed {
		fmt.Fprintf(w, "Could not create keyspace from: %s\n", f.Source)
		printError(w, f.Err)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "(error) \"%v\"\n", err)
}

func main() {
	logging.ConfigureRuntime()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("segment-keyspaces failed")
		os.Exit(1)
	}
}
