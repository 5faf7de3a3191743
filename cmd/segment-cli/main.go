// =============================================================================
// main.go - Segment CLI Entry Point
// =============================================================================
//
// Parses flags, loads the config, connects, and hands the connection to
// the REPL. SIGINT and SIGTERM close the connection and exit.
//
// =============================================================================

// Command segment-cli is an interactive shell for a Segment server.
//
// Usage:
//
//	segment-cli                         Connect to 127.0.0.1:1698
//	segment-cli --host h --port p       Connect elsewhere
//	segment-cli --config segment.toml   Read settings from a TOML file
//
// Each line is tokenized (double quotes group words), sent as one command,
// and the reply is printed according to the command's result type.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/segment-dev/segment-cli/internal/config"
	"github.com/segment-dev/segment-cli/internal/logging"
	"github.com/segment-dev/segment-cli/segmentprotocol"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var flags *config.Flags

	root := &cobra.Command{
		Use:           "segment-cli",
		Short:         "Interactive shell for a Segment server",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.Load()
			if err != nil {
				return err
			}
			return runShell(cmd.Context(), cfg)
		},
	}
	flags = config.AddFlags(root.Flags())
	return root
}

func runShell(ctx context.Context, cfg config.Config) error {
	opts := cfg.ConnectionOptions()
	conn, err := segmentprotocol.NewClient(opts).GetConnection(ctx)
	if err != nil {
		return err
	}

	editor := NewLineEditor(cfg.HistoryFile)
	cleanup := newCleanup(func() {
		editor.Close()
		conn.Close()
	})
	setupSignalHandler(cleanup)
	defer cleanup()

	if editor.IsInteractive() {
		fmt.Print(welcomeBanner(opts))
	}
	return NewREPL(conn, opts, os.Stdout).Run(ctx, editor)
}

// welcomeBanner is shown when a person, not a script, is typing.
func welcomeBanner(opts segmentprotocol.ConnectionOptions) string {
	return fmt.Sprintf("segment-cli %s\nConnected to %s.\nType 'help' for commands, 'quit' to exit.\n\n",
		version, opts.Addr())
}

// newCleanup wraps fn so that it runs once, however many of the signal
// handler and the deferred call reach it.
func newCleanup(fn func()) func() {
	var once sync.Once
	return func() { once.Do(fn) }
}

// setupSignalHandler runs cleanup and exits on SIGTERM, and on SIGINT
// while readline is not reading (readline reports Ctrl-C itself).
func setupSignalHandler(cleanup func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println()
		cleanup()
		os.Exit(0)
	}()
}

func main() {
	logging.ConfigureRuntime()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("segment-cli failed")
		os.Exit(1)
	}
}
