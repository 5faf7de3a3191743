// =============================================================================
// repl.go - REPL Loop
// =============================================================================
//
// Reads a line, tokenizes it, and dispatches on the command name. Each
// known command is queried with the decoder for its result type, and the
// result is printed in the shell's output format. help, quit and exit
// are handled locally.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/segment-dev/segment-cli/segmentprotocol"
)

// lineReader is satisfied by LineEditor.
type lineReader interface {
	GetLine(prompt string) (string, error)
}

// REPL reads commands, sends each over one connection and prints the
// typed result.
type REPL struct {
	conn   segmentprotocol.Connection
	prompt string
	out    io.Writer
}

// NewREPL creates a REPL whose prompt names the server address.
func NewREPL(conn segmentprotocol.Connection, opts segmentprotocol.ConnectionOptions, out io.Writer) *REPL {
	return &REPL{
		conn:   conn,
		prompt: fmt.Sprintf("%s:%d> ", opts.Host, opts.Port),
		out:    out,
	}
}

// Prompt returns the text shown before each line.
func (r *REPL) Prompt() string {
	return r.prompt
}

// Run reads lines from in until end of input, a quit command or ctx is
// done. End of input is not an error.
func (r *REPL) Run(ctx context.Context, in lineReader) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := in.GetLine(r.prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}

		if !r.Eval(ctx, line) {
			return nil
		}
	}
}

// Eval handles one input line and reports whether the session continues.
func (r *REPL) Eval(ctx context.Context, line string) bool {
	tokens, err := segmentprotocol.Tokenize(line)
	if err != nil {
		fmt.Fprintln(r.out, "malformed input received")
		return true
	}
	if len(tokens) == 0 {
		return true
	}

	switch strings.ToLower(tokens[0]) {
	case "quit", "exit":
		return false
	case "help":
		printHelp(r.out, tokens[1:])
		return true
	}

	r.execute(ctx, segmentprotocol.NewCommand(tokens...))
	return true
}

func (r *REPL) execute(ctx context.Context, cmd *segmentprotocol.Command) {
	switch cmd.Kind() {
	case segmentprotocol.CmdCreate, segmentprotocol.CmdSet, segmentprotocol.CmdDel, segmentprotocol.CmdDrop:
		run(ctx, r, cmd, segmentprotocol.DecodeBool, printBool)
	case segmentprotocol.CmdGet:
		run(ctx, r, cmd, segmentprotocol.DecodeOptionalString, printOptionalString)
	case segmentprotocol.CmdCount:
		run(ctx, r, cmd, segmentprotocol.DecodeInt, printInt)
	case segmentprotocol.CmdTTL:
		run(ctx, r, cmd, segmentprotocol.DecodeOptionalInt, printOptionalInt)
	case segmentprotocol.CmdPing:
		run(ctx, r, cmd, segmentprotocol.DecodeString, printString)
	case segmentprotocol.CmdKeyspaces:
		run(ctx, r, cmd, segmentprotocol.DecodeMaps, printMaps)
	default:
		fmt.Fprintf(r.out, "(error) \"unknown command '%s'\"\n", strings.ToLower(cmd.Name()))
	}
}

// run performs one query and prints either its result or its error.
func run[T any](ctx context.Context, r *REPL, cmd *segmentprotocol.Command, dec segmentprotocol.Decoder[T], show func(io.Writer, T)) {
	v, err := segmentprotocol.Query(ctx, r.conn, cmd, dec)
	if err != nil {
		log.Debug().Str("command", cmd.Name()).Err(err).Msg("command failed")
		printError(r.out, err)
		return
	}
	show(r.out, v)
}
