// =============================================================================
// keyspaces.go - Keyspace Export
// =============================================================================
//
// Turns the server's keyspace list into create commands, one per line,
// that restore can replay.
//
// =============================================================================

// Package keyspaces exports the server's keyspace definitions as command
// lines and restores them by replaying those lines.
package keyspaces

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/segment-dev/segment-cli/segmentprotocol"
)

// Keys read from each entry of the keyspaces reply.
const (
	NameKey    = "name"
	EvictorKey = "evictor"
)

// ErrUnrepresentable indicates a name that no export line can carry: it
// is empty, or contains a double quote or a line break.
var ErrUnrepresentable = errors.New("cannot be written as a command line")

// Export lists the server's keyspaces and returns one line per keyspace in
// the form "create <name> evictor <policy>", in server order.
func Export(ctx context.Context, conn segmentprotocol.Connection) ([]string, error) {
	cmd := segmentprotocol.NewCommand(segmentprotocol.CmdKeyspaces.String())
	entries, err := segmentprotocol.Query(ctx, conn, cmd, segmentprotocol.DecodeMaps)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(entries))
	for i, entry := range entries {
		name, ok := entry[NameKey]
		if !ok {
			return nil, fmt.Errorf("keyspace entry %d has no %q field", i, NameKey)
		}
		evictor, ok := entry[EvictorKey]
		if !ok {
			return nil, fmt.Errorf("keyspace entry %d (%s) has no %q field", i, name, EvictorKey)
		}
		line, err := CreateLine(name, evictor)
		if err != nil {
			return nil, fmt.Errorf("keyspace entry %d: %w", i, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// WriteExport writes Export's lines to w, one per line, and returns how
// many were written.
func WriteExport(ctx context.Context, conn segmentprotocol.Connection, w io.Writer) (int, error) {
	lines, err := Export(ctx, conn)
	if err != nil {
		return 0, err
	}
	if err := WriteLines(w, lines); err != nil {
		return 0, err
	}
	return len(lines), nil
}

// WriteLines writes each line followed by a newline.
func WriteLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// CreateLine formats the command that recreates a keyspace. Names with
// spaces are quoted. Values Tokenize could not read back are rejected.
func CreateLine(name, evictor string) (string, error) {
	for _, v := range []string{name, evictor} {
		if v == "" || strings.ContainsAny(v, "\"\r\n") {
			return "", fmt.Errorf("%q %w", v, ErrUnrepresentable)
		}
	}
	return segmentprotocol.NewCommand(segmentprotocol.CmdCreate.String(), name, "evictor", evictor).Format(), nil
}
