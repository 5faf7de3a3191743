// =============================================================================
// restore.go - Keyspace Restore
// =============================================================================
//
// Replays an export line by line. A bad line is reported and skipped;
// it never stops the lines after it.
//
// =============================================================================

package keyspaces

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/segment-dev/segment-cli/segmentprotocol"
)

// LineFailure records a restore line that could not be applied.
type LineFailure struct {
	Line   int // 1-based
	Source string
	Err    error
}

func (f LineFailure) Error() string {
	return fmt.Sprintf("line %d (%s): %v", f.Line, f.Source, f.Err)
}

// Report summarizes a restore run.
type Report struct {
	Applied   int // server replied true
	Unchanged int // server replied false, e.g. the keyspace already existed
	Skipped   int // blank lines
	Failed    []LineFailure
}

// Restore replays each line of r as a command whose reply is decoded as a
// boolean. A failing line is logged and recorded in the report, and the
// remaining lines are still processed.
//
// The returned error is non-nil only if r cannot be read or ctx is done;
// the report then covers the lines handled so far.
func Restore(ctx context.Context, conn segmentprotocol.Connection, r io.Reader) (Report, error) {
	var report Report

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), segmentprotocol.MaxBulkLength)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		lineNo++
		line := scanner.Text()

		tokens, err := segmentprotocol.Tokenize(line)
		if err != nil {
			report.fail(lineNo, line, err)
			continue
		}
		if len(tokens) == 0 {
			report.Skipped++
			continue
		}

		ok, err := segmentprotocol.Query(ctx, conn, segmentprotocol.NewCommand(tokens...), segmentprotocol.DecodeBool)
		if err != nil {
			report.fail(lineNo, line, err)
			continue
		}
		if ok {
			report.Applied++
		} else {
			report.Unchanged++
		}
	}
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("read restore input: %w", err)
	}

	log.Info().
		Int("applied", report.Applied).
		Int("unchanged", report.Unchanged).
		Int("failed", len(report.Failed)).
		Msg("restore finished")
	return report, nil
}

func (r *Report) fail(lineNo int, source string, err error) {
	log.Warn().Int("line", lineNo).Str("source", source).Err(err).Msg("could not create keyspace")
	r.Failed = append(r.Failed, LineFailure{Line: lineNo, Source: source, Err: err})
}
