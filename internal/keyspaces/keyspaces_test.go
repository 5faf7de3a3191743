// =============================================================================
// keyspaces_test.go - Tests for Export and Restore
// =============================================================================
//
// Includes the export, restore, export round trip against the mock server.
//
// =============================================================================

package keyspaces

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/segment-dev/segment-cli/internal/testutil/mockserver"
	"github.com/segment-dev/segment-cli/internal/testutil/testlog"
	"github.com/segment-dev/segment-cli/segmentprotocol"
)

func connect(t *testing.T, srv *mockserver.Server) segmentprotocol.Connection {
	t.Helper()
	conn, err := segmentprotocol.NewClient(srv.Options()).GetConnection(context.Background())
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestCreateLine(t *testing.T) {
	tests := []struct {
		name, evictor, expected string
	}{
		{"users", "lru", "create users evictor lru"},
		{"sessions", "nop", "create sessions evictor nop"},
		{"my space", "random", `create "my space" evictor random`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CreateLine(tt.name, tt.evictor)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			tokens, err := segmentprotocol.Tokenize(got)
			if err != nil {
				t.Fatalf("tokenize %q: %v", got, err)
			}
			if want := []string{"create", tt.name, "evictor", tt.evictor}; !reflect.DeepEqual(tokens, want) {
				t.Errorf("tokens = %q, want %q", tokens, want)
			}
		})
	}
}

func TestCreateLineRejectsUnrepresentable(t *testing.T) {
	tests := []struct {
		label, name, evictor string
	}{
		{"quote in name", `a"b`, "lru"},
		{"quoted name", `"users"`, "lru"},
		{"newline in name", "a\nb", "lru"},
		{"carriage return", "a\rb", "lru"},
		{"empty name", "", "lru"},
		{"quote in evictor", "users", `l"ru`},
		{"empty evictor", "users", ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			line, err := CreateLine(tt.name, tt.evictor)
			if !errors.Is(err, ErrUnrepresentable) {
				t.Errorf("got (%q, %v), want ErrUnrepresentable", line, err)
			}
		})
	}
}

func TestExport(t *testing.T) {
	testlog.Start(t)
	srv := mockserver.Start(t, mockserver.Static(segmentprotocol.NewMapListResponse([]map[string]string{
		{"name": "users", "evictor": "lru"},
		{"name": "sessions", "evictor": "random"},
	})))
	conn := connect(t, srv)

	lines, err := Export(context.Background(), conn)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	want := []string{"create users evictor lru", "create sessions evictor random"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("got %q, want %q", lines, want)
	}
	if got := srv.Received(); len(got) != 1 || !reflect.DeepEqual(got[0], []string{"keyspaces"}) {
		t.Errorf("server received %q", got)
	}
}

func TestExportEmpty(t *testing.T) {
	testlog.Start(t)
	srv := mockserver.Start(t, nil)
	conn := connect(t, srv)

	var buf bytes.Buffer
	n, err := WriteExport(context.Background(), conn, &buf)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if n != 0 || buf.Len() != 0 {
		t.Errorf("wrote %d lines (%q), want none", n, buf.String())
	}
}

func TestExportMissingField(t *testing.T) {
	testlog.Start(t)
	srv := mockserver.Start(t, mockserver.Static(segmentprotocol.NewMapListResponse([]map[string]string{
		{"name": "users"},
	})))
	conn := connect(t, srv)

	_, err := Export(context.Background(), conn)
	if err == nil || !strings.Contains(err.Error(), `"evictor"`) {
		t.Errorf("got %v, want missing evictor error", err)
	}
}

func TestExportUnrepresentableName(t *testing.T) {
	testlog.Start(t)
	srv := mockserver.Start(t, mockserver.Static(segmentprotocol.NewMapListResponse([]map[string]string{
		{"name": "users", "evictor": "lru"},
		{"name": `a"b`, "evictor": "nop"},
	})))
	conn := connect(t, srv)

	var buf bytes.Buffer
	_, err := WriteExport(context.Background(), conn, &buf)
	if !errors.Is(err, ErrUnrepresentable) {
		t.Fatalf("got %v, want ErrUnrepresentable", err)
	}
	if buf.Len() != 0 {
		t.Errorf("partial export written: %q", buf.String())
	}
}

func TestExportWrongShape(t *testing.T) {
	testlog.Start(t)
	srv := mockserver.Start(t, mockserver.Static(segmentprotocol.NewStringListResponse([]string{"users"})))
	conn := connect(t, srv)

	_, err := Export(context.Background(), conn)
	if !errors.Is(err, segmentprotocol.ErrTypeMismatch) {
		t.Errorf("expected type mismatch, got %v", err)
	}
}

func TestRestoreContinuesAfterFailures(t *testing.T) {
	testlog.Start(t)
	srv := mockserver.Start(t, nil)
	conn := connect(t, srv)

	input := strings.Join([]string{
		"create users evictor lru",
		"",
		`create "broken`,
		"create users evictor lru",
		"count users",
		"create cache evictor bogus",
		"create sessions evictor random",
	}, "\n")

	report, err := Restore(context.Background(), conn, strings.NewReader(input))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if report.Applied != 2 {
		t.Errorf("applied = %d, want 2", report.Applied)
	}
	if report.Unchanged != 1 {
		t.Errorf("unchanged = %d, want 1", report.Unchanged)
	}
	if report.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", report.Skipped)
	}

	var failedLines []int
	for _, f := range report.Failed {
		failedLines = append(failedLines, f.Line)
	}
	if !reflect.DeepEqual(failedLines, []int{3, 5, 6}) {
		t.Fatalf("failed lines = %v, want [3 5 6]", failedLines)
	}
	if !errors.Is(report.Failed[0].Err, segmentprotocol.ErrMalformedInput) {
		t.Errorf("line 3 error = %v, want malformed input", report.Failed[0].Err)
	}
	if !errors.Is(report.Failed[1].Err, segmentprotocol.ErrTypeMismatch) {
		t.Errorf("line 5 error = %v, want type mismatch", report.Failed[1].Err)
	}
	if !errors.Is(report.Failed[2].Err, segmentprotocol.ErrServerError) {
		t.Errorf("line 6 error = %v, want server error", report.Failed[2].Err)
	}
	if report.Failed[2].Source != "create cache evictor bogus" {
		t.Errorf("source = %q", report.Failed[2].Source)
	}
}

func TestRestoreStopsOnCancel(t *testing.T) {
	testlog.Start(t)
	srv := mockserver.Start(t, nil)
	conn := connect(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Restore(ctx, conn, strings.NewReader("create a\ncreate b\n"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if report.Applied != 0 || len(srv.Received()) != 0 {
		t.Errorf("commands were sent after cancellation")
	}
}

// TestExportRestoreRoundTrip replays an export into an empty server and
// checks that exporting again yields the same lines.
func TestExportRestoreRoundTrip(t *testing.T) {
	testlog.Start(t)
	ctx := context.Background()

	source := mockserver.Start(t, nil)
	sourceConn := connect(t, source)
	for _, line := range []string{
		"create users evictor lru",
		"create sessions evictor random",
		`create "audit log" evictor nop`,
		"create cache",
	} {
		tokens, err := segmentprotocol.Tokenize(line)
		if err != nil {
			t.Fatalf("tokenize %q: %v", line, err)
		}
		if _, err := segmentprotocol.Query(ctx, sourceConn, segmentprotocol.NewCommand(tokens...), segmentprotocol.DecodeBool); err != nil {
			t.Fatalf("seed %q: %v", line, err)
		}
	}

	var dump bytes.Buffer
	if _, err := WriteExport(ctx, sourceConn, &dump); err != nil {
		t.Fatalf("export: %v", err)
	}
	exported := strings.Split(strings.TrimSpace(dump.String()), "\n")

	target := mockserver.Start(t, nil)
	targetConn := connect(t, target)
	report, err := Restore(ctx, targetConn, strings.NewReader(dump.String()))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if len(report.Failed) != 0 || report.Applied != len(exported) {
		t.Fatalf("restore report = %+v", report)
	}

	reexported, err := Export(ctx, targetConn)
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}

	sort.Strings(exported)
	sort.Strings(reexported)
	if !reflect.DeepEqual(exported, reexported) {
		t.Errorf("got %q, want %q", reexported, exported)
	}
}
