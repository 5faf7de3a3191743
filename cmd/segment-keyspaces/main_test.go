package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/segment-dev/segment-cli/internal/config"
	"github.com/segment-dev/segment-cli/internal/testutil/mockserver"
	"github.com/segment-dev/segment-cli/internal/testutil/testlog"
	"github.com/segment-dev/segment-cli/segmentprotocol"
)

// execute runs the root command against srv and returns its stdout.
func execute(t *testing.T, srv *mockserver.Server, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigPath, "")

	opts := srv.Options()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--host", opts.Host, "--port", strconv.Itoa(opts.Port)}, args...))
	err := root.Execute()
	return out.String(), err
}

func seed(t *testing.T, store *mockserver.Store, lines ...string) {
	t.Helper()
	for _, line := range lines {
		tokens := strings.Fields(line)
		reply := string(store.Handle(tokens))
		if reply != "#t\r\n" {
			t.Fatalf("seed %q: reply %q", line, reply)
		}
	}
}

func TestExportRestore(t *testing.T) {
	testlog.Start(t)

	sourceStore := mockserver.NewStore()
	seed(t, sourceStore,
		"create users evictor lru",
		"create sessions evictor random",
		"create cache",
	)
	source := mockserver.Start(t, sourceStore.Handle)

	dump := filepath.Join(t.TempDir(), "keyspaces.txt")
	if _, err := execute(t, source, "export", "--output", dump); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(dump)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	wantDump := "create users evictor lru\ncreate sessions evictor random\ncreate cache evictor nop\n"
	if string(data) != wantDump {
		t.Errorf("got %q, want %q", string(data), wantDump)
	}

	targetStore := mockserver.NewStore()
	target := mockserver.Start(t, targetStore.Handle)
	out, err := execute(t, target, "restore", dump)
	if err != nil {
		t.Fatalf("restore: %v (output %q)", err, out)
	}
	if out != "" {
		t.Errorf("unexpected restore output %q", out)
	}
	if got, want := targetStore.Keyspaces(), sourceStore.Keyspaces(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRestoreReportsFailedLines(t *testing.T) {
	testlog.Start(t)

	dump := filepath.Join(t.TempDir(), "keyspaces.txt")
	body := "create users evictor lru\ncreate cache evictor bogus\ncreate sessions\n"
	if err := os.WriteFile(dump, []byte(body), 0o600); err != nil {
		t.Fatalf("write dump: %v", err)
	}

	store := mockserver.NewStore()
	srv := mockserver.Start(t, store.Handle)
	out, err := execute(t, srv, "restore", dump)
	if err == nil || !strings.Contains(err.Error(), "1 line(s)") {
		t.Errorf("got %v, want one failed line", err)
	}

	want := "Could not create keyspace from: create cache evictor bogus\n(error) \"invalid evictor 'bogus'\"\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
	if got := len(store.Keyspaces()); got != 2 {
		t.Errorf("restored %d keyspaces, want 2", got)
	}
}

func TestRestoreMissingFile(t *testing.T) {
	testlog.Start(t)
	srv := mockserver.Start(t, nil)

	_, err := execute(t, srv, "restore", filepath.Join(t.TempDir(), "absent.txt"))
	if !os.IsNotExist(err) {
		t.Errorf("got %v, want not-exist error", err)
	}
	if got := len(srv.Received()); got != 0 {
		t.Errorf("server received %d commands", got)
	}
}

func TestRestoreRequiresFile(t *testing.T) {
	testlog.Start(t)
	srv := mockserver.Start(t, nil)

	if _, err := execute(t, srv, "restore"); err == nil {
		t.Error("expected an error without a file argument")
	}
}

func TestExportInvalidLocation(t *testing.T) {
	testlog.Start(t)
	srv := mockserver.Start(t, nil)

	_, err := execute(t, srv, "export", "--output", "gs://bucket-only")
	if err == nil || !strings.Contains(err.Error(), "gs://bucket/object") {
		t.Errorf("got %v, want invalid location error", err)
	}
}

func TestExportFailureKeepsExistingDump(t *testing.T) {
	tests := []struct {
		name    string
		handler mockserver.Handler
		output  string
	}{
		{"server error", mockserver.Fixed([]byte("-server busy\r\n")), "(error) \"server busy\"\n"},
		{
			"wrong shape",
			mockserver.Static(segmentprotocol.NewStringListResponse([]string{"users"})),
			"(error) \"type mismatch: expected sequence of maps, server replied with list of strings\"\n",
		},
		{"malformed reply", mockserver.Fixed([]byte("?oops\r\n")), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testlog.Start(t)

			dump := filepath.Join(t.TempDir(), "keyspaces.txt")
			previous := "create users evictor lru\n"
			if err := os.WriteFile(dump, []byte(previous), 0o600); err != nil {
				t.Fatalf("write dump: %v", err)
			}

			srv := mockserver.Start(t, tt.handler)
			out, err := execute(t, srv, "export", "--output", dump)
			if err == nil {
				t.Fatal("expected export to fail")
			}
			if tt.output != "" && out != tt.output {
				t.Errorf("got %q, want %q", out, tt.output)
			}

			data, err := os.ReadFile(dump)
			if err != nil {
				t.Fatalf("read dump: %v", err)
			}
			if string(data) != previous {
				t.Errorf("dump changed to %q, want %q", string(data), previous)
			}
		})
	}
}
