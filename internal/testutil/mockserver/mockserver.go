// =============================================================================
// mockserver.go - Mock Segment Server
// =============================================================================
//
// A loopback TCP server speaking the Segment wire format, started per
// test and stopped by t.Cleanup. Handlers decide the reply bytes, so tests
// can serve a real Store or a fixed, even malformed, reply.
//
// =============================================================================

// Package mockserver runs an in-process Segment server for tests.
package mockserver

import (
	"bytes"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"testing"

	"github.com/segment-dev/segment-cli/segmentprotocol"
)

// Handler produces the raw reply bytes for one command.
type Handler func(args []string) []byte

// Server is a TCP server answering each command with its Handler.
type Server struct {
	listener net.Listener
	handler  Handler

	mu          sync.Mutex
	closed      bool
	connections []net.Conn
	received    [][]string

	wg sync.WaitGroup
}

// Start listens on a loopback port and serves until the test ends. A nil
// handler serves a fresh Store.
func Start(t testing.TB, handler Handler) *Server {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create mock server listener: %v", err)
	}

	if handler == nil {
		handler = NewStore().Handle
	}

	s := &Server{
		listener: listener,
		handler:  handler,
	}

	s.wg.Add(1)
	go s.acceptLoop()

	t.Cleanup(s.stop)
	return s
}

// Addr returns the host:port the server listens on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Options returns connection options pointing at the server.
func (s *Server) Options() segmentprotocol.ConnectionOptions {
	addr := s.listener.Addr().(*net.TCPAddr)
	return segmentprotocol.NewConnectionOptions(addr.IP.String(), addr.Port)
}

// Received returns every command seen so far, in arrival order.
func (s *Server) Received() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.received))
	copy(out, s.received)
	return out
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}

		if !s.track(conn) {
			conn.Close()
			return
		}
		go s.handleConnection(conn)
	}
}

// track registers conn for shutdown. It reports false once stop has run,
// in which case the caller owns conn.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.connections = append(s.connections, conn)
	s.wg.Add(1)
	return true
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()

	reader := segmentprotocol.NewCommandReader(conn)
	for {
		cmd, err := reader.ReadCommand()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				_ = segmentprotocol.WriteServerError(conn, err.Error())
			}
			return
		}

		args := cmd.Args()
		s.mu.Lock()
		s.received = append(s.received, args)
		s.mu.Unlock()

		if _, err := conn.Write(s.handler(args)); err != nil {
			return
		}
	}
}

func (s *Server) stop() {
	s.listener.Close()

	s.mu.Lock()
	s.closed = true
	for _, conn := range s.connections {
		conn.Close()
	}
	s.connections = nil
	s.mu.Unlock()

	s.wg.Wait()
}

// Reply encodes r as reply bytes.
func Reply(r segmentprotocol.RawResponse) []byte {
	var buf bytes.Buffer
	if err := segmentprotocol.WriteResponse(&buf, r); err != nil {
		return ReplyError(err.Error())
	}
	return buf.Bytes()
}

// ReplyError encodes an error reply.
func ReplyError(message string) []byte {
	var buf bytes.Buffer
	_ = segmentprotocol.WriteServerError(&buf, message)
	return buf.Bytes()
}

// Fixed returns a handler that answers every command with the same bytes.
func Fixed(reply []byte) Handler {
	return func([]string) []byte {
		return reply
	}
}

// Static returns a handler that answers every command with r.
func Static(r segmentprotocol.RawResponse) Handler {
	return Fixed(Reply(r))
}

func wrongArity(name string) []byte {
	return ReplyError("wrong number of arguments for '" + name + "' command")
}

func parseSeconds(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
