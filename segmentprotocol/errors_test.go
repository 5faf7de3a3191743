package segmentprotocol

import (
	"errors"
	"io"
	"testing"
)

func TestCommandErrorIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"Connection", NewConnectionError("dial", io.EOF), ErrConnectionFailure},
		{"Protocol", NewProtocolError("bad frame", nil), ErrProtocolFailure},
		{"Mismatch", newTypeMismatchError(ShapeInt, WireString), ErrTypeMismatch},
		{"Server", NewServerError("keyspace 'x' does not exist"), ErrServerError},
	}

	sentinels := []error{ErrConnectionFailure, ErrProtocolFailure, ErrTypeMismatch, ErrServerError}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range sentinels {
				got := errors.Is(tt.err, s)
				if want := s == tt.sentinel; got != want {
					t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, s, got, want)
				}
			}
		})
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	err := NewConnectionError("failed to read response", io.ErrUnexpectedEOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("cause should be reachable through errors.Is")
	}
}

func TestCommandErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Server verbatim", NewServerError("ERR keyspace 'x' does not exist"), "ERR keyspace 'x' does not exist"},
		{"Connection with cause", NewConnectionError("failed to send command", io.EOF), "connection failure: failed to send command: EOF"},
		{"Protocol without cause", NewProtocolError("invalid boolean \"x\"", nil), "protocol failure: invalid boolean \"x\""},
		{"Mismatch", newTypeMismatchError(ShapeOptionalInt, WireMapList), "type mismatch: expected optional integer, server replied with list of maps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCommandErrorRecoverable(t *testing.T) {
	tests := []struct {
		err      error
		expected bool
	}{
		{NewConnectionError("x", nil), false},
		{NewProtocolError("x", nil), false},
		{NewServerError("x"), false},
		{newTypeMismatchError(ShapeBool, WireInt), true},
	}

	for _, tt := range tests {
		var cmdErr *CommandError
		if !errors.As(tt.err, &cmdErr) {
			t.Fatalf("expected *CommandError, got %T", tt.err)
		}
		if got := cmdErr.Recoverable(); got != tt.expected {
			t.Errorf("%v: Recoverable = %v, want %v", cmdErr.Kind, got, tt.expected)
		}
	}
}
