// =============================================================================
// errors.go - Command Errors
// =============================================================================
//
// Every failure a query can produce. Transport, framing, decoding and
// server-reported failures share one typed error, CommandError, whose Kind
// selects the category. Sentinels make each kind usable with errors.Is.
//
// Two errors sit outside the taxonomy because no round trip happens:
// ErrMalformedInput from Tokenize and ErrEmptyCommand for a command with
// no tokens.
//
// =============================================================================

package segmentprotocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the Segment protocol.
var (
	// ErrMalformedInput indicates a command line ended inside a quoted segment.
	ErrMalformedInput = errors.New("malformed input received for tokenization")

	// ErrEmptyCommand indicates a Command with no tokens was about to be sent.
	ErrEmptyCommand = errors.New("empty command")

	// ErrCommandConsumed indicates a Command was queried a second time.
	ErrCommandConsumed = errors.New("command already consumed")

	// ErrConnectionFailure matches any CommandError of kind ConnectionFailure.
	ErrConnectionFailure = errors.New("connection failure")

	// ErrProtocolFailure matches any CommandError of kind ProtocolFailure.
	ErrProtocolFailure = errors.New("protocol failure")

	// ErrTypeMismatch matches any CommandError of kind TypeMismatch.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrServerError matches any CommandError of kind ServerError.
	ErrServerError = errors.New("server error")
)

// ErrorKind categorizes command errors.
type ErrorKind int

const (
	// ConnectionFailure indicates the connection could not be reached or used.
	ConnectionFailure ErrorKind = iota
	// ProtocolFailure indicates the reply could not be parsed into a RawResponse.
	ProtocolFailure
	// TypeMismatch indicates the reply does not have the requested shape.
	TypeMismatch
	// ServerError indicates the server reported a failure message.
	ServerError
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case ConnectionFailure:
		return "connection failure"
	case ProtocolFailure:
		return "protocol failure"
	case TypeMismatch:
		return "type mismatch"
	case ServerError:
		return "server error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// CommandError is the error returned for every failed round trip or decode.
//
// Only the fields relevant to Kind are set: Expected and Actual for
// TypeMismatch, Message for ServerError, Message and Cause for the
// transport kinds.
type CommandError struct {
	Kind     ErrorKind
	Expected Shape    // requested shape (TypeMismatch)
	Actual   WireKind // received wire kind (TypeMismatch)
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	switch e.Kind {
	case TypeMismatch:
		return fmt.Sprintf("type mismatch: expected %s, server replied with %s", e.Expected, e.Actual)
	case ServerError:
		return e.Message
	default:
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
		}
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CommandError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for e's kind.
func (e *CommandError) Is(target error) bool {
	switch target {
	case ErrConnectionFailure:
		return e.Kind == ConnectionFailure
	case ErrProtocolFailure:
		return e.Kind == ProtocolFailure
	case ErrTypeMismatch:
		return e.Kind == TypeMismatch
	case ErrServerError:
		return e.Kind == ServerError
	}
	return false
}

// Recoverable reports whether the same round trip can succeed by asking
// for a different shape. Transport failures and server errors are final
// for the call.
func (e *CommandError) Recoverable() bool {
	return e.Kind == TypeMismatch
}

// NewConnectionError creates a ConnectionFailure error.
func NewConnectionError(message string, cause error) error {
	return &CommandError{Kind: ConnectionFailure, Message: message, Cause: cause}
}

// NewProtocolError creates a ProtocolFailure error.
func NewProtocolError(message string, cause error) error {
	return &CommandError{Kind: ProtocolFailure, Message: message, Cause: cause}
}

// NewServerError creates a ServerError carrying the server's message verbatim.
func NewServerError(message string) error {
	return &CommandError{Kind: ServerError, Message: message}
}

func newTypeMismatchError(expected Shape, actual WireKind) error {
	return &CommandError{Kind: TypeMismatch, Expected: expected, Actual: actual}
}
