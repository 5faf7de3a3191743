// =============================================================================
// query.go - Connection Interface and Query
// =============================================================================
//
// The transport contract the rest of the package depends on, and Query,
// which ties a Command, a Connection and a Decoder into one round trip.
//
// =============================================================================

package segmentprotocol

import "context"

// Connection performs request/response round trips against one server
// connection. Implementations are used by one caller at a time.
type Connection interface {
	// Execute sends cmd and waits for its reply. An empty cmd fails with
	// ErrEmptyCommand before anything is sent; every other failure is a
	// *CommandError of kind ConnectionFailure, ProtocolFailure or
	// ServerError.
	Execute(ctx context.Context, cmd *Command) (RawResponse, error)

	// Close releases the connection.
	Close() error
}

// Dialer produces Connections.
type Dialer interface {
	GetConnection(ctx context.Context) (Connection, error)
}

// Query sends cmd over conn and decodes the reply with dec.
//
// It performs at most one round trip and never retries. Empty commands are
// rejected before anything is sent. The command is consumed by the call
// whether or not it succeeds.
func Query[T any](ctx context.Context, conn Connection, cmd *Command, dec Decoder[T]) (T, error) {
	var zero T

	if cmd.Empty() {
		return zero, ErrEmptyCommand
	}
	if cmd.consumed {
		return zero, ErrCommandConsumed
	}
	cmd.consumed = true

	raw, err := conn.Execute(ctx, cmd)
	if err != nil {
		return zero, err
	}
	return dec(raw)
}
