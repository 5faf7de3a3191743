// =============================================================================
// client.go - TCP Client
// =============================================================================
//
// The default Dialer. Each Connection owns one TCP socket and handles one
// command at a time. After a framing or I/O failure the stream can no
// longer be trusted, so the connection refuses further commands.
//
// =============================================================================

package segmentprotocol

import (
	"bufio"
	"context"
	"errors"
	"net"
	"time"

	"github.com/rs/zerolog/log"
)

// Client dials Segment servers over TCP. It holds no connections itself;
// every GetConnection call opens a new one.
type Client struct {
	opts ConnectionOptions
}

// NewClient creates a client for the given options.
func NewClient(opts ConnectionOptions) *Client {
	return &Client{opts: opts}
}

// GetConnection dials the server and returns a ready Connection.
func (c *Client) GetConnection(ctx context.Context) (Connection, error) {
	dialCtx, cancel := context.WithTimeout(ctx, c.opts.dialTimeout())
	defer cancel()

	addr := c.opts.Addr()
	var d net.Dialer
	nc, err := d.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return nil, NewConnectionError("failed to connect to "+addr, err)
	}

	log.Debug().Str("addr", addr).Msg("connected")
	return &conn{
		nc:      nc,
		reader:  NewFrameReader(bufio.NewReader(nc)),
		addr:    addr,
		timeout: c.opts.commandTimeout(),
	}, nil
}

// conn is the TCP Connection returned by Client.
type conn struct {
	nc      net.Conn
	reader  *FrameReader
	addr    string
	timeout time.Duration

	// broken is set once the stream can no longer be trusted to be
	// aligned on a frame boundary.
	broken error
}

// Execute writes cmd and reads exactly one reply.
func (c *conn) Execute(ctx context.Context, cmd *Command) (RawResponse, error) {
	if cmd.Empty() {
		return RawResponse{}, ErrEmptyCommand
	}
	if c.nc == nil {
		return RawResponse{}, NewConnectionError("connection closed", nil)
	}
	if c.broken != nil {
		return RawResponse{}, NewConnectionError("connection unusable", c.broken)
	}
	if err := ctx.Err(); err != nil {
		return RawResponse{}, NewConnectionError("command not sent", err)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.nc.SetDeadline(deadline); err != nil {
		return RawResponse{}, NewConnectionError("failed to set deadline", err)
	}

	start := time.Now()
	if err := WriteCommand(c.nc, cmd); err != nil {
		c.broken = err
		return RawResponse{}, NewConnectionError("failed to send command", err)
	}

	raw, err := c.reader.ReadResponse()
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			if cmdErr.Kind == ProtocolFailure {
				c.broken = err
			}
			log.Debug().Str("addr", c.addr).Str("command", cmd.Name()).Err(err).Msg("round trip failed")
			return RawResponse{}, err
		}
		c.broken = err
		return RawResponse{}, NewConnectionError("failed to read response", err)
	}

	log.Debug().
		Str("addr", c.addr).
		Str("command", cmd.Name()).
		Int("args", cmd.Len()-1).
		Stringer("kind", raw.Kind()).
		Int("len", raw.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("round trip")
	return raw, nil
}

// Close closes the underlying socket. Closing twice is a no-op.
func (c *conn) Close() error {
	if c.nc == nil {
		return nil
	}
	err := c.nc.Close()
	c.nc = nil
	log.Debug().Str("addr", c.addr).Msg("disconnected")
	return err
}
