// =============================================================================
// protocol.go - Protocol Constants and Connection Options
// =============================================================================
//
// Default address, timeouts and frame size limits, plus the options a
// Client dials with. The wire format itself is described below.
//
// =============================================================================

// Package segmentprotocol implements the client side of the Segment
// keyspace protocol.
//
// Wire Format:
//
//	Request:   *<n>\r\n followed by n bulk strings ($<len>\r\n<bytes>\r\n)
//	Null:      _\r\n
//	Boolean:   #t\r\n | #f\r\n
//	Integer:   :<n>\r\n
//	String:    $<len>\r\n<bytes>\r\n | +<text>\r\n
//	Error:     -<message>\r\n
//	List:      *<n>\r\n followed by n strings or n maps
//	Empty:     *0\r\n, a list with no element type
//	Map:       %<n>\r\n followed by n key/value string pairs
//
// Example Session:
//
//	CLI: *1\r\n$4\r\nping\r\n
//	SRV: $4\r\npong\r\n
//	CLI: *2\r\n$5\r\ncount\r\n$5\r\nusers\r\n
//	SRV: :12\r\n
package segmentprotocol

import (
	"net"
	"strconv"
	"time"
)

const (
	// DefaultHost is the address the Segment server listens on by default.
	DefaultHost = "127.0.0.1"

	// DefaultPort is the default Segment server port.
	DefaultPort = 1698

	// DialTimeout is the default timeout for establishing connections.
	DialTimeout = 5 * time.Second

	// CommandTimeout is the default timeout for one round trip.
	CommandTimeout = 30 * time.Second

	// MaxBulkLength caps a single string on the wire.
	MaxBulkLength = 512 * 1024 * 1024

	// MaxAggregateLength caps the element count of a list or map.
	MaxAggregateLength = 1024 * 1024
)

// ConnectionOptions holds the host/port style configuration a Client
// dials with.
type ConnectionOptions struct {
	Host string
	Port int

	// DialTimeout bounds connection establishment. Zero means DialTimeout.
	DialTimeout time.Duration

	// CommandTimeout bounds each round trip when the caller's context has
	// no deadline. Zero means CommandTimeout.
	CommandTimeout time.Duration
}

// NewConnectionOptions returns options for host and port with default
// timeouts.
func NewConnectionOptions(host string, port int) ConnectionOptions {
	return ConnectionOptions{
		Host:           host,
		Port:           port,
		DialTimeout:    DialTimeout,
		CommandTimeout: CommandTimeout,
	}
}

// DefaultConnectionOptions returns options for the default local server.
func DefaultConnectionOptions() ConnectionOptions {
	return NewConnectionOptions(DefaultHost, DefaultPort)
}

// Addr returns the host:port dial address.
func (o ConnectionOptions) Addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

func (o ConnectionOptions) dialTimeout() time.Duration {
	if o.DialTimeout <= 0 {
		return DialTimeout
	}
	return o.DialTimeout
}

func (o ConnectionOptions) commandTimeout() time.Duration {
	if o.CommandTimeout <= 0 {
		return CommandTimeout
	}
	return o.CommandTimeout
}
