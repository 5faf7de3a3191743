// =============================================================================
// command.go - Commands
// =============================================================================
//
// The known command vocabulary and the Command builder. Each known
// command carries the response shape its reply decodes into; names are
// matched without regard to case.
//
// =============================================================================

package segmentprotocol

import (
	"strings"
)

// CommandName identifies a command the server understands.
type CommandName int

const (
	// CmdUnknown is any name not in the known command set.
	CmdUnknown CommandName = iota

	// Keyspace management
	CmdCreate
	CmdDrop
	CmdKeyspaces

	// Key operations
	CmdSet
	CmdGet
	CmdDel
	CmdCount
	CmdTTL

	// Connection
	CmdPing
)

// commandNames maps lowercased wire names to their CommandName.
var commandNames = map[string]CommandName{
	"create":    CmdCreate,
	"drop":      CmdDrop,
	"keyspaces": CmdKeyspaces,
	"set":       CmdSet,
	"get":       CmdGet,
	"del":       CmdDel,
	"count":     CmdCount,
	"ttl":       CmdTTL,
	"ping":      CmdPing,
}

// LookupCommand returns the CommandName for name, ignoring case.
// Names outside the known set return CmdUnknown.
func LookupCommand(name string) CommandName {
	if c, ok := commandNames[strings.ToLower(name)]; ok {
		return c
	}
	return CmdUnknown
}

// String returns the lowercase wire name of the command.
func (c CommandName) String() string {
	switch c {
	case CmdCreate:
		return "create"
	case CmdDrop:
		return "drop"
	case CmdKeyspaces:
		return "keyspaces"
	case CmdSet:
		return "set"
	case CmdGet:
		return "get"
	case CmdDel:
		return "del"
	case CmdCount:
		return "count"
	case CmdTTL:
		return "ttl"
	case CmdPing:
		return "ping"
	default:
		return "unknown"
	}
}

// Shape returns the response shape a command's reply is decoded as.
// The second result is false for CmdUnknown.
func (c CommandName) Shape() (Shape, bool) {
	switch c {
	case CmdCreate, CmdSet, CmdDel, CmdDrop:
		return ShapeBool, true
	case CmdGet:
		return ShapeOptionalString, true
	case CmdCount:
		return ShapeInt, true
	case CmdTTL:
		return ShapeOptionalInt, true
	case CmdPing:
		return ShapeString, true
	case CmdKeyspaces:
		return ShapeMaps, true
	default:
		return 0, false
	}
}

// Command is an ordered list of tokens sent to the server as one request.
// The first token is the command name; the rest are arguments in the order
// they were added.
//
// A Command is good for one round trip. Query marks it consumed.
type Command struct {
	args     []string
	consumed bool
}

// NewCommand creates a command from the given tokens. With no tokens the
// command starts empty and is filled with Arg.
func NewCommand(tokens ...string) *Command {
	c := &Command{}
	for _, t := range tokens {
		c.Arg(t)
	}
	return c
}

// Arg appends a token and returns the command for chaining.
func (c *Command) Arg(token string) *Command {
	c.args = append(c.args, token)
	return c
}

// Args returns a copy of the tokens.
func (c *Command) Args() []string {
	out := make([]string, len(c.args))
	copy(out, c.args)
	return out
}

// Len returns the number of tokens.
func (c *Command) Len() int {
	return len(c.args)
}

// Empty reports whether the command has no tokens.
func (c *Command) Empty() bool {
	return len(c.args) == 0
}

// Name returns the first token as given, or "" for an empty command.
func (c *Command) Name() string {
	if len(c.args) == 0 {
		return ""
	}
	return c.args[0]
}

// Kind looks up the command name case-insensitively.
func (c *Command) Kind() CommandName {
	return LookupCommand(c.Name())
}

// Consumed reports whether the command has already been queried.
func (c *Command) Consumed() bool {
	return c.consumed
}

// Format returns the command as a single line. Tokens containing spaces are
// quoted so Tokenize splits the line back into the same tokens.
func (c *Command) Format() string {
	parts := make([]string, len(c.args))
	for i, a := range c.args {
		if strings.ContainsRune(a, ' ') {
			parts[i] = `"` + a + `"`
		} else {
			parts[i] = a
		}
	}
	return strings.Join(parts, " ")
}
