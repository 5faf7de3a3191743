// =============================================================================
// store.go - In-Memory Store
// =============================================================================
//
// A small keyspace store implementing the server commands for tests:
// create, drop, keyspaces, set, get, del, count, ttl and ping.
//
// =============================================================================

package mockserver

import (
	"strings"
	"sync"
	"time"

	"github.com/segment-dev/segment-cli/segmentprotocol"
)

// DefaultEvictor is the policy used when create names none.
const DefaultEvictor = "nop"

// Evictors lists the policies create accepts.
var Evictors = []string{"nop", "random", "lru"}

type entry struct {
	value    string
	expireAt time.Time
}

type keyspace struct {
	name    string
	evictor string
	keys    map[string]entry
}

// Store is an in-memory keyspace store implementing the server commands.
// Keyspaces are listed in creation order.
type Store struct {
	mu        sync.Mutex
	keyspaces []*keyspace
	now       func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Keyspaces returns (name, evictor) pairs in creation order.
func (s *Store) Keyspaces() [][2]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][2]string, len(s.keyspaces))
	for i, ks := range s.keyspaces {
		out[i] = [2]string{ks.name, ks.evictor}
	}
	return out
}

// Handle executes one command and returns its encoded reply.
func (s *Store) Handle(args []string) []byte {
	if len(args) == 0 {
		return ReplyError("empty command")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.ToLower(args[0])
	args = args[1:]

	switch name {
	case "ping":
		if len(args) != 0 {
			return wrongArity(name)
		}
		return Reply(segmentprotocol.NewStringResponse("pong"))
	case "create":
		return s.create(args)
	case "drop":
		if len(args) != 1 {
			return wrongArity(name)
		}
		for i, ks := range s.keyspaces {
			if ks.name == args[0] {
				s.keyspaces = append(s.keyspaces[:i], s.keyspaces[i+1:]...)
				return Reply(segmentprotocol.NewBoolResponse(true))
			}
		}
		return Reply(segmentprotocol.NewBoolResponse(false))
	case "keyspaces":
		if len(args) != 0 {
			return wrongArity(name)
		}
		maps := make([]map[string]string, len(s.keyspaces))
		for i, ks := range s.keyspaces {
			maps[i] = map[string]string{"name": ks.name, "evictor": ks.evictor}
		}
		return Reply(segmentprotocol.NewMapListResponse(maps))
	case "set":
		return s.set(args)
	case "get":
		if len(args) != 2 {
			return wrongArity(name)
		}
		ks, reply := s.lookup(args[0])
		if ks == nil {
			return reply
		}
		e, ok := s.live(ks, args[1])
		if !ok {
			return Reply(segmentprotocol.NewNullResponse())
		}
		return Reply(segmentprotocol.NewStringResponse(e.value))
	case "del":
		if len(args) != 2 {
			return wrongArity(name)
		}
		ks, reply := s.lookup(args[0])
		if ks == nil {
			return reply
		}
		if _, ok := s.live(ks, args[1]); !ok {
			return Reply(segmentprotocol.NewBoolResponse(false))
		}
		delete(ks.keys, args[1])
		return Reply(segmentprotocol.NewBoolResponse(true))
	case "count":
		if len(args) != 1 {
			return wrongArity(name)
		}
		ks, reply := s.lookup(args[0])
		if ks == nil {
			return reply
		}
		var n int64
		for k := range ks.keys {
			if _, ok := s.live(ks, k); ok {
				n++
			}
		}
		return Reply(segmentprotocol.NewIntResponse(n))
	case "ttl":
		if len(args) != 2 {
			return wrongArity(name)
		}
		ks, reply := s.lookup(args[0])
		if ks == nil {
			return reply
		}
		e, ok := s.live(ks, args[1])
		if !ok || e.expireAt.IsZero() {
			return Reply(segmentprotocol.NewNullResponse())
		}
		remaining := e.expireAt.Sub(s.now())
		return Reply(segmentprotocol.NewIntResponse(int64(remaining.Round(time.Second) / time.Second)))
	default:
		return ReplyError("unknown command '" + name + "'")
	}
}

// create handles: create <keyspace> [evictor <policy>]
func (s *Store) create(args []string) []byte {
	if len(args) != 1 && len(args) != 3 {
		return wrongArity("create")
	}
	evictor := DefaultEvictor
	if len(args) == 3 {
		if strings.ToLower(args[1]) != "evictor" {
			return ReplyError("syntax error near '" + args[1] + "'")
		}
		evictor = strings.ToLower(args[2])
		if !validEvictor(evictor) {
			return ReplyError("invalid evictor '" + args[2] + "'")
		}
	}
	for _, ks := range s.keyspaces {
		if ks.name == args[0] {
			return Reply(segmentprotocol.NewBoolResponse(false))
		}
	}
	s.keyspaces = append(s.keyspaces, &keyspace{
		name:    args[0],
		evictor: evictor,
		keys:    make(map[string]entry),
	})
	return Reply(segmentprotocol.NewBoolResponse(true))
}

// set handles: set <keyspace> <key> <value> [expire_after <seconds>]
func (s *Store) set(args []string) []byte {
	if len(args) != 3 && len(args) != 5 {
		return wrongArity("set")
	}
	ks, reply := s.lookup(args[0])
	if ks == nil {
		return reply
	}
	e := entry{value: args[2]}
	if len(args) == 5 {
		if strings.ToLower(args[3]) != "expire_after" {
			return ReplyError("syntax error near '" + args[3] + "'")
		}
		secs, ok := parseSeconds(args[4])
		if !ok {
			return ReplyError("invalid expiry '" + args[4] + "'")
		}
		e.expireAt = s.now().Add(time.Duration(secs) * time.Second)
	}
	ks.keys[args[1]] = e
	return Reply(segmentprotocol.NewBoolResponse(true))
}

func (s *Store) lookup(name string) (*keyspace, []byte) {
	for _, ks := range s.keyspaces {
		if ks.name == name {
			return ks, nil
		}
	}
	return nil, ReplyError("keyspace '" + name + "' does not exist")
}

func (s *Store) live(ks *keyspace, key string) (entry, bool) {
	e, ok := ks.keys[key]
	if !ok {
		return entry{}, false
	}
	if !e.expireAt.IsZero() && !s.now().Before(e.expireAt) {
		delete(ks.keys, key)
		return entry{}, false
	}
	return e, true
}

func validEvictor(name string) bool {
	for _, e := range Evictors {
		if e == name {
			return true
		}
	}
	return false
}
