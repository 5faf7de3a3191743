// =============================================================================
// response.go - Raw Responses
// =============================================================================
//
// RawResponse is the untyped value read off the wire before a decoder
// turns it into a Go type. It always holds exactly one kind of value.
//
// =============================================================================

package segmentprotocol

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// WireKind is the shape of a value as the server sent it.
type WireKind int

const (
	// WireNull is an absent value.
	WireNull WireKind = iota
	// WireBool is a boolean.
	WireBool
	// WireInt is a signed 64-bit integer.
	WireInt
	// WireString is a string.
	WireString
	// WireStringList is an ordered list of strings.
	WireStringList
	// WireMapList is an ordered list of string-to-string maps.
	WireMapList
	// WireEmptyList is a list with no elements, whose element type the
	// wire does not carry.
	WireEmptyList
)

// String returns the kind name used in error messages.
func (k WireKind) String() string {
	switch k {
	case WireNull:
		return "null"
	case WireBool:
		return "boolean"
	case WireInt:
		return "integer"
	case WireString:
		return "string"
	case WireStringList:
		return "list of strings"
	case WireMapList:
		return "list of maps"
	case WireEmptyList:
		return "empty list"
	default:
		return fmt.Sprintf("WireKind(%d)", int(k))
	}
}

// RawResponse is the untyped reply to one command. It holds exactly one
// value of the kind reported by Kind. The zero value is a null response.
type RawResponse struct {
	kind WireKind
	b    bool
	i    int64
	s    string
	list []string
	maps []map[string]string
}

// NewNullResponse creates a null response.
func NewNullResponse() RawResponse {
	return RawResponse{kind: WireNull}
}

// NewBoolResponse creates a boolean response.
func NewBoolResponse(b bool) RawResponse {
	return RawResponse{kind: WireBool, b: b}
}

// NewIntResponse creates an integer response.
func NewIntResponse(i int64) RawResponse {
	return RawResponse{kind: WireInt, i: i}
}

// NewStringResponse creates a string response.
func NewStringResponse(s string) RawResponse {
	return RawResponse{kind: WireString, s: s}
}

// NewStringListResponse creates a list-of-strings response.
func NewStringListResponse(list []string) RawResponse {
	return RawResponse{kind: WireStringList, list: list}
}

// NewMapListResponse creates a list-of-maps response.
func NewMapListResponse(maps []map[string]string) RawResponse {
	return RawResponse{kind: WireMapList, maps: maps}
}

// NewEmptyListResponse creates a list response with no elements.
func NewEmptyListResponse() RawResponse {
	return RawResponse{kind: WireEmptyList}
}

// Kind returns the wire kind of the response.
func (r RawResponse) Kind() WireKind {
	return r.kind
}

// IsNull returns true if this is a null response.
func (r RawResponse) IsNull() bool {
	return r.kind == WireNull
}

// Len returns the element count of a list response and 0 otherwise.
func (r RawResponse) Len() int {
	switch r.kind {
	case WireStringList:
		return len(r.list)
	case WireMapList:
		return len(r.maps)
	default:
		return 0
	}
}

// String renders the response for debugging and logs.
func (r RawResponse) String() string {
	switch r.kind {
	case WireNull:
		return "null"
	case WireBool:
		return strconv.FormatBool(r.b)
	case WireInt:
		return strconv.FormatInt(r.i, 10)
	case WireString:
		return strconv.Quote(r.s)
	case WireStringList:
		quoted := make([]string, len(r.list))
		for i, s := range r.list {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	case WireEmptyList:
		return "[]"
	case WireMapList:
		parts := make([]string, len(r.maps))
		for i, m := range r.maps {
			parts[i] = FormatMap(m)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return r.kind.String()
	}
}

// FormatMap renders a map as {"k1": "v1", "k2": "v2"} with sorted keys.
func FormatMap(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%q: %q", k, m[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
