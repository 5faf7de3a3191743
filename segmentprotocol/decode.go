// =============================================================================
// decode.go - Response Decoders
// =============================================================================
//
// One decoder per target shape. A decoder accepts only the wire kinds its
// shape allows and never converts between kinds: a string "1" is not an
// integer. Any other kind is a TypeMismatch naming both sides.
//
// =============================================================================

package segmentprotocol

import "fmt"

// Shape is the form a caller wants a response decoded into.
type Shape int

const (
	// ShapeBool decodes to bool.
	ShapeBool Shape = iota
	// ShapeInt decodes to int64.
	ShapeInt
	// ShapeString decodes to string.
	ShapeString
	// ShapeOptionalString decodes to *string, nil for null.
	ShapeOptionalString
	// ShapeOptionalInt decodes to *int64, nil for null.
	ShapeOptionalInt
	// ShapeStrings decodes to []string.
	ShapeStrings
	// ShapeMaps decodes to []map[string]string.
	ShapeMaps
)

// String returns the shape name used in error messages.
func (s Shape) String() string {
	switch s {
	case ShapeBool:
		return "boolean"
	case ShapeInt:
		return "integer"
	case ShapeString:
		return "string"
	case ShapeOptionalString:
		return "optional string"
	case ShapeOptionalInt:
		return "optional integer"
	case ShapeStrings:
		return "sequence of strings"
	case ShapeMaps:
		return "sequence of maps"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Decoder converts a RawResponse into T or fails with a TypeMismatch
// CommandError.
type Decoder[T any] func(RawResponse) (T, error)

// DecodeBool accepts only a boolean response.
func DecodeBool(r RawResponse) (bool, error) {
	if r.kind != WireBool {
		return false, newTypeMismatchError(ShapeBool, r.kind)
	}
	return r.b, nil
}

// DecodeInt accepts only an integer response.
func DecodeInt(r RawResponse) (int64, error) {
	if r.kind != WireInt {
		return 0, newTypeMismatchError(ShapeInt, r.kind)
	}
	return r.i, nil
}

// DecodeString accepts only a string response.
func DecodeString(r RawResponse) (string, error) {
	if r.kind != WireString {
		return "", newTypeMismatchError(ShapeString, r.kind)
	}
	return r.s, nil
}

// DecodeOptionalString accepts a string or null response. Null decodes
// to nil.
func DecodeOptionalString(r RawResponse) (*string, error) {
	if r.IsNull() {
		return nil, nil
	}
	if r.kind != WireString {
		return nil, newTypeMismatchError(ShapeOptionalString, r.kind)
	}
	s := r.s
	return &s, nil
}

// DecodeOptionalInt accepts an integer or null response. Null decodes
// to nil.
func DecodeOptionalInt(r RawResponse) (*int64, error) {
	if r.IsNull() {
		return nil, nil
	}
	if r.kind != WireInt {
		return nil, newTypeMismatchError(ShapeOptionalInt, r.kind)
	}
	i := r.i
	return &i, nil
}

// DecodeStrings accepts a list of strings or an empty list.
func DecodeStrings(r RawResponse) ([]string, error) {
	switch r.kind {
	case WireStringList:
		out := make([]string, len(r.list))
		copy(out, r.list)
		return out, nil
	case WireEmptyList:
		return []string{}, nil
	default:
		return nil, newTypeMismatchError(ShapeStrings, r.kind)
	}
}

// DecodeMaps accepts a list of maps or an empty list.
func DecodeMaps(r RawResponse) ([]map[string]string, error) {
	switch r.kind {
	case WireMapList:
		out := make([]map[string]string, len(r.maps))
		for i, m := range r.maps {
			cp := make(map[string]string, len(m))
			for k, v := range m {
				cp[k] = v
			}
			out[i] = cp
		}
		return out, nil
	case WireEmptyList:
		return []map[string]string{}, nil
	default:
		return nil, newTypeMismatchError(ShapeMaps, r.kind)
	}
}
