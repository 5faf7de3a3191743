// =============================================================================
// frame.go - Wire Framing
// =============================================================================
//
// Requests go out as RESP arrays of bulk strings. Replies use a RESP3
// subset:
//
//   _        null
//   #t / #f  boolean
//   :        integer
//   $ / +    string
//   -        server error
//   *        list of strings, list of maps, or empty list
//   %        map (only inside a list)
//
// The writers are used by the test server; the client only reads replies.
//
// =============================================================================

package segmentprotocol

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/resp"
)

// Frame type prefixes.
const (
	prefixNull   = '_'
	prefixBool   = '#'
	prefixInt    = ':'
	prefixBulk   = '$'
	prefixSimple = '+'
	prefixError  = '-'
	prefixArray  = '*'
	prefixMap    = '%'
)

var crlf = []byte{'\r', '\n'}

// WriteCommand encodes cmd as an array of bulk strings.
func WriteCommand(w io.Writer, cmd *Command) error {
	vals := make([]resp.Value, len(cmd.args))
	for i, a := range cmd.args {
		vals[i] = resp.StringValue(a)
	}
	b, err := resp.ArrayValue(vals).MarshalRESP()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// CommandReader decodes commands written by WriteCommand. It is the server
// side of the request framing.
type CommandReader struct {
	rd *resp.Reader
}

// NewCommandReader creates a CommandReader over r.
func NewCommandReader(r io.Reader) *CommandReader {
	return &CommandReader{rd: resp.NewReader(r)}
}

// ReadCommand reads the next command. It returns io.EOF when the peer
// closes cleanly between commands.
func (cr *CommandReader) ReadCommand() (*Command, error) {
	v, _, err := cr.rd.ReadValue()
	if err != nil {
		return nil, err
	}
	if v.Type() != resp.Array {
		return nil, NewProtocolError(fmt.Sprintf("expected array request, got type %q", rune(v.Type())), nil)
	}
	cmd := NewCommand()
	for _, item := range v.Array() {
		cmd.Arg(item.String())
	}
	return cmd, nil
}

// FrameReader decodes server replies into RawResponse values.
type FrameReader struct {
	r *bufio.Reader
}

// NewFrameReader creates a FrameReader over r.
func NewFrameReader(r io.Reader) *FrameReader {
	if br, ok := r.(*bufio.Reader); ok {
		return &FrameReader{r: br}
	}
	return &FrameReader{r: bufio.NewReader(r)}
}

// ReadResponse reads one reply.
//
// Malformed frames return a ProtocolFailure and error frames a ServerError,
// both as *CommandError. I/O errors are returned unwrapped so the caller
// can classify them as connection failures.
func (fr *FrameReader) ReadResponse() (RawResponse, error) {
	prefix, body, err := fr.readHeader()
	if err != nil {
		return RawResponse{}, err
	}

	switch prefix {
	case prefixNull:
		if body != "" {
			return RawResponse{}, malformed("null frame with payload %q", body)
		}
		return NewNullResponse(), nil
	case prefixBool:
		switch body {
		case "t":
			return NewBoolResponse(true), nil
		case "f":
			return NewBoolResponse(false), nil
		default:
			return RawResponse{}, malformed("invalid boolean %q", body)
		}
	case prefixInt:
		n, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return RawResponse{}, malformed("invalid integer %q", body)
		}
		return NewIntResponse(n), nil
	case prefixBulk:
		// $-1 is the legacy null bulk string.
		if body == "-1" {
			return NewNullResponse(), nil
		}
		s, err := fr.readBulk(body)
		if err != nil {
			return RawResponse{}, err
		}
		return NewStringResponse(s), nil
	case prefixSimple:
		return NewStringResponse(body), nil
	case prefixError:
		return RawResponse{}, NewServerError(body)
	case prefixArray:
		if body == "-1" {
			return NewNullResponse(), nil
		}
		return fr.readArray(body)
	default:
		return RawResponse{}, malformed("unknown frame type %q", string(prefix))
	}
}

func (fr *FrameReader) readArray(countText string) (RawResponse, error) {
	n, err := parseLength(countText, MaxAggregateLength)
	if err != nil {
		return RawResponse{}, err
	}
	if n == 0 {
		return NewEmptyListResponse(), nil
	}

	var list []string
	var maps []map[string]string
	for i := 0; i < n; i++ {
		prefix, body, err := fr.readHeader()
		if err != nil {
			return RawResponse{}, err
		}
		switch prefix {
		case prefixBulk, prefixSimple:
			if maps != nil {
				return RawResponse{}, malformed("mixed element types in list")
			}
			s, err := fr.readStringBody(prefix, body)
			if err != nil {
				return RawResponse{}, err
			}
			list = append(list, s)
		case prefixMap:
			if list != nil {
				return RawResponse{}, malformed("mixed element types in list")
			}
			m, err := fr.readMap(body)
			if err != nil {
				return RawResponse{}, err
			}
			maps = append(maps, m)
		default:
			return RawResponse{}, malformed("unsupported list element type %q", string(prefix))
		}
	}

	if maps != nil {
		return NewMapListResponse(maps), nil
	}
	return NewStringListResponse(list), nil
}

func (fr *FrameReader) readMap(countText string) (map[string]string, error) {
	n, err := parseLength(countText, MaxAggregateLength)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, n)
	for i := 0; i < n; i++ {
		k, err := fr.readString()
		if err != nil {
			return nil, err
		}
		v, err := fr.readString()
		if err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, nil
}

func (fr *FrameReader) readString() (string, error) {
	prefix, body, err := fr.readHeader()
	if err != nil {
		return "", err
	}
	return fr.readStringBody(prefix, body)
}

func (fr *FrameReader) readStringBody(prefix byte, body string) (string, error) {
	switch prefix {
	case prefixBulk:
		return fr.readBulk(body)
	case prefixSimple:
		return body, nil
	default:
		return "", malformed("expected string, got frame type %q", string(prefix))
	}
}

func (fr *FrameReader) readBulk(lengthText string) (string, error) {
	n, err := parseLength(lengthText, MaxBulkLength)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n+2)
	if _, err := io.ReadFull(fr.r, buf); err != nil {
		return "", err
	}
	if !bytes.HasSuffix(buf, crlf) {
		return "", malformed("bulk string not terminated by CRLF")
	}
	return string(buf[:n]), nil
}

// readHeader reads one CRLF-terminated line and splits off its type prefix.
func (fr *FrameReader) readHeader() (byte, string, error) {
	line, err := fr.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return 0, "", io.ErrUnexpectedEOF
		}
		return 0, "", err
	}
	if !strings.HasSuffix(line, "\r\n") {
		return 0, "", malformed("line not terminated by CRLF")
	}
	line = line[:len(line)-2]
	if line == "" {
		return 0, "", malformed("empty frame")
	}
	return line[0], line[1:], nil
}

func parseLength(text string, limit int) (int, error) {
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0, malformed("invalid length %q", text)
	}
	if n > limit {
		return 0, malformed("length %d exceeds limit %d", n, limit)
	}
	return n, nil
}

func malformed(format string, args ...any) error {
	return NewProtocolError(fmt.Sprintf(format, args...), nil)
}

// WriteResponse encodes r as a reply frame. Map keys are written in sorted
// order.
func WriteResponse(w io.Writer, r RawResponse) error {
	var buf bytes.Buffer
	switch r.kind {
	case WireNull:
		buf.WriteString("_\r\n")
	case WireBool:
		if r.b {
			buf.WriteString("#t\r\n")
		} else {
			buf.WriteString("#f\r\n")
		}
	case WireInt:
		fmt.Fprintf(&buf, ":%d\r\n", r.i)
	case WireString:
		writeBulk(&buf, r.s)
	case WireEmptyList:
		buf.WriteString("*0\r\n")
	case WireStringList:
		fmt.Fprintf(&buf, "*%d\r\n", len(r.list))
		for _, s := range r.list {
			writeBulk(&buf, s)
		}
	case WireMapList:
		fmt.Fprintf(&buf, "*%d\r\n", len(r.maps))
		for _, m := range r.maps {
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(&buf, "%%%d\r\n", len(m))
			for _, k := range keys {
				writeBulk(&buf, k)
				writeBulk(&buf, m[k])
			}
		}
	default:
		return fmt.Errorf("cannot encode response kind %s", r.kind)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteServerError encodes an error reply. Line breaks in message are
// replaced by spaces.
func WriteServerError(w io.Writer, message string) error {
	message = strings.NewReplacer("\r", " ", "\n", " ").Replace(message)
	_, err := fmt.Fprintf(w, "-%s\r\n", message)
	return err
}

func writeBulk(buf *bytes.Buffer, s string) {
	fmt.Fprintf(buf, "$%d\r\n", len(s))
	buf.WriteString(s)
	buf.Write(crlf)
}
