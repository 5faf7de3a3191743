package segmentprotocol

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"Single word", "ping", []string{"ping"}},
		{"Words", "get users alice", []string{"get", "users", "alice"}},
		{"Quoted with spaces", `create foo evictor "least recently used"`,
			[]string{"create", "foo", "evictor", "least recently used"}},
		{"Double space", "a  b", []string{"a", "b"}},
		{"Leading and trailing spaces", "  count users  ", []string{"count", "users"}},
		{"Empty", "", []string{}},
		{"Only spaces", "     ", []string{}},
		{"Adjacent quoted", `"a""b"`, []string{"a", "b"}},
		{"Unquoted then quoted", `ab"cd"`, []string{"abcd"}},
		{"Quoted then unquoted", `"ab"cd`, []string{"ab", "cd"}},
		{"Empty quotes", `set ks k ""`, []string{"set", "ks", "k"}},
		{"Quoted spaces only", `"   "`, []string{"   "}},
		{"Tab is not a separator", "a\tb", []string{"a\tb"}},
		{"Unicode", `set ks clé "valeur été"`, []string{"set", "ks", "clé", "valeur été"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTokenizeUnterminatedQuote(t *testing.T) {
	tests := []string{
		`"unterminated`,
		`set ks key "value`,
		`"a" "b`,
		`"`,
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			got, err := Tokenize(input)
			if !errors.Is(err, ErrMalformedInput) {
				t.Fatalf("expected ErrMalformedInput, got %v", err)
			}
			if len(got) != 0 {
				t.Errorf("expected no tokens, got %q", got)
			}
		})
	}
}

// TestTokenizeCountsRuns checks that balanced input yields one token per
// maximal run of non-space characters.
func TestTokenizeCountsRuns(t *testing.T) {
	inputs := []string{
		"a b c",
		"   a    b   ",
		"create ks evictor lru",
		"x",
		"",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got, err := Tokenize(input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if want := len(strings.Fields(input)); len(got) != want {
				t.Errorf("got %d tokens, want %d", len(got), want)
			}
		})
	}
}
