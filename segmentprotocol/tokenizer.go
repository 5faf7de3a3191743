// =============================================================================
// tokenizer.go - Command Line Tokenizer
// =============================================================================
//
// Splits a line typed at the shell (or read from a dump file) into
// tokens. Spaces separate tokens; double quotes group words and are never
// part of a token. An unterminated quote rejects the whole line.
//
// =============================================================================

package segmentprotocol

import "strings"

// Tokenize splits a command line into tokens.
//
// Tokens are separated by spaces. A double quote toggles quoting: spaces
// inside quotes belong to the token, and closing a quote ends the token
// even without a following space. Quote characters are never part of a
// token. Repeated spaces never produce empty tokens.
//
// A line that ends inside quotes returns ErrMalformedInput and no tokens.
func Tokenize(line string) ([]string, error) {
	tokens := []string{}
	var token strings.Builder
	inQuotes := false

	emit := func() {
		if token.Len() > 0 {
			tokens = append(tokens, token.String())
			token.Reset()
		}
	}

	for _, r := range line {
		switch r {
		case ' ':
			if inQuotes {
				token.WriteRune(r)
			} else {
				emit()
			}
		case '"':
			if inQuotes {
				emit()
			}
			inQuotes = !inQuotes
		default:
			token.WriteRune(r)
		}
	}

	if inQuotes {
		return nil, ErrMalformedInput
	}
	emit()

	return tokens, nil
}
