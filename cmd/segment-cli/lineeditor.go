// =============================================================================
// lineeditor.go - Line Editor
// =============================================================================
//
// Input for the REPL. On a terminal it uses ergochat/readline for line
// editing and history; when stdin is a pipe or Emacs comint it reads
// plain lines instead so the prompt and output stay script friendly.
//
// =============================================================================

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ergochat/readline"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// historySize is the number of entries kept in the history file.
const historySize = 500

// LineEditor reads REPL input. On a terminal it uses readline with
// persistent history; otherwise (pipes, Emacs comint) it reads plain lines
// from stdin and echoes the prompt to stdout.
type LineEditor struct {
	interactive bool
	rl          *readline.Instance
	scanner     *bufio.Scanner
}

// NewLineEditor creates an editor for os.Stdin. historyFile may be empty,
// in which case no history is persisted.
func NewLineEditor(historyFile string) *LineEditor {
	isInteractive := term.IsTerminal(int(os.Stdin.Fd())) &&
		os.Getenv("INSIDE_EMACS") == ""

	if !isInteractive {
		return newScannerEditor()
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyFile,
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		log.Warn().Err(err).Msg("readline init failed, using basic input")
		return newScannerEditor()
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
	}
}

func newScannerEditor() *LineEditor {
	return &LineEditor{scanner: bufio.NewScanner(os.Stdin)}
}

// GetLine shows prompt and returns the next line without its newline.
// End of input and Ctrl-C both return io.EOF.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getNonInteractiveLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *LineEditor) getNonInteractiveLine(prompt string) (string, error) {
	fmt.Print(prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Close releases the terminal. It is safe to call more than once.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive reports whether readline is in use.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}
