// =============================================================================
// output.go - Result Output
// =============================================================================
//
// Prints typed results the way the shell shows them:
//
//   (boolean) true    (integer) 5    (string) "v"    (null)
//   (empty list)      1) {"evictor": "lru", "name": "users"}
//   (error) <message>
//
// =============================================================================

package main

import (
	"fmt"
	"io"

	"github.com/segment-dev/segment-cli/segmentprotocol"
)

func printBool(w io.Writer, v bool) {
	fmt.Fprintf(w, "(boolean) %t\n", v)
}

func printInt(w io.Writer, v int64) {
	fmt.Fprintf(w, "(integer) %d\n", v)
}

func printString(w io.Writer, v string) {
	fmt.Fprintf(w, "(string) \"%s\"\n", v)
}

func printNull(w io.Writer) {
	fmt.Fprintln(w, "(null)")
}

func printOptionalString(w io.Writer, v *string) {
	if v == nil {
		printNull(w)
		return
	}
	printString(w, *v)
}

func printOptionalInt(w io.Writer, v *int64) {
	if v == nil {
		printNull(w)
		return
	}
	printInt(w, *v)
}

// printMaps prints one numbered line per entry, or "(empty list)".
func printMaps(w io.Writer, entries []map[string]string) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "(empty list)")
		return
	}
	for i, m := range entries {
		fmt.Fprintf(w, "%d) %s\n", i+1, segmentprotocol.FormatMap(m))
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "(error) %v\n", err)
}
