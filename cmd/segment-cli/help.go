// =============================================================================
// help.go - Help System
// =============================================================================
//
// The help command: an overview of every command, or usage for one.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"strings"
)

type helpEntry struct {
	name    string
	usage   string
	summary string
}

// helpEntries lists the commands in the order the overview shows them.
var helpEntries = []helpEntry{
	{"create", "create <keyspace> [evictor nop|random|lru]", "Create a keyspace"},
	{"drop", "drop <keyspace>", "Remove a keyspace and its keys"},
	{"keyspaces", "keyspaces", "List keyspaces with their evictor"},
	{"set", "set <keyspace> <key> <value> [expire_after <seconds>]", "Store a value"},
	{"get", "get <keyspace> <key>", "Fetch a value, or (null)"},
	{"del", "del <keyspace> <key>", "Delete a key"},
	{"count", "count <keyspace>", "Number of keys in a keyspace"},
	{"ttl", "ttl <keyspace> <key>", "Seconds until a key expires, or (null)"},
	{"ping", "ping", "Check the server is answering"},
	{"help", "help [command]", "Show help"},
	{"quit", "quit", "Exit (also: exit, Ctrl-D)"},
}

func printHelp(w io.Writer, args []string) {
	if len(args) == 0 {
		printHelpOverview(w)
		return
	}

	key := strings.ToLower(args[0])
	if key == "exit" {
		key = "quit"
	}
	for _, e := range helpEntries {
		if e.name == key {
			fmt.Fprintf(w, "%s\n  %s\n", e.usage, e.summary)
			return
		}
	}
	fmt.Fprintf(w, "(error) \"no help for '%s'\"\n", args[0])
}

func printHelpOverview(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	for _, e := range helpEntries {
		fmt.Fprintf(w, "  %-56s %s\n", e.usage, e.summary)
	}
	fmt.Fprintln(w, `Arguments containing spaces can be quoted: set users "ada lovelace" 1`)
}
