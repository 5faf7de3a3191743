// =============================================================================
// doc.go - Package Documentation
// =============================================================================
//
// Overview of the Segment client protocol package: how commands are built,
// sent over a Connection and decoded into typed results.
//
// =============================================================================

// Package segmentprotocol provides the typed command layer for talking to a
// Segment keyspace server.
//
// A command line is split into tokens, the tokens are collected into a
// Command, the Command is sent over a Connection in a single round trip,
// and the untyped RawResponse that comes back is decoded into the shape
// the caller asked for.
//
//	line -> Tokenize -> Command -> Connection.Execute -> RawResponse -> Decode*
//
// # Basic Usage
//
//	client := segmentprotocol.NewClient(segmentprotocol.DefaultConnectionOptions())
//	conn, err := client.GetConnection(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	tokens, err := segmentprotocol.Tokenize(`create users evictor "least recently used"`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	created, err := segmentprotocol.Query(ctx, conn, segmentprotocol.NewCommand(tokens...), segmentprotocol.DecodeBool)
//
// # Response Shapes
//
// The server decides what kind of value it sends back, the caller decides
// what kind of value it expects. Each expected shape has its own decoder:
//
//   - DecodeBool, DecodeInt, DecodeString
//   - DecodeOptionalString, DecodeOptionalInt (null decodes to nil)
//   - DecodeStrings, DecodeMaps
//
// A decoder never coerces. Asking for an integer when the server sent a
// list fails with a *CommandError of kind TypeMismatch that names both
// shapes.
//
// # Errors
//
// Every failure past tokenization is a *CommandError with one of four
// kinds: ConnectionFailure, ProtocolFailure, TypeMismatch or ServerError.
// Use errors.Is with the Err* sentinels to classify them.
//
// # Thread Safety
//
// A Connection serves one caller at a time and carries no locking of its
// own. Callers that need concurrent commands should obtain one Connection
// per goroutine from the Client.
package segmentprotocol
