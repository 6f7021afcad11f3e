// Package cli provides the interactive smartcalc command-line client.
//
// It wires configuration, the local session database, the REST API client
// and the per-feature services into a REPL. Typical flow: restore a
// persisted session, start a background connectivity watcher, then execute
// user commands until exit.
//
// Key features:
//   - Register / Login / Logout / WhoAmI
//   - Calculate expressions, or natural-language queries in AI mode
//   - Paginated history, an interactive browser, delete and clear
//   - "did you mean" suggestions for mistyped commands
//
// When the server rejects the stored token the session is dropped and the
// user is told to log in again.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
