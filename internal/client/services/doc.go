// Package services contains the per-feature state containers of the
// smartcalc client: authentication, the calculator and the history view.
//
// Each container owns a small state struct guarded by a mutex and exposes
// actions that call the API. Every action follows the same transitions:
//
//   - before the call: IsLoading=true, Error cleared;
//   - on success: result stored, IsLoading=false;
//   - on failure: Error set to the server detail (or a default message),
//     IsLoading=false.
//
// State() returns a copy; callers never share memory with the container.
// The lock is never held across a network call.
package services
