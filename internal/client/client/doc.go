// Package client talks to the calculator REST API.
//
// # Overview
//
//  1. Client is the transport-agnostic API contract: authentication,
//     calculation (plain and natural-language), paginated history and the
//     health probe used by the connectivity watcher.
//  2. HTTPClient implements it over net/http. Cross-cutting behaviour lives
//     in a RoundTripper chain: a request id on every call, debug logging of
//     each round trip, bearer-token attachment from a TokenSource, and an
//     UnauthorizedHandler fired when the server rejects the stored token.
//
// # Error Handling
//
// Every non-2xx answer becomes an *APIError carrying the server's detail
// text. It unwraps to ErrUnauthorized, ErrNotFound, ErrValidation,
// ErrUnavailable or ErrServer, so callers branch with errors.Is and show
// DetailOf(err) to the user. Transport failures and timeouts wrap
// ErrUnavailable. There are no retries.
package client
