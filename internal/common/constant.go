// Package common contains shared constants, sentinel errors and small helpers
// used across smartcalc components.
package common

const (
	// AuthorizationHeader carries the bearer token on outbound API requests.
	AuthorizationHeader = "Authorization"

	// BearerScheme prefixes the access token in AuthorizationHeader.
	BearerScheme = "Bearer"

	// RequestIDHeader tags every outbound request with a random id so client
	// and server logs can be correlated.
	RequestIDHeader = "X-Request-ID"
)

// Keys under which the session is persisted in the local metadata table.
const (
	MetadataKeyAccessToken = "access_token"
	MetadataKeyUser        = "user"
)
