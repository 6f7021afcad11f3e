package client

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/smartcalc/internal/common"
	"github.com/dmitrijs2005/smartcalc/internal/logging"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// requestIDTransport tags requests lacking an X-Request-ID with a fresh uuid.
func requestIDTransport(next http.RoundTripper) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get(common.RequestIDHeader) != "" {
			return next.RoundTrip(r)
		}
		r = r.Clone(r.Context())
		r.Header.Set(common.RequestIDHeader, uuid.NewString())
		return next.RoundTrip(r)
	})
}

func loggingTransport(log logging.Logger, next http.RoundTripper) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()
		resp, err := next.RoundTrip(r)
		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get(common.RequestIDHeader),
			"duration", time.Since(start),
		}
		if err != nil {
			log.Debug(r.Context(), "api request failed", append(args, "error", err)...)
			return nil, err
		}
		log.Debug(r.Context(), "api request", append(args, "status", resp.StatusCode)...)
		return resp, nil
	})
}

// authTransport attaches the bearer token when one is stored.
func authTransport(tokens TokenSource, next http.RoundTripper) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if tokens == nil {
			return next.RoundTrip(r)
		}
		token := tokens.Token()
		if token == "" {
			return next.RoundTrip(r)
		}
		r = r.Clone(r.Context())
		r.Header.Set(common.AuthorizationHeader, common.BearerScheme+" "+token)
		return next.RoundTrip(r)
	})
}

// unauthorizedTransport fires onUnauthorized for a 401 answer to a request
// that carried a token. Anonymous 401s (a wrong password on login) are left
// to the caller.
func unauthorizedTransport(onUnauthorized UnauthorizedHandler, next http.RoundTripper) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		resp, err := next.RoundTrip(r)
		if err != nil || onUnauthorized == nil {
			return resp, err
		}
		if resp.StatusCode == http.StatusUnauthorized && r.Header.Get(common.AuthorizationHeader) != "" {
			onUnauthorized(r.Context())
		}
		return resp, nil
	})
}

// chain builds requestID -> logging -> auth -> unauthorized -> base.
func chain(base http.RoundTripper, tokens TokenSource, onUnauthorized UnauthorizedHandler, log logging.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := unauthorizedTransport(onUnauthorized, base)
	rt = authTransport(tokens, rt)
	rt = loggingTransport(log, rt)
	return requestIDTransport(rt)
}
