package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrServer       = errors.New("server error")
)

// APIError is returned for every non-2xx answer. Detail is the server's
// human-readable explanation; errors.Is matches the sentinel for the status.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Detail)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		return ErrValidation
	case e.StatusCode == http.StatusBadGateway,
		e.StatusCode == http.StatusServiceUnavailable,
		e.StatusCode == http.StatusGatewayTimeout:
		return ErrUnavailable
	case e.StatusCode >= 500:
		return ErrServer
	}
	return nil
}

// DetailOf extracts the server-provided detail from err, or "" when err does
// not wrap an *APIError.
func DetailOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// parseDetail understands the two error bodies the API produces: a plain
// {"detail": "..."} and request validation failures where detail is a list
// of {"loc": [...], "msg": "..."} objects. Anything else falls back to the
// trimmed raw body.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if field := lastLoc(it.Loc); field != "" {
				msgs = append(msgs, field+": "+it.Msg)
				continue
			}
			msgs = append(msgs, it.Msg)
		}
		return strings.Join(msgs, "; ")
	}

	return strings.TrimSpace(string(envelope.Detail))
}

func lastLoc(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok && s != "body" && s != "query" {
		return s
	}
	return ""
}
