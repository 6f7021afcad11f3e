package services

import (
	"errors"

	"github.com/dmitrijs2005/smartcalc/internal/client/client"
)

// errorMessage picks the text shown to the user for a failed call: the
// server's detail when present, the transport failure when the server could
// not be reached, otherwise fallback.
func errorMessage(err error, fallback string) string {
	if d := client.DetailOf(err); d != "" {
		return d
	}
	if errors.Is(err, client.ErrUnavailable) {
		return client.ErrUnavailable.Error()
	}
	return fallback
}
