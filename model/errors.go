package model

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is the normalized upstream failure returned by provider adapters.
// StatusCode is the HTTP status reported by the provider SDK, or 0 when the
// failure happened before a response was received (network, encoding, ...).
type Error struct {
	Provider   string
	Model      string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s api error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s api error: %v", e.Provider, e.Err)
}

// Unwrap exposes the underlying SDK error.
func (e *Error) Unwrap() error { return e.Err }

// rateLimitMarkers are matched against the error text only when no structured
// status code is available. TPD is the tokens-per-day quota marker used by Groq.
var rateLimitMarkers = []string{"rate limit", "tpd", "429"}

// IsRateLimited reports whether err signals a capacity / quota rejection.
// A structured *Error status code wins; message matching is the last resort
// for errors that carry no status.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}
