package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx reply, or a 2xx reply carrying an error object
// instead of choices.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openrouter API error (%d): %s", e.StatusCode, e.Message)
}

func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// TransportError covers failures before a usable reply was read: the request
// could not be sent, the body could not be read or the envelope not decoded.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "openrouter transport error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.RateLimited()
}
