// Package apierrors provides shared error types for the cipherform client.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// GenericReason is shown when no more specific reason is available, such
// as when the backend could not be reached at all.
const GenericReason = "An error occurred"

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingBaseURL is returned when no backend base URL is configured.
	ErrMissingBaseURL = errors.New("backend base URL is required")

	// ErrBackend matches every non-2xx response from the backend.
	ErrBackend = errors.New("backend rejected the request")

	// ErrTransport matches every failure to obtain a response.
	ErrTransport = errors.New("backend unreachable")

	// ErrBadRequest is returned when the backend rejects the payload (400, 422).
	ErrBadRequest = errors.New("bad request")

	// ErrRateLimited is returned when the backend rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrServer is returned for 5xx responses.
	ErrServer = errors.New("backend server error")
)

// APIError represents a non-2xx HTTP response from the cipher backend.
type APIError struct {
	StatusCode int
	Message    string // the "error" field of the body, if any
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		if e.Message != "" {
			return fmt.Sprintf("API error %d: %s (request_id: %s)", e.StatusCode, e.Message, e.RequestID)
		}
		return fmt.Sprintf("API error %d (request_id: %s)", e.StatusCode, e.RequestID)
	}
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// Reason returns the backend's own message, or one derived from the status
// code when the body carried none.
func (e *APIError) Reason() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Error: %d", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	if target == ErrBackend {
		return true
	}
	switch {
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		return target == ErrBadRequest
	case e.StatusCode == http.StatusTooManyRequests:
		return target == ErrRateLimited
	case e.StatusCode >= 500:
		return target == ErrServer
	}
	return false
}

// NetworkError represents a network-level failure.
type NetworkError struct {
	Err error
	URL string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Reason returns GenericReason; transport details are not shown to users.
func (e *NetworkError) Reason() string {
	return GenericReason
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *NetworkError) Is(target error) bool {
	return target == ErrTransport
}
