package cipherform

import (
	"errors"
	"fmt"

	"github.com/cnslab/cipherform-go/algorithm"
	"github.com/cnslab/cipherform-go/internal/apierrors"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingBaseURL is returned when the backend base URL is empty.
	ErrMissingBaseURL = apierrors.ErrMissingBaseURL

	// ErrValidation matches every local validation failure.
	ErrValidation = algorithm.ErrValidation

	// ErrBackend matches every non-2xx backend response.
	ErrBackend = apierrors.ErrBackend

	// ErrTransport matches every failure to reach the backend.
	ErrTransport = apierrors.ErrTransport

	// ErrBadRequest is returned when the backend rejects the payload.
	ErrBadRequest = apierrors.ErrBadRequest

	// ErrRateLimited is returned when the backend rate limit is exceeded.
	ErrRateLimited = apierrors.ErrRateLimited

	// ErrServer is returned for backend 5xx responses.
	ErrServer = apierrors.ErrServer

	// ErrSuperseded is returned by Session.Submit when a newer submission
	// was started before this one finished. Its outcome is discarded.
	ErrSuperseded = errors.New("submission superseded by a newer one")
)

// Failure is implemented by every error a submission can produce. Reason is
// the single human-readable cause to show the user.
type Failure interface {
	error
	Reason() string
}

// ValidationError is a local rejection; the request never reached the backend.
type ValidationError = algorithm.ValidationError

// BackendError represents a non-2xx response from the cipher backend.
type BackendError struct {
	StatusCode int
	Message    string // the backend's "error" field, if any
	RequestID  string
}

func (e *BackendError) Error() string {
	return e.apiError().Error()
}

// Reason returns the backend's message, or "Error: <status>" without one.
func (e *BackendError) Reason() string {
	return e.apiError().Reason()
}

// Is implements errors.Is for sentinel error matching.
func (e *BackendError) Is(target error) bool {
	return e.apiError().Is(target)
}

func (e *BackendError) apiError() *apierrors.APIError {
	return &apierrors.APIError{
		StatusCode: e.StatusCode,
		Message:    e.Message,
		RequestID:  e.RequestID,
	}
}

// TransportError represents a failure to obtain any response.
type TransportError struct {
	Err error
	URL string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Reason returns a generic message; the cause is available via Unwrap.
func (e *TransportError) Reason() string {
	return apierrors.GenericReason
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// ReasonOf returns the display reason for err. Errors that are not a
// Failure yield the generic reason.
func ReasonOf(err error) string {
	if err == nil {
		return ""
	}
	var f Failure
	if errors.As(err, &f) {
		return f.Reason()
	}
	return apierrors.GenericReason
}

// wrapError converts internal API errors to public errors.
// This ensures that errors.As() works with the public types.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return &BackendError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			RequestID:  apiErr.RequestID,
		}
	}

	var netErr *apierrors.NetworkError
	if errors.As(err, &netErr) {
		return &TransportError{
			Err: netErr.Err,
			URL: netErr.URL,
		}
	}

	return err
}
