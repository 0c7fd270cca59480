// Package api provides HTTP client functionality for communicating with the
// cipher backend. It handles request/response serialization and maps
// backend failures onto the error types in internal/apierrors.
//
// # Client Creation
//
// [New] takes the base URL plus [WithTimeout] and [WithLogger] options.
// A caller-owned *http.Client can be swapped in with [Client.SetHTTPClient].
// Every request carries an X-Request-ID header with
// a fresh UUID so backend logs can be correlated with ours.
//
// # Retry Behavior
//
// There is none. [Client.Submit] performs exactly one request; deciding
// whether to resubmit is up to the caller.
//
// # Error Handling
//
//   - Non-2xx responses become *apierrors.APIError. The "error" field of a
//     JSON body is used as the reason; otherwise the reason is derived from
//     the status code.
//   - Failures to obtain any response become *apierrors.NetworkError.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use.
package api
