package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cnslab/cipherform-go/internal/apierrors"
)

const (
	// DefaultTimeout is the HTTP timeout used when none is configured.
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries the per-request correlation ID.
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 1 << 20
)

// invalidBodyReason is the reason used when a 2xx body is not JSON.
const invalidBodyReason = "Invalid response from server"

// Client is the HTTP API client.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	logger       *zap.Logger
	newRequestID func() string
}

// Option configures the API client.
type Option func(*Client)

// WithTimeout replaces the default HTTP client with one using timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for baseURL. A trailing slash is dropped.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, apierrors.ErrMissingBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:       zap.NewNop(),
		newRequestID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetHTTPClient sets a custom HTTP client.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// do sends a single request with a JSON body and decodes a JSON response
// into result. It never retries and returns the request ID the exchange
// was tagged with.
func (c *Client) do(ctx context.Context, method, path string, body, result any) (string, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	requestID := c.newRequestID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return requestID, &apierrors.NetworkError{Err: err, URL: url}
	}
	defer resp.Body.Close()

	if echoed := resp.Header.Get(RequestIDHeader); echoed != "" {
		requestID = echoed
	}

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return requestID, parseErrorResponse(resp, requestID)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil && !errors.Is(err, io.EOF) {
			return requestID, &apierrors.APIError{
				StatusCode: resp.StatusCode,
				Message:    invalidBodyReason,
				RequestID:  requestID,
			}
		}
	}

	return requestID, nil
}

// parseErrorResponse extracts the "error" field from a failure body. When
// the body is not JSON or has no such field, Message is left empty so the
// reason falls back to the status code.
func parseErrorResponse(resp *http.Response, requestID string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var errResp struct {
		Error     string `json:"error"`
		RequestID string `json:"request_id"`
	}

	apiErr := &apierrors.APIError{
		StatusCode: resp.StatusCode,
		RequestID:  requestID,
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		apiErr.Message = errResp.Error
		if errResp.RequestID != "" {
			apiErr.RequestID = errResp.RequestID
		}
	}
	return apiErr
}
