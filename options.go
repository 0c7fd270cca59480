package cipherform

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/cnslab/cipherform-go/algorithm"
)

const (
	defaultBaseURL = "http://localhost:5000"
	defaultTimeout = 30 * time.Second
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
	registerer prometheus.Registerer
	fill       rune
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the cipher backend base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout. It is ignored when a custom
// HTTP client is supplied.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithMetrics registers submission metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *clientConfig) {
		c.registerer = reg
	}
}

// WithFill sets the character sessions use to pad one-time-pad keys that
// are shorter than the message. Default: '0'.
func WithFill(r rune) Option {
	return func(c *clientConfig) {
		c.fill = r
	}
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
		fill:    algorithm.DefaultFill,
	}
}
