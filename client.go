package cipherform

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/cnslab/cipherform-go/algorithm"
	"github.com/cnslab/cipherform-go/internal/api"
	"github.com/cnslab/cipherform-go/internal/crypto"
	"github.com/cnslab/cipherform-go/internal/metrics"
)

// Result is the outcome of a successful submission.
type Result struct {
	// Text is the ciphertext or plaintext returned by the backend, or
	// "No result received" when Empty is set.
	Text string
	// Empty is set when the backend answered 2xx without a result field.
	Empty bool
	// Algorithm and Operation echo the submitted request.
	Algorithm algorithm.Name
	Operation algorithm.Operation
	// RequestID correlates the exchange with backend logs.
	RequestID string
}

// Client validates cipher requests and forwards the valid ones to the
// backend. A Client is safe for concurrent use.
type Client struct {
	apiClient *api.Client
	logger    *zap.Logger
	metrics   *metrics.Metrics
	fill      rune
}

// buildAPIClient creates and configures an API client from the given config.
func buildAPIClient(cfg *clientConfig) (*api.Client, error) {
	apiOpts := []api.Option{
		api.WithLogger(cfg.logger),
	}
	if cfg.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(cfg.timeout))
	}

	apiClient, err := api.New(cfg.baseURL, apiOpts...)
	if err != nil {
		return nil, err
	}

	if cfg.httpClient != nil {
		apiClient.SetHTTPClient(cfg.httpClient)
	}

	return apiClient, nil
}

// New creates a client for the cipher backend.
func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if _, err := algorithm.NewSynchronizer(algorithm.WithFill(cfg.fill)); err != nil {
		return nil, err
	}

	apiClient, err := buildAPIClient(cfg)
	if err != nil {
		return nil, err //coverage:ignore
	}

	c := &Client{
		apiClient: apiClient,
		logger:    cfg.logger,
		fill:      cfg.fill,
	}

	if cfg.registerer != nil {
		m, err := metrics.New(cfg.registerer)
		if err != nil {
			return nil, err
		}
		c.metrics = m
	}

	return c, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.apiClient.BaseURL()
}

// Validate runs the local rule chain against st without contacting the
// backend.
func (c *Client) Validate(st *algorithm.State) error {
	return algorithm.Validate(st)
}

// Submit validates st, builds the payload and performs exactly one backend
// request. Errors are *ValidationError, *BackendError or *TransportError;
// an empty 2xx response is not an error but a Result with Empty set.
func (c *Client) Submit(ctx context.Context, st *algorithm.State) (*Result, error) {
	alg, op := string(st.Algorithm), string(st.Operation)
	fields := []zap.Field{
		zap.String("algorithm", alg),
		zap.String("operation", op),
		zap.Int("message_len", st.MessageLen()),
		zap.String("key_fp", crypto.KeyFingerprint(st.Key)),
	}

	payload, err := algorithm.BuildPayload(st)
	if err != nil {
		c.metrics.ObserveSubmission(alg, op, metrics.OutcomeValidation)
		c.logger.Info("submission rejected", append(fields, zap.String("reason", ReasonOf(err)))...)
		return nil, err
	}

	start := time.Now()
	resp, err := c.apiClient.Submit(ctx, st.Operation, payload)
	c.metrics.ObserveBackend(op, time.Since(start))
	if err != nil {
		err = wrapError(err)
		c.metrics.ObserveSubmission(alg, op, outcomeOf(err))
		c.logger.Warn("submission failed", append(fields, zap.String("reason", ReasonOf(err)), zap.Error(err))...)
		return nil, err
	}

	outcome := metrics.OutcomeOK
	if resp.Empty {
		outcome = metrics.OutcomeEmpty
	}
	c.metrics.ObserveSubmission(alg, op, outcome)
	c.logger.Info("submission completed", append(fields,
		zap.String("request_id", resp.RequestID),
		zap.Bool("empty", resp.Empty),
	)...)

	return &Result{
		Text:      resp.Text,
		Empty:     resp.Empty,
		Algorithm: st.Algorithm,
		Operation: st.Operation,
		RequestID: resp.RequestID,
	}, nil
}

// NewSession returns a Session in the form's initial state (OTP
// encryption, empty fields) bound to c.
func (c *Client) NewSession() *Session {
	// Fill was checked in New.
	sync, _ := algorithm.NewSynchronizer(algorithm.WithFill(c.fill))
	return &Session{
		client: c,
		sync:   sync,
		state:  *algorithm.NewState(),
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return metrics.OutcomeValidation
	case errors.Is(err, ErrTransport):
		return metrics.OutcomeTransport
	default:
		return metrics.OutcomeBackend
	}
}
