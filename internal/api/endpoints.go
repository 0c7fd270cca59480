package api

import (
	"context"
	"net/http"

	"github.com/cnslab/cipherform-go/algorithm"
)

// Submit posts payload to the endpoint selected by op and interprets the
// response. Exactly one request is made.
func (c *Client) Submit(ctx context.Context, op algorithm.Operation, payload *algorithm.Payload) (*SubmitResult, error) {
	path, err := algorithm.Path(op)
	if err != nil {
		return nil, err
	}

	var resp CipherResponse
	requestID, err := c.do(ctx, http.MethodPost, path, payload, &resp)
	if err != nil {
		return nil, err
	}

	text, ok := resp.Text(op)
	return &SubmitResult{
		Text:      text,
		Empty:     !ok,
		RequestID: requestID,
	}, nil
}
