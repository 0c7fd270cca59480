package api

import "github.com/cnslab/cipherform-go/algorithm"

// NoResultText is reported when a successful response carries no result.
const NoResultText = "No result received"

// CipherResponse is the success body of /encrypt and /decrypt.
type CipherResponse struct {
	EncryptedMessage string `json:"encrypted_message,omitempty"`
	DecryptedMessage string `json:"decrypted_message,omitempty"`
}

// Text returns the result for op, preferring the field that op produces and
// falling back to the other one. The second return is false when neither
// field holds anything.
func (r *CipherResponse) Text(op algorithm.Operation) (string, bool) {
	first, second := r.EncryptedMessage, r.DecryptedMessage
	if op == algorithm.Decrypt {
		first, second = second, first
	}
	switch {
	case first != "":
		return first, true
	case second != "":
		return second, true
	default:
		return NoResultText, false
	}
}

// SubmitResult is the interpreted outcome of a successful submission.
type SubmitResult struct {
	// Text is the ciphertext or plaintext, or NoResultText when Empty.
	Text string
	// Empty is set when the backend answered 2xx without a result field.
	Empty bool
	// RequestID is the correlation ID of the exchange.
	RequestID string
}
