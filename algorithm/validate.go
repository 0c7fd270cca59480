package algorithm

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks. Each validation rule has one.
var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrUnknownAlgorithm is returned for names outside the registry.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrUnknownOperation is returned for operations other than encrypt and decrypt.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrEmptyMessage is returned when the message is empty.
	ErrEmptyMessage = errors.New("empty message")

	// ErrEmptyKey is returned when a key-bearing algorithm has no key.
	ErrEmptyKey = errors.New("empty key")

	// ErrOTPKeyLength is returned when an OTP encryption key is not as long as the message.
	ErrOTPKeyLength = errors.New("OTP key length mismatch")

	// ErrTripleDESKeyLength is returned for 3DES keys that are not 16 or 24 characters.
	ErrTripleDESKeyLength = errors.New("invalid 3DES key length")

	// ErrWeakTripleDESKey is returned for 3DES keys with repeated parts.
	ErrWeakTripleDESKey = errors.New("weak 3DES key")

	// ErrAESKeyLength is returned for AES keys that are not 16, 24 or 32 characters.
	ErrAESKeyLength = errors.New("invalid AES key length")
)

// Reasons shown to the user, one per rule.
const (
	reasonEmptyMessage       = "Message cannot be empty"
	reasonEmptyKey           = "Key cannot be empty"
	reasonOTPKeyLength       = "For OTP, key length must match message length"
	reasonTripleDESKeyLength = "3DES requires 16 or 24 character key"
	reasonWeakTwoKey         = "Weak 3DES key: First and second parts are identical"
	reasonWeakThreeKey       = "Weak 3DES key: All key parts are identical"
	reasonAESKeyLength       = "AES requires 16, 24, or 32 character key"
)

// ValidationError is the single reason a State was rejected.
type ValidationError struct {
	// Rule is the sentinel of the failing rule.
	Rule error
	// Message is the human-readable reason for display.
	Message string
}

func newValidationError(rule error, msg string) *ValidationError {
	return &ValidationError{Rule: rule, Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Reason returns the display reason.
func (e *ValidationError) Reason() string {
	return e.Message
}

// Unwrap returns the rule sentinel.
func (e *ValidationError) Unwrap() error {
	return e.Rule
}

// Is implements errors.Is for sentinel error matching.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Outcome is the accept/reject view of a validation run.
type Outcome struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Check runs Validate and reports the result as an Outcome.
func Check(s *State) Outcome {
	if err := Validate(s); err != nil {
		return Outcome{Reason: err.Error()}
	}
	return Outcome{Valid: true}
}

// Validate runs the rule chain against s and returns the first failure as a
// *ValidationError, or nil if s may be submitted.
//
// OTP decryption keys are deliberately not checked against the message
// length; the backend rejects mismatches.
func Validate(s *State) error {
	if s.Message == "" {
		return newValidationError(ErrEmptyMessage, reasonEmptyMessage)
	}

	spec, err := Lookup(s.Algorithm)
	if err != nil {
		return newValidationError(ErrUnknownAlgorithm, fmt.Sprintf("Unsupported algorithm: %q", string(s.Algorithm)))
	}
	if !s.Operation.Valid() {
		return newValidationError(ErrUnknownOperation, fmt.Sprintf("Unsupported operation: %q", string(s.Operation)))
	}

	if spec.RequiresKey && s.Key == "" {
		return newValidationError(ErrEmptyKey, reasonEmptyKey)
	}

	switch spec.Name {
	case OTP:
		if s.Operation == Encrypt && !spec.AllowsKeyLength(s.KeyLen(), s.MessageLen()) {
			return newValidationError(ErrOTPKeyLength, reasonOTPKeyLength)
		}
	case TripleDES:
		if !spec.AllowsKeyLength(s.KeyLen(), s.MessageLen()) {
			return newValidationError(ErrTripleDESKeyLength, reasonTripleDESKeyLength)
		}
	case AES:
		if !spec.AllowsKeyLength(s.KeyLen(), s.MessageLen()) {
			return newValidationError(ErrAESKeyLength, reasonAESKeyLength)
		}
	}

	if spec.WeakKeyCheck != nil {
		if err := spec.WeakKeyCheck(s.Key); err != nil {
			return err
		}
	}

	return nil
}
