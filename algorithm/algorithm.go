package algorithm

import (
	"fmt"
	"strings"
)

// Name identifies a cipher algorithm by its wire name.
type Name string

const (
	// OTP is the one-time pad. The key must be as long as the message.
	OTP Name = "otp"
	// TripleDES is Triple DES with a 16 or 24 character key.
	TripleDES Name = "3des"
	// AES accepts 16, 24 or 32 character keys.
	AES Name = "aes"
	// RSA uses keys held by the backend; no key is sent.
	RSA Name = "rsa"
)

// String returns the wire name.
func (n Name) String() string {
	return string(n)
}

// Operation selects the backend endpoint.
type Operation string

const (
	// Encrypt turns a plaintext message into ciphertext.
	Encrypt Operation = "encrypt"
	// Decrypt turns ciphertext back into plaintext.
	Decrypt Operation = "decrypt"
)

// String returns the wire name.
func (o Operation) String() string {
	return string(o)
}

// Valid reports whether o is Encrypt or Decrypt.
func (o Operation) Valid() bool {
	return o == Encrypt || o == Decrypt
}

// aliases maps accepted spellings to wire names.
var aliases = map[string]Name{
	"otp":        OTP,
	"3des":       TripleDES,
	"tripledes":  TripleDES,
	"triple-des": TripleDES,
	"des3":       TripleDES,
	"aes":        AES,
	"rsa":        RSA,
}

// Parse converts a user-supplied algorithm name to a Name. Matching is
// case-insensitive and ignores surrounding whitespace.
func Parse(s string) (Name, error) {
	if n, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return n, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// ParseOperation converts a user-supplied operation name to an Operation.
func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	if !op.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, s)
	}
	return op, nil
}
