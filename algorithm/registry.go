package algorithm

import (
	"fmt"
	"slices"

	"github.com/cnslab/cipherform-go/internal/crypto"
)

// Spec describes the key constraints the gatekeeper enforces for one
// algorithm. Specs are immutable; callers must not modify the returned
// values.
type Spec struct {
	// Name is the wire name of the algorithm.
	Name Name
	// DisplayName is the human-readable label.
	DisplayName string
	// RequiresKey is false only for algorithms whose keys live on the backend.
	RequiresKey bool
	// KeyLengths lists the accepted key lengths in characters. It is empty
	// when DynamicKeyLength is set or no key is required.
	KeyLengths []int
	// DynamicKeyLength means the key must be as long as the message.
	DynamicKeyLength bool
	// WeakKeyCheck rejects structurally weak keys. Nil means no check.
	WeakKeyCheck func(key string) error
}

var registry = []*Spec{
	{
		Name:             OTP,
		DisplayName:      "One-Time Pad",
		RequiresKey:      true,
		DynamicKeyLength: true,
	},
	{
		Name:         TripleDES,
		DisplayName:  "Triple DES",
		RequiresKey:  true,
		KeyLengths:   []int{crypto.TripleDESKeySize2, crypto.TripleDESKeySize3},
		WeakKeyCheck: checkWeakTripleDESKey,
	},
	{
		Name:        AES,
		DisplayName: "AES",
		RequiresKey: true,
		KeyLengths:  []int{crypto.AESKeySize128, crypto.AESKeySize192, crypto.AESKeySize256},
	},
	{
		Name:        RSA,
		DisplayName: "RSA",
		RequiresKey: false,
	},
}

var byName = func() map[Name]*Spec {
	m := make(map[Name]*Spec, len(registry))
	for _, s := range registry {
		m[s.Name] = s
	}
	return m
}()

// Lookup returns the Spec for name, or an error matching ErrUnknownAlgorithm.
func Lookup(name Name) (*Spec, error) {
	if s, ok := byName[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(name))
}

// All returns every supported algorithm in display order.
func All() []*Spec {
	return slices.Clone(registry)
}

// AllowsKeyLength reports whether a key of n characters is acceptable for a
// message of messageLen characters. Specs that require no key accept any
// length.
func (s *Spec) AllowsKeyLength(n, messageLen int) bool {
	switch {
	case !s.RequiresKey:
		return true
	case s.DynamicKeyLength:
		return n == messageLen
	default:
		return slices.Contains(s.KeyLengths, n)
	}
}

// checkWeakTripleDESKey splits key into consecutive 8-character parts. A
// 16-character key is weak when both parts match; a 24-character key only
// when all three match. Partial repeats in a 24-character key (parts 0 and 2,
// or 1 and 2) are left to the backend.
func checkWeakTripleDESKey(key string) error {
	parts := splitParts([]rune(key), crypto.TripleDESBlockSize)
	switch len(parts) {
	case 2:
		if parts[0] == parts[1] {
			return newValidationError(ErrWeakTripleDESKey, reasonWeakTwoKey)
		}
	case 3:
		if parts[0] == parts[1] && parts[1] == parts[2] {
			return newValidationError(ErrWeakTripleDESKey, reasonWeakThreeKey)
		}
	}
	return nil
}

func splitParts(r []rune, size int) []string {
	parts := make([]string, 0, len(r)/size)
	for i := 0; i+size <= len(r); i += size {
		parts = append(parts, string(r[i:i+size]))
	}
	return parts
}
