package crypto

import (
	"encoding/base64"

	"golang.org/x/crypto/blake2b"
)

// KeyFingerprint returns a short, stable identifier for key that is safe to
// log. An empty key yields an empty fingerprint.
func KeyFingerprint(key string) string {
	if key == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(key))
	return ToBase64URL(sum[:FingerprintSize])
}

// ToBase64URL encodes bytes to URL-safe base64 without padding.
func ToBase64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}
