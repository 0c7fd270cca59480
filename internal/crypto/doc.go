// Package crypto holds the key-size constants shared by the algorithm
// registry and a log-safe key fingerprint.
//
// Nothing in this package encrypts or decrypts. Cipher math is performed by
// the remote backend; this package only describes the shape of keys the
// backend accepts and gives callers a way to refer to a key in logs and
// metrics without revealing it.
//
// # Key Fingerprints
//
// [KeyFingerprint] hashes the key with BLAKE2b-256 and returns the first
// [FingerprintSize] bytes as URL-safe base64 without padding:
//
//	fp := crypto.KeyFingerprint(state.Key)
//	logger.Info("submit", zap.String("key_fp", fp))
//
// Keys must never be logged directly.
package crypto
