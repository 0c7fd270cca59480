package crypto

const (
	// TripleDESBlockSize is the size of one DES key part in characters.
	// A 3DES key is split into consecutive parts of this size for the weak
	// key check.
	TripleDESBlockSize = 8
	// TripleDESKeySize2 is the two-key 3DES key length in characters.
	TripleDESKeySize2 = 16
	// TripleDESKeySize3 is the three-key 3DES key length in characters.
	TripleDESKeySize3 = 24

	// AESKeySize128 is the AES-128 key length in characters.
	AESKeySize128 = 16
	// AESKeySize192 is the AES-192 key length in characters.
	AESKeySize192 = 24
	// AESKeySize256 is the AES-256 key length in characters.
	AESKeySize256 = 32

	// FingerprintSize is the number of hash bytes kept in a key fingerprint.
	FingerprintSize = 9
)
