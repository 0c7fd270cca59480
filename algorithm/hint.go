package algorithm

import "fmt"

// KeyHint returns the placeholder text for the key input given the current
// state.
func KeyHint(st *State) string {
	hint := "Enter encryption key"
	if st.Operation == Decrypt {
		hint = "Enter decryption key"
	}

	switch st.Algorithm {
	case RSA:
		return "RSA uses server keys - no input needed"
	case OTP:
		if st.Operation == Encrypt {
			hint += fmt.Sprintf(" (%d characters)", st.MessageLen())
		}
	case TripleDES:
		hint += " (16 or 24 characters)"
	case AES:
		hint += " (16, 24, or 32 characters)"
	}
	return hint
}
