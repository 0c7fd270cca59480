package algorithm

import "unicode/utf8"

// State is the editable request a front end builds up before submitting.
// A State has a single owner and must not be shared between sessions.
type State struct {
	Message   string    `json:"message"`
	Key       string    `json:"key"`
	Algorithm Name      `json:"algorithm"`
	Operation Operation `json:"operation"`
}

// NewState returns a State with the defaults the form starts with:
// OTP encryption and empty fields.
func NewState() *State {
	return &State{
		Algorithm: OTP,
		Operation: Encrypt,
	}
}

// MessageLen returns the message length in characters.
func (s *State) MessageLen() int {
	return utf8.RuneCountInString(s.Message)
}

// KeyLen returns the key length in characters.
func (s *State) KeyLen() int {
	return utf8.RuneCountInString(s.Key)
}

// syncsKey reports whether the key follows the message length.
func (s *State) syncsKey() bool {
	return s.Algorithm == OTP && s.Operation == Encrypt
}
