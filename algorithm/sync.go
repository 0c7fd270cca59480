package algorithm

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultFill is the character appended to a one-time-pad key that is
// shorter than its message.
const DefaultFill = '0'

// ErrInvalidFill is returned when the fill character would not lengthen the
// key. Padding with nothing leaves OTP keys short of the message and every
// submission then fails validation.
var ErrInvalidFill = errors.New("invalid OTP fill character")

// Synchronizer keeps a one-time-pad encryption key as long as its message.
// It is stateless apart from its configuration and safe to share.
type Synchronizer struct {
	fill rune
}

// SyncOption configures a Synchronizer.
type SyncOption func(*Synchronizer)

// WithFill sets the character used to extend short keys.
func WithFill(r rune) SyncOption {
	return func(s *Synchronizer) {
		s.fill = r
	}
}

// NewSynchronizer returns a Synchronizer that pads with DefaultFill unless
// configured otherwise.
func NewSynchronizer(opts ...SyncOption) (*Synchronizer, error) {
	s := &Synchronizer{fill: DefaultFill}
	for _, opt := range opts {
		opt(s)
	}
	if s.fill == 0 || s.fill == utf8.RuneError || !unicode.IsPrint(s.fill) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFill, s.fill)
	}
	return s, nil
}

// Fill returns the configured fill character.
func (s *Synchronizer) Fill() rune {
	return s.fill
}

// SetMessage stores msg in st and then synchronizes the key.
// It reports whether the key was changed.
func (s *Synchronizer) SetMessage(st *State, msg string) bool {
	st.Message = msg
	return s.Sync(st)
}

// SetAlgorithm switches the algorithm and synchronizes the key when the new
// combination is OTP encryption.
func (s *Synchronizer) SetAlgorithm(st *State, name Name) bool {
	st.Algorithm = name
	return s.Sync(st)
}

// SetOperation switches the operation and synchronizes the key when the new
// combination is OTP encryption.
func (s *Synchronizer) SetOperation(st *State, op Operation) bool {
	st.Operation = op
	return s.Sync(st)
}

// Sync resizes st.Key to the message length when st is an OTP encryption.
// Longer keys keep their first characters; shorter keys are extended at the
// end with the fill character. Decryption keys and keys for other
// algorithms are never touched. Sync reports whether the key was changed.
func (s *Synchronizer) Sync(st *State) bool {
	if !st.syncsKey() {
		return false
	}
	want := st.MessageLen()
	key := []rune(st.Key)
	switch {
	case len(key) == want:
		return false
	case len(key) > want:
		st.Key = string(key[:want])
	default:
		st.Key = st.Key + strings.Repeat(string(s.fill), want-len(key))
	}
	return true
}
