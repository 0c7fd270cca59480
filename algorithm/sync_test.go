package algorithm

import (
	"errors"
	"testing"
)

func newSync(t *testing.T, opts ...SyncOption) *Synchronizer {
	t.Helper()
	s, err := NewSynchronizer(opts...)
	if err != nil {
		t.Fatalf("NewSynchronizer() error = %v", err)
	}
	return s
}

func TestNewSynchronizer_DefaultFill(t *testing.T) {
	s := newSync(t)
	if s.Fill() != '0' {
		t.Errorf("Fill() = %q, want '0'", s.Fill())
	}
}

func TestNewSynchronizer_RejectsInvalidFill(t *testing.T) {
	for _, r := range []rune{0, '\n', '\u0007'} {
		if _, err := NewSynchronizer(WithFill(r)); !errors.Is(err, ErrInvalidFill) {
			t.Errorf("NewSynchronizer(WithFill(%q)) error = %v, want ErrInvalidFill", r, err)
		}
	}
}

func TestSynchronizer_SetMessage(t *testing.T) {
	tests := []struct {
		name    string
		fill    rune
		key     string
		message string
		wantKey string
		changed bool
	}{
		{"extend empty key", '0', "", "hello", "00000", true},
		{"extend short key", '0', "ab", "hello", "ab000", true},
		{"truncate keeps prefix", '0', "abcdefgh", "hey", "abc", true},
		{"equal length untouched", '0', "abcde", "hello", "abcde", false},
		{"clear message clears key", '0', "abc", "", "", true},
		{"custom fill", 'x', "a", "four", "axxx", true},
		{"multibyte message", '0', "", "héllo", "00000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSync(t, WithFill(tt.fill))
			st := &State{Key: tt.key, Algorithm: OTP, Operation: Encrypt}
			changed := s.SetMessage(st, tt.message)
			if changed != tt.changed {
				t.Errorf("SetMessage() changed = %v, want %v", changed, tt.changed)
			}
			if st.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", st.Key, tt.wantKey)
			}
			if st.KeyLen() != st.MessageLen() {
				t.Errorf("KeyLen() = %d, MessageLen() = %d", st.KeyLen(), st.MessageLen())
			}
		})
	}
}

func TestSynchronizer_NoOpOutsideOTPEncrypt(t *testing.T) {
	tests := []struct {
		name string
		alg  Name
		op   Operation
	}{
		{"otp decrypt", OTP, Decrypt},
		{"3des encrypt", TripleDES, Encrypt},
		{"aes encrypt", AES, Encrypt},
		{"aes decrypt", AES, Decrypt},
		{"rsa encrypt", RSA, Encrypt},
	}

	s := newSync(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &State{Key: "typed-key", Algorithm: tt.alg, Operation: tt.op}
			if s.SetMessage(st, "a much longer message") {
				t.Error("SetMessage() reported a change")
			}
			if st.Key != "typed-key" {
				t.Errorf("Key = %q, want typed-key", st.Key)
			}
		})
	}
}

func TestSynchronizer_Idempotent(t *testing.T) {
	s := newSync(t)
	st := &State{Algorithm: OTP, Operation: Encrypt}
	s.SetMessage(st, "secret")
	first := st.Key
	if s.Sync(st) {
		t.Error("second Sync() reported a change")
	}
	if st.Key != first {
		t.Errorf("Key = %q, want %q", st.Key, first)
	}
}

func TestSynchronizer_SwitchIntoOTPEncrypt(t *testing.T) {
	s := newSync(t)
	st := &State{Message: "hello", Key: "k", Algorithm: AES, Operation: Encrypt}

	if !s.SetAlgorithm(st, OTP) {
		t.Error("SetAlgorithm(OTP) did not sync")
	}
	if st.Key != "k0000" {
		t.Errorf("Key = %q, want k0000", st.Key)
	}

	st = &State{Message: "hello", Key: "k", Algorithm: OTP, Operation: Decrypt}
	if !s.SetOperation(st, Encrypt) {
		t.Error("SetOperation(Encrypt) did not sync")
	}
	if st.Key != "k0000" {
		t.Errorf("Key = %q, want k0000", st.Key)
	}

	if s.SetOperation(st, Decrypt) {
		t.Error("SetOperation(Decrypt) reported a change")
	}
}

func TestSynchronizer_SyncedKeyPassesValidation(t *testing.T) {
	s := newSync(t)
	st := NewState()
	for _, msg := range []string{"h", "he", "hello world", "hi"} {
		s.SetMessage(st, msg)
		if err := Validate(st); err != nil {
			t.Errorf("Validate() after SetMessage(%q) error = %v", msg, err)
		}
	}
}
