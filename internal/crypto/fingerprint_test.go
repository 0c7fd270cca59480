package crypto

import (
	"strings"
	"testing"
)

func TestKeyFingerprint_Empty(t *testing.T) {
	if fp := KeyFingerprint(""); fp != "" {
		t.Errorf("KeyFingerprint(\"\") = %q, want empty", fp)
	}
}

func TestKeyFingerprint_Stable(t *testing.T) {
	a := KeyFingerprint("AAAAAAAABBBBBBBB")
	b := KeyFingerprint("AAAAAAAABBBBBBBB")
	if a != b {
		t.Errorf("fingerprint not stable: %q != %q", a, b)
	}
	// 9 bytes encode to exactly 12 base64 characters.
	if len(a) != 12 {
		t.Errorf("len(fingerprint) = %d, want 12", len(a))
	}
}

func TestKeyFingerprint_DoesNotLeakKey(t *testing.T) {
	key := "secretsecretsecr"
	fp := KeyFingerprint(key)
	if strings.Contains(fp, "secret") {
		t.Errorf("fingerprint %q contains key material", fp)
	}
}

func TestKeyFingerprint_DiffersPerKey(t *testing.T) {
	if KeyFingerprint("AAAAAAAAAAAAAAAA") == KeyFingerprint("AAAAAAAAAAAAAAAB") {
		t.Error("different keys produced the same fingerprint")
	}
}

func TestToBase64URL(t *testing.T) {
	got := ToBase64URL([]byte{0xfb, 0xff})
	if got != "-_8" {
		t.Errorf("ToBase64URL() = %q, want -_8", got)
	}
}
