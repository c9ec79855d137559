package keymaterial

import (
	"encoding/hex"
	stderrors "errors"
	"testing"

	apperrors "github.com/kbukum/cryptlib/errors"
)

func TestHexDigestDeriver_MatchesDeriveKey(t *testing.T) {
	var d Deriver = HexDigestDeriver{}
	got, err := d.DeriveKey("simplekey")
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	want, _ := DeriveKey("simplekey")
	if got != want {
		t.Error("HexDigestDeriver should match DeriveKey")
	}
	if d.Name() != DeriverHexSHA256 {
		t.Errorf("unexpected name %q", d.Name())
	}
}

func TestPBKDF2Deriver_KnownVector(t *testing.T) {
	d, err := NewPBKDF2Deriver([]byte("saltsalt"), WithIterations(1000))
	if err != nil {
		t.Fatalf("NewPBKDF2Deriver failed: %v", err)
	}
	key, err := d.DeriveKey("simplekey")
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	want := "fc16d9d77360f811392e92464d8c447e7be63f5040ace2999fa94a06d008a5b5"
	if got := hex.EncodeToString(key[:]); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestPBKDF2Deriver_SaltIsCopied(t *testing.T) {
	salt := []byte("saltsalt")
	d, _ := NewPBKDF2Deriver(salt, WithIterations(1000))
	before, _ := d.DeriveKey("pw")
	salt[0] = 'X'
	after, _ := d.DeriveKey("pw")
	if before != after {
		t.Error("mutating the caller's salt must not change derived keys")
	}
}

func TestArgon2Deriver_Deterministic(t *testing.T) {
	d, err := NewArgon2Deriver([]byte("saltsalt"), WithArgon2Memory(8*1024), WithArgon2Threads(1), WithArgon2Time(1))
	if err != nil {
		t.Fatalf("NewArgon2Deriver failed: %v", err)
	}
	a, err := d.DeriveKey("simplekey")
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	b, _ := d.DeriveKey("simplekey")
	if a != b {
		t.Error("argon2id derivation should be deterministic")
	}
	c, _ := d.DeriveKey("otherkey")
	if a == c {
		t.Error("different passphrases should derive different keys")
	}
	hexKey, _ := DeriveKey("simplekey")
	if a == hexKey {
		t.Error("argon2id key should differ from the hex digest key")
	}
}

func TestSaltedDerivers_RejectShortSalt(t *testing.T) {
	if _, err := NewPBKDF2Deriver([]byte("short")); err == nil {
		t.Error("expected PBKDF2 to reject short salt")
	}
	if _, err := NewArgon2Deriver(nil); err == nil {
		t.Error("expected argon2id to reject missing salt")
	}
}

func TestSaltedDerivers_InvalidUTF8(t *testing.T) {
	p, _ := NewPBKDF2Deriver([]byte("saltsalt"), WithIterations(1))
	if _, err := p.DeriveKey("\xff"); !stderrors.Is(err, apperrors.ErrUnsupportedEncoding) {
		t.Errorf("expected UNSUPPORTED_ENCODING, got %v", err)
	}
}

func TestNewDeriver(t *testing.T) {
	tests := []struct {
		name     string
		cfg      DeriverConfig
		wantName string
		wantErr  bool
	}{
		{"default", DeriverConfig{}, DeriverHexSHA256, false},
		{"hex", DeriverConfig{Name: DeriverHexSHA256}, DeriverHexSHA256, false},
		{"pbkdf2", DeriverConfig{Name: DeriverPBKDF2SHA256, Salt: []byte("0123456789"), Iterations: 10}, DeriverPBKDF2SHA256, false},
		{"argon2id", DeriverConfig{Name: DeriverArgon2id, Salt: []byte("0123456789")}, DeriverArgon2id, false},
		{"pbkdf2 without salt", DeriverConfig{Name: DeriverPBKDF2SHA256}, "", true},
		{"unknown", DeriverConfig{Name: "md5"}, "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := NewDeriver(tc.cfg)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if apperrors.CodeOf(err) != apperrors.ErrCodeInvalidInput {
					t.Errorf("expected INVALID_INPUT, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Name() != tc.wantName {
				t.Errorf("expected %q, got %q", tc.wantName, d.Name())
			}
		})
	}
}
