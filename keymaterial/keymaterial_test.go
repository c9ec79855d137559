package keymaterial

import (
	"bytes"
	stderrors "errors"
	"io"
	"strings"
	"testing"

	apperrors "github.com/kbukum/cryptlib/errors"
)

func TestDeriveKey_KnownVector(t *testing.T) {
	key, err := DeriveKey("simplekey")
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	// sha256("simplekey") = fecc82098feee311bc803e1f9b7447bea82df921...
	want := "fecc82098feee311bc803e1f9b7447be"
	if string(key[:]) != want {
		t.Errorf("expected key %q, got %q", want, string(key[:]))
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	inputs := []string{"", "simplekey", "BlVssQKxzAHFAUNZbqvwS+yKw/m", "こんにちは", strings.Repeat("x", 500)}
	for _, in := range inputs {
		a, err := DeriveKey(in)
		if err != nil {
			t.Fatalf("DeriveKey(%q) failed: %v", in, err)
		}
		b, _ := DeriveKey(in)
		if a != b {
			t.Errorf("DeriveKey(%q) not deterministic", in)
		}
		if len(a) != KeySize {
			t.Errorf("expected %d-byte key, got %d", KeySize, len(a))
		}
	}
}

func TestDeriveKey_DifferentPassphrases(t *testing.T) {
	a, _ := DeriveKey("key-one")
	b, _ := DeriveKey("key-two")
	if a == b {
		t.Error("different passphrases should derive different keys")
	}
}

func TestDeriveKey_InvalidUTF8(t *testing.T) {
	_, err := DeriveKey("bad\xff")
	if !stderrors.Is(err, apperrors.ErrUnsupportedEncoding) {
		t.Fatalf("expected UNSUPPORTED_ENCODING, got %v", err)
	}
}

func TestHexDigest(t *testing.T) {
	got := HexDigest("")
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestNormalizeIV(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want IV
	}{
		{"exact", "1234123412341234", IV{'1', '2', '3', '4', '1', '2', '3', '4', '1', '2', '3', '4', '1', '2', '3', '4'}},
		{"truncated", "abcdefghijklmnopqrstuvwxyz", IV{'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o', 'p'}},
		{"zero padded", "abc", IV{'a', 'b', 'c'}},
		{"empty", "", IV{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeIV(tc.in)
			if err != nil {
				t.Fatalf("NormalizeIV failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestNormalizeIV_MultibyteTruncatesOnBytes(t *testing.T) {
	// 6 runes, 18 bytes: the IV keeps the first 16 bytes.
	in := "日本語日本語"
	got, err := NormalizeIV(in)
	if err != nil {
		t.Fatalf("NormalizeIV failed: %v", err)
	}
	if !bytes.Equal(got[:], []byte(in)[:IVSize]) {
		t.Errorf("expected first 16 bytes of input, got %x", got)
	}
}

func TestNormalizeIV_InvalidUTF8(t *testing.T) {
	_, err := NormalizeIV("\xc3\x28")
	if !stderrors.Is(err, apperrors.ErrUnsupportedEncoding) {
		t.Fatalf("expected UNSUPPORTED_ENCODING, got %v", err)
	}
}

func TestIVFromBytes(t *testing.T) {
	raw := bytes.Repeat([]byte{7}, IVSize)
	iv, err := IVFromBytes(raw)
	if err != nil {
		t.Fatalf("IVFromBytes failed: %v", err)
	}
	if !bytes.Equal(iv[:], raw) {
		t.Error("expected IV to equal input")
	}

	for _, n := range []int{0, 8, 15, 17, 32} {
		_, err := IVFromBytes(make([]byte, n))
		if !stderrors.Is(err, apperrors.ErrInvalidIVLength) {
			t.Errorf("len %d: expected INVALID_IV_LENGTH, got %v", n, err)
		}
	}
}

func TestKeyFromBytes(t *testing.T) {
	if _, err := KeyFromBytes(make([]byte, KeySize)); err != nil {
		t.Fatalf("KeyFromBytes failed: %v", err)
	}
	_, err := KeyFromBytes(make([]byte, 16))
	if !stderrors.Is(err, apperrors.ErrInvalidKeyMaterial) {
		t.Fatalf("expected INVALID_KEY_MATERIAL, got %v", err)
	}
}

func TestGenerateRandomIV_Format(t *testing.T) {
	iv, err := GenerateRandomIV()
	if err != nil {
		t.Fatalf("GenerateRandomIV failed: %v", err)
	}
	if len(iv) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(iv))
	}
	if strings.ToLower(iv) != iv {
		t.Errorf("expected lowercase hex, got %s", iv)
	}
	for _, c := range iv {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Fatalf("unexpected character %q in %s", c, iv)
		}
	}
}

func TestGenerateRandomIV_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		iv, err := GenerateRandomIV()
		if err != nil {
			t.Fatalf("GenerateRandomIV failed: %v", err)
		}
		if _, dup := seen[iv]; dup {
			t.Fatalf("duplicate IV after %d samples: %s", i, iv)
		}
		seen[iv] = struct{}{}
	}
}

func TestGenerateRandomIVFrom_DeterministicSource(t *testing.T) {
	src := bytes.NewReader(bytes.Repeat([]byte{0xab}, IVSize))
	iv, err := GenerateRandomIVFrom(src)
	if err != nil {
		t.Fatalf("GenerateRandomIVFrom failed: %v", err)
	}
	if iv != strings.Repeat("ab", IVSize) {
		t.Errorf("unexpected IV %s", iv)
	}
}

func TestRandomIV_ShortSource(t *testing.T) {
	_, err := RandomIV(io.LimitReader(bytes.NewReader(make([]byte, 64)), 4))
	if !stderrors.Is(err, apperrors.ErrEntropyUnavailable) {
		t.Fatalf("expected ENTROPY_UNAVAILABLE, got %v", err)
	}
}

func TestKeyAndIVHex(t *testing.T) {
	var iv IV
	iv[15] = 1
	if got := iv.Hex(); got != "00000000000000000000000000000001" {
		t.Errorf("unexpected IV hex %s", got)
	}
	var key Key
	if got := key.Hex(); len(got) != 2*KeySize {
		t.Errorf("expected %d hex chars, got %d", 2*KeySize, len(got))
	}
}
