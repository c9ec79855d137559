package encryption

import (
	"bytes"
	"encoding/base64"
	stderrors "errors"
	"testing"

	apperrors "github.com/kbukum/cryptlib/errors"
	"github.com/kbukum/cryptlib/keymaterial"
)

func mustKey(t *testing.T, passphrase string) keymaterial.Key {
	t.Helper()
	key, err := keymaterial.DeriveKey(passphrase)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	return key
}

func mustIV(t *testing.T, s string) keymaterial.IV {
	t.Helper()
	iv, err := keymaterial.NormalizeIV(s)
	if err != nil {
		t.Fatalf("NormalizeIV failed: %v", err)
	}
	return iv
}

func TestPKCS7Pad(t *testing.T) {
	tests := []struct {
		name    string
		in      int
		wantLen int
		wantPad byte
	}{
		{"empty gets full block", 0, 16, 16},
		{"one byte", 1, 16, 15},
		{"fifteen bytes", 15, 16, 1},
		{"aligned gets full block", 16, 32, 16},
		{"twenty one bytes", 21, 32, 11},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := PKCS7Pad(bytes.Repeat([]byte{'a'}, tc.in), BlockSize)
			if len(out) != tc.wantLen {
				t.Fatalf("expected length %d, got %d", tc.wantLen, len(out))
			}
			for _, b := range out[tc.in:] {
				if b != tc.wantPad {
					t.Fatalf("expected padding byte %d, got %d", tc.wantPad, b)
				}
			}
		})
	}
}

func TestPKCS7Pad_DoesNotAliasInput(t *testing.T) {
	in := make([]byte, 3, 16)
	_ = PKCS7Pad(in, BlockSize)
	if in[:cap(in)][3] != 0 {
		t.Error("PKCS7Pad must not write into the caller's backing array")
	}
}

func TestPKCS7Unpad(t *testing.T) {
	valid := PKCS7Pad([]byte("hello"), BlockSize)
	got, err := PKCS7Unpad(valid, BlockSize)
	if err != nil {
		t.Fatalf("PKCS7Unpad failed: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("expected hello, got %q", got)
	}

	zeroPad := append(bytes.Repeat([]byte{'a'}, 15), 0)
	inconsistent := append(bytes.Repeat([]byte{'a'}, 13), 2, 3, 3)
	tooLarge := append(bytes.Repeat([]byte{'a'}, 15), 17)

	tests := []struct {
		name string
		data []byte
		want *apperrors.AppError
	}{
		{"empty", nil, apperrors.ErrMalformedCiphertext},
		{"unaligned", []byte("abc"), apperrors.ErrMalformedCiphertext},
		{"zero pad byte", zeroPad, apperrors.ErrBadPadding},
		{"inconsistent", inconsistent, apperrors.ErrBadPadding},
		{"pad larger than block", tooLarge, apperrors.ErrBadPadding},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PKCS7Unpad(tc.data, BlockSize)
			if !stderrors.Is(err, tc.want) {
				t.Errorf("expected %s, got %v", tc.want.Code, err)
			}
		})
	}
}

func TestEncryptCBC_KnownVector(t *testing.T) {
	ct, err := EncryptCBC([]byte("this is my plain text"), mustKey(t, "simplekey"), mustIV(t, "1234123412341234"))
	if err != nil {
		t.Fatalf("EncryptCBC failed: %v", err)
	}
	want := "rKzNsa7Qzk9TExJ6aHg49tGDiritTUJ08RMPm48S0o4="
	if got := base64.StdEncoding.EncodeToString(ct); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestEncryptCBC_EmptyPlaintext(t *testing.T) {
	ct, err := EncryptCBC(nil, mustKey(t, "simplekey"), mustIV(t, "1234123412341234"))
	if err != nil {
		t.Fatalf("EncryptCBC failed: %v", err)
	}
	if got := base64.StdEncoding.EncodeToString(ct); got != "t2sPhqx6hn6n0YvSbnK7Fw==" {
		t.Errorf("unexpected ciphertext %s", got)
	}
}

func TestCBC_RoundTrip(t *testing.T) {
	key := mustKey(t, "round-trip")
	iv := mustIV(t, "iv")
	for _, n := range []int{0, 1, 15, 16, 17, 31, 32, 33, 1000} {
		pt := bytes.Repeat([]byte{byte(n)}, n)
		ct, err := EncryptCBC(pt, key, iv)
		if err != nil {
			t.Fatalf("len %d: EncryptCBC failed: %v", n, err)
		}
		if len(ct)%BlockSize != 0 || len(ct) <= n {
			t.Fatalf("len %d: unexpected ciphertext length %d", n, len(ct))
		}
		got, err := DecryptCBC(ct, key, iv)
		if err != nil {
			t.Fatalf("len %d: DecryptCBC failed: %v", n, err)
		}
		if !bytes.Equal(got, pt) {
			t.Fatalf("len %d: round trip mismatch", n)
		}
	}
}

func TestDecryptCBC_BadLength(t *testing.T) {
	key := mustKey(t, "k")
	for _, n := range []int{0, 1, 15, 17} {
		_, err := DecryptCBC(make([]byte, n), key, keymaterial.IV{})
		if !stderrors.Is(err, apperrors.ErrMalformedCiphertext) {
			t.Errorf("len %d: expected MALFORMED_CIPHERTEXT, got %v", n, err)
		}
	}
}

func TestDecryptCBC_BitFlipInPaddingBlock(t *testing.T) {
	key := mustKey(t, "simplekey")
	iv := mustIV(t, "1234123412341234")
	ct, _ := EncryptCBC([]byte("this is my plain text"), key, iv)

	// Flipping the low bit of the last byte of block 0 turns the final
	// padding byte 0x0b into 0x0a, which no longer matches its run.
	ct[15] ^= 0x01
	_, err := DecryptCBC(ct, key, iv)
	if !stderrors.Is(err, apperrors.ErrBadPadding) {
		t.Fatalf("expected BAD_PADDING, got %v", err)
	}
}

func TestEncryptBlocks_ValidatesLengths(t *testing.T) {
	key := make([]byte, keymaterial.KeySize)
	iv := make([]byte, keymaterial.IVSize)

	if _, err := EncryptBlocks([]byte("x"), key[:16], iv); !stderrors.Is(err, apperrors.ErrInvalidKeyMaterial) {
		t.Errorf("expected INVALID_KEY_MATERIAL, got %v", err)
	}
	if _, err := EncryptBlocks([]byte("x"), key, iv[:8]); !stderrors.Is(err, apperrors.ErrInvalidIVLength) {
		t.Errorf("expected INVALID_IV_LENGTH, got %v", err)
	}
	if _, err := DecryptBlocks(make([]byte, 16), key, make([]byte, 32)); !stderrors.Is(err, apperrors.ErrInvalidIVLength) {
		t.Errorf("expected INVALID_IV_LENGTH, got %v", err)
	}

	ct, err := EncryptBlocks([]byte("slices"), key, iv)
	if err != nil {
		t.Fatalf("EncryptBlocks failed: %v", err)
	}
	pt, err := DecryptBlocks(ct, key, iv)
	if err != nil {
		t.Fatalf("DecryptBlocks failed: %v", err)
	}
	if string(pt) != "slices" {
		t.Errorf("expected slices, got %q", pt)
	}
}
