package keymaterial

import (
	"crypto/sha256"
	"encoding/hex"
	"unicode/utf8"

	apperrors "github.com/kbukum/cryptlib/errors"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// IVSize is the AES block size and CBC IV length in bytes.
	IVSize = 16
)

// Key is an AES-256 key.
type Key [KeySize]byte

// IV is a CBC initialization vector.
type IV [IVSize]byte

// Hex renders the key as lowercase hex.
func (k Key) Hex() string { return hex.EncodeToString(k[:]) }

// Hex renders the IV as lowercase hex.
func (iv IV) Hex() string { return hex.EncodeToString(iv[:]) }

// DeriveKey derives the compatibility key for passphrase: the first 32
// characters of the lowercase hex SHA-256 digest.
func DeriveKey(passphrase string) (Key, error) {
	var key Key
	if !utf8.ValidString(passphrase) {
		return key, apperrors.UnsupportedEncoding("passphrase")
	}
	digest := HexDigest(passphrase)
	n := copy(key[:], digest)
	if err := checkLen(n, KeySize); err != nil {
		return Key{}, err
	}
	return key, nil
}

// HexDigest returns the 64-character lowercase hex SHA-256 digest of s.
func HexDigest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// NormalizeIV copies up to IVSize bytes of iv into a zero-filled IV.
func NormalizeIV(iv string) (IV, error) {
	var out IV
	if !utf8.ValidString(iv) {
		return out, apperrors.UnsupportedEncoding("iv")
	}
	copy(out[:], iv)
	return out, nil
}

// IVFromBytes returns b as an IV. b must be exactly IVSize bytes.
func IVFromBytes(b []byte) (IV, error) {
	var out IV
	if len(b) != IVSize {
		return out, apperrors.InvalidIVLength(len(b), IVSize)
	}
	copy(out[:], b)
	return out, nil
}

// KeyFromBytes returns b as a Key. b must be exactly KeySize bytes.
func KeyFromBytes(b []byte) (Key, error) {
	var out Key
	if err := checkLen(len(b), KeySize); err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

func checkLen(got, want int) error {
	if got != want {
		return apperrors.InvalidKeyMaterial(got, want)
	}
	return nil
}
