package keymaterial

import (
	"crypto/rand"
	"encoding/hex"
	"io"

	apperrors "github.com/kbukum/cryptlib/errors"
)

// RandomIV reads IVSize bytes from r. A nil r means crypto/rand.
func RandomIV(r io.Reader) (IV, error) {
	if r == nil {
		r = rand.Reader
	}
	var iv IV
	if _, err := io.ReadFull(r, iv[:]); err != nil {
		return IV{}, apperrors.EntropyUnavailable(err)
	}
	return iv, nil
}

// GenerateRandomIV returns 16 random bytes from crypto/rand as a
// 32-character lowercase hex string.
func GenerateRandomIV() (string, error) {
	return GenerateRandomIVFrom(rand.Reader)
}

// GenerateRandomIVFrom is GenerateRandomIV with an explicit entropy source.
func GenerateRandomIVFrom(r io.Reader) (string, error) {
	iv, err := RandomIV(r)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(iv[:]), nil
}
