package encryption

import (
	"fmt"
	"io"
	"strings"

	apperrors "github.com/kbukum/cryptlib/errors"
	"github.com/kbukum/cryptlib/keymaterial"
)

// Envelope selects the wire format of random-IV ciphertexts.
type Envelope string

const (
	// EnvelopeIVPrefix carries the raw IV in front of the ciphertext:
	//
	//	base64( iv[16] || AES-256-CBC(key, iv, plaintext) )
	//
	// This is the default.
	EnvelopeIVPrefix Envelope = "iv-prefix"

	// EnvelopeLegacy is the CryptLib random-IV format. A random
	// 16-character hex token is prepended to the plaintext, which is then
	// encrypted under a second, independent random IV:
	//
	//	base64( AES-256-CBC(key, iv, token || plaintext) )
	//
	// The IV is not transmitted. CBC decryption with any IV corrupts only
	// the first block, which is exactly the token, so the reader decrypts
	// with a zero IV and drops the first 16 bytes.
	EnvelopeLegacy Envelope = "cryptlib-v1"
)

// legacyTokenLen is the length of the plaintext prefix in EnvelopeLegacy.
const legacyTokenLen = BlockSize

// SupportedEnvelopes lists the names accepted by ParseEnvelope.
func SupportedEnvelopes() []string {
	return []string{string(EnvelopeIVPrefix), string(EnvelopeLegacy)}
}

// ParseEnvelope parses an envelope name. Matching is case-insensitive;
// an empty name selects EnvelopeIVPrefix.
func ParseEnvelope(name string) (Envelope, error) {
	switch Envelope(strings.ToLower(strings.TrimSpace(name))) {
	case "", EnvelopeIVPrefix:
		return EnvelopeIVPrefix, nil
	case EnvelopeLegacy:
		return EnvelopeLegacy, nil
	default:
		return "", apperrors.InvalidInput("envelope", fmt.Sprintf("unsupported envelope %q", name))
	}
}

// seal encrypts plaintext under a fresh random IV and returns the raw
// (not yet Base64-encoded) envelope bytes.
func (e Envelope) seal(plaintext []byte, key keymaterial.Key, random io.Reader) ([]byte, error) {
	switch e {
	case EnvelopeLegacy:
		hexIV, err := keymaterial.GenerateRandomIVFrom(random)
		if err != nil {
			return nil, err
		}
		token := hexIV[:legacyTokenLen]
		// The token must not double as the IV: IV xor token would be
		// zero and every block would encrypt deterministically.
		iv, err := keymaterial.RandomIV(random)
		if err != nil {
			return nil, err
		}
		msg := make([]byte, 0, len(token)+len(plaintext))
		msg = append(msg, token...)
		msg = append(msg, plaintext...)
		return EncryptCBC(msg, key, iv)
	default:
		iv, err := keymaterial.RandomIV(random)
		if err != nil {
			return nil, err
		}
		ct, err := EncryptCBC(plaintext, key, iv)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, len(iv)+len(ct))
		out = append(out, iv[:]...)
		return append(out, ct...), nil
	}
}

// open reverses seal.
func (e Envelope) open(data []byte, key keymaterial.Key) ([]byte, error) {
	switch e {
	case EnvelopeLegacy:
		pt, err := DecryptCBC(data, key, keymaterial.IV{})
		if err != nil {
			return nil, err
		}
		if len(pt) < legacyTokenLen {
			return nil, apperrors.MalformedCiphertext("missing IV prefix")
		}
		return pt[legacyTokenLen:], nil
	default:
		if len(data) < keymaterial.IVSize+BlockSize {
			return nil, apperrors.MalformedCiphertext("ciphertext too short").WithDetail("length", len(data))
		}
		iv, err := keymaterial.IVFromBytes(data[:keymaterial.IVSize])
		if err != nil {
			return nil, err
		}
		return DecryptCBC(data[keymaterial.IVSize:], key, iv)
	}
}
