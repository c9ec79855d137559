package encryption

import (
	apperrors "github.com/kbukum/cryptlib/errors"
)

// PKCS7Pad returns data followed by PKCS#7 padding to a multiple of blockSize.
// A full block of padding is added when data is already aligned.
func PKCS7Pad(data []byte, blockSize int) []byte {
	pad := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+pad)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(pad)
	}
	return out
}

// PKCS7Unpad validates and strips PKCS#7 padding.
func PKCS7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, apperrors.MalformedCiphertext("length is not a multiple of the block size").
			WithDetail("length", len(data))
	}
	pad := int(data[len(data)-1])
	if pad == 0 || pad > blockSize {
		return nil, apperrors.BadPadding()
	}
	for _, b := range data[len(data)-pad:] {
		if int(b) != pad {
			return nil, apperrors.BadPadding()
		}
	}
	return data[:len(data)-pad], nil
}
