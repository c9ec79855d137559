package encryption

import (
	"crypto/aes"
	"crypto/cipher"

	apperrors "github.com/kbukum/cryptlib/errors"
	"github.com/kbukum/cryptlib/keymaterial"
)

// BlockSize is the AES block size in bytes.
const BlockSize = aes.BlockSize

// EncryptCBC encrypts plaintext with AES-256-CBC and PKCS#7 padding.
func EncryptCBC(plaintext []byte, key keymaterial.Key, iv keymaterial.IV) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, apperrors.InvalidKeyMaterial(len(key), keymaterial.KeySize).WithCause(err)
	}

	padded := PKCS7Pad(plaintext, BlockSize)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(ct, padded)
	return ct, nil
}

// DecryptCBC decrypts AES-256-CBC ciphertext and removes PKCS#7 padding.
func DecryptCBC(ciphertext []byte, key keymaterial.Key, iv keymaterial.IV) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return nil, apperrors.MalformedCiphertext("length is not a multiple of the block size").
			WithDetail("length", len(ciphertext))
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, apperrors.InvalidKeyMaterial(len(key), keymaterial.KeySize).WithCause(err)
	}

	pt := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv[:]).CryptBlocks(pt, ciphertext)
	return PKCS7Unpad(pt, BlockSize)
}

// EncryptBlocks is EncryptCBC for callers holding raw key and IV slices.
func EncryptBlocks(plaintext, key, iv []byte) ([]byte, error) {
	k, v, err := toKeyMaterial(key, iv)
	if err != nil {
		return nil, err
	}
	return EncryptCBC(plaintext, k, v)
}

// DecryptBlocks is DecryptCBC for callers holding raw key and IV slices.
func DecryptBlocks(ciphertext, key, iv []byte) ([]byte, error) {
	k, v, err := toKeyMaterial(key, iv)
	if err != nil {
		return nil, err
	}
	return DecryptCBC(ciphertext, k, v)
}

func toKeyMaterial(key, iv []byte) (keymaterial.Key, keymaterial.IV, error) {
	k, err := keymaterial.KeyFromBytes(key)
	if err != nil {
		return keymaterial.Key{}, keymaterial.IV{}, err
	}
	v, err := keymaterial.IVFromBytes(iv)
	if err != nil {
		return keymaterial.Key{}, keymaterial.IV{}, err
	}
	return k, v, nil
}
