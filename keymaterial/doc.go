// Package keymaterial turns caller-supplied text into fixed-size AES-256
// key and IV buffers.
//
// The default key path hashes the passphrase with SHA-256, renders the
// digest as lowercase hex and keeps the first 32 characters of that hex
// string as the key. This matches the CryptLib wire format used by the
// Android and PHP clients. It is a compatibility scheme, not a KDF: new
// deployments should select PBKDF2Deriver or Argon2Deriver instead.
//
// IV strings are copied byte for byte into a zero-filled 16-byte buffer,
// truncated when longer.
//
// # Usage
//
//	key, err := keymaterial.DeriveKey("simplekey")
//	iv, err := keymaterial.NormalizeIV("1234123412341234")
//	hexIV, err := keymaterial.GenerateRandomIV()
package keymaterial
