// Package encryption provides AES-256-CBC encryption with PKCS#7 padding
// and Base64 text at the boundary, compatible with the CryptLib format
// used by the Android and PHP clients.
//
// Two modes are offered. With an explicit IV the caller supplies the IV
// string on both sides. With a random IV the library generates one per
// message and carries it inside the Base64 envelope (see Envelope).
//
// Keys are derived from passphrases through a keymaterial.Deriver; the
// default reproduces the CryptLib hex-digest scheme.
//
// CBC ciphertext here is not authenticated. Decrypting tampered input
// usually fails with BAD_PADDING or UNSUPPORTED_ENCODING, but a modified
// ciphertext can also decrypt to altered plaintext without error.
//
// # Usage
//
//	svc := encryption.NewService()
//	ct, err := svc.EncryptWithIV("this is my plain text", "simplekey", "1234123412341234")
//	pt, err := svc.DecryptWithIV(ct, "simplekey", "1234123412341234")
//
//	enc, err := encryption.New("my-secret-passphrase")
//	ct, err = enc.Encrypt(plaintext)
//	pt, err = enc.Decrypt(ct)
package encryption
