package encryption

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"time"
	"unicode/utf8"

	apperrors "github.com/kbukum/cryptlib/errors"
	"github.com/kbukum/cryptlib/keymaterial"
	"github.com/kbukum/cryptlib/logger"
)

// Operation names reported to the logger and Recorder.
const (
	OpEncryptWithIV       = "encrypt_with_iv"
	OpDecryptWithIV       = "decrypt_with_iv"
	OpEncryptWithRandomIV = "encrypt_with_random_iv"
	OpDecryptWithRandomIV = "decrypt_with_random_iv"
)

// Recorder receives per-operation outcomes. status is "ok" or "error";
// code is the AppError code of a failure.
type Recorder interface {
	RecordOperation(op, status string, d time.Duration)
	RecordError(code, op string)
}

// Service encrypts and decrypts text with AES-256-CBC.
//
// A Service holds only immutable configuration. Key and IV buffers are
// derived on every call and never shared, so one Service may be used from
// many goroutines.
type Service struct {
	deriver  keymaterial.Deriver
	envelope Envelope
	log      *logger.Logger
	recorder Recorder
	random   io.Reader
}

// NewService creates an encryption service.
func NewService(opts ...Option) *Service {
	o := &options{
		deriver:  keymaterial.HexDigestDeriver{},
		envelope: EnvelopeIVPrefix,
		random:   rand.Reader,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}

	return &Service{
		deriver:  o.deriver,
		envelope: o.envelope,
		log:      o.log.WithComponent("encryption"),
		recorder: o.recorder,
		random:   o.random,
	}
}

// Envelope returns the configured random-IV wire format.
func (s *Service) Envelope() Envelope { return s.envelope }

// KDF returns the name of the configured key derivation.
func (s *Service) KDF() string { return s.deriver.Name() }

// EncryptWithIV encrypts plaintext under the key derived from passphrase
// and the IV normalized from iv, returning standard Base64.
func (s *Service) EncryptWithIV(plaintext, passphrase, iv string) (out string, err error) {
	defer s.observe(OpEncryptWithIV, time.Now(), &err)

	if err := checkUTF8("plaintext", plaintext); err != nil {
		return "", err
	}
	key, err := s.deriver.DeriveKey(passphrase)
	if err != nil {
		return "", err
	}
	ivBuf, err := keymaterial.NormalizeIV(iv)
	if err != nil {
		return "", err
	}

	ct, err := EncryptCBC([]byte(plaintext), key, ivBuf)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

// DecryptWithIV reverses EncryptWithIV.
func (s *Service) DecryptWithIV(ciphertext, passphrase, iv string) (out string, err error) {
	defer s.observe(OpDecryptWithIV, time.Now(), &err)

	data, err := decodeBase64(ciphertext)
	if err != nil {
		return "", err
	}
	key, err := s.deriver.DeriveKey(passphrase)
	if err != nil {
		return "", err
	}
	ivBuf, err := keymaterial.NormalizeIV(iv)
	if err != nil {
		return "", err
	}

	pt, err := DecryptCBC(data, key, ivBuf)
	if err != nil {
		return "", err
	}
	return toText(pt)
}

// EncryptWithRandomIV encrypts plaintext under a freshly generated IV and
// returns the Base64 envelope. Encrypting the same input twice yields
// different output.
func (s *Service) EncryptWithRandomIV(plaintext, passphrase string) (out string, err error) {
	defer s.observe(OpEncryptWithRandomIV, time.Now(), &err)

	if err := checkUTF8("plaintext", plaintext); err != nil {
		return "", err
	}
	key, err := s.deriver.DeriveKey(passphrase)
	if err != nil {
		return "", err
	}

	sealed, err := s.envelope.seal([]byte(plaintext), key, s.random)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptWithRandomIV reverses EncryptWithRandomIV. The envelope must
// match the one used to encrypt.
func (s *Service) DecryptWithRandomIV(ciphertext, passphrase string) (out string, err error) {
	defer s.observe(OpDecryptWithRandomIV, time.Now(), &err)

	data, err := decodeBase64(ciphertext)
	if err != nil {
		return "", err
	}
	key, err := s.deriver.DeriveKey(passphrase)
	if err != nil {
		return "", err
	}

	pt, err := s.envelope.open(data, key)
	if err != nil {
		return "", err
	}
	return toText(pt)
}

func (s *Service) observe(op string, start time.Time, errp *error) {
	d := time.Since(start)
	fields := logger.DurationFields(op, d)
	fields[logger.FieldEnvelope] = string(s.envelope)
	fields[logger.FieldKDF] = s.deriver.Name()

	if err := *errp; err != nil {
		code := string(apperrors.CodeOf(err))
		fields[logger.FieldCode] = code
		s.log.Warn("crypto operation failed", fields)
		if s.recorder != nil {
			s.recorder.RecordOperation(op, "error", d)
			s.recorder.RecordError(code, op)
		}
		return
	}

	s.log.Debug("crypto operation completed", fields)
	if s.recorder != nil {
		s.recorder.RecordOperation(op, "ok", d)
	}
}

// decodeBase64 accepts standard padded Base64. Line breaks are ignored, so
// output wrapped at 76 columns by Android's Base64.DEFAULT decodes as-is.
func decodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, apperrors.MalformedCiphertext("invalid base64").WithCause(err)
	}
	return data, nil
}

func toText(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", apperrors.UnsupportedEncoding("plaintext")
	}
	return string(b), nil
}

func checkUTF8(field, s string) error {
	if !utf8.ValidString(s) {
		return apperrors.UnsupportedEncoding(field)
	}
	return nil
}
