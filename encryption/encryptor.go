package encryption

import (
	"io"

	"github.com/kbukum/cryptlib/keymaterial"
	"github.com/kbukum/cryptlib/logger"
)

// Encryptor defines the interface for symmetric encryption and decryption
// under a fixed passphrase.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// Option configures the encryption service.
type Option func(*options)

type options struct {
	deriver  keymaterial.Deriver
	envelope Envelope
	log      *logger.Logger
	recorder Recorder
	random   io.Reader
}

// WithDeriver selects the passphrase-to-key derivation (default: hex-sha256).
func WithDeriver(d keymaterial.Deriver) Option {
	return func(o *options) { o.deriver = d }
}

// WithEnvelope selects the random-IV wire format (default: EnvelopeIVPrefix).
func WithEnvelope(e Envelope) Option {
	return func(o *options) { o.envelope = e }
}

// WithLogger sets the logger used for operation events.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithRandom overrides the entropy source used for random IVs.
func WithRandom(r io.Reader) Option {
	return func(o *options) { o.random = r }
}

// New creates an Encryptor bound to passphrase. It encrypts with a fresh
// random IV per message using the configured envelope.
func New(passphrase string, opts ...Option) (Encryptor, error) {
	svc := NewService(opts...)
	if err := checkUTF8("passphrase", passphrase); err != nil {
		return nil, err
	}
	return &passphraseEncryptor{svc: svc, passphrase: passphrase}, nil
}

type passphraseEncryptor struct {
	svc        *Service
	passphrase string
}

func (e *passphraseEncryptor) Encrypt(plaintext string) (string, error) {
	return e.svc.EncryptWithRandomIV(plaintext, e.passphrase)
}

func (e *passphraseEncryptor) Decrypt(ciphertext string) (string, error) {
	return e.svc.DecryptWithRandomIV(ciphertext, e.passphrase)
}
