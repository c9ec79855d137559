package keymaterial

import (
	"crypto/sha256"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"

	apperrors "github.com/kbukum/cryptlib/errors"
)

// Deriver turns a passphrase into an AES-256 key.
// Implementations must be deterministic for a given configuration.
type Deriver interface {
	// DeriveKey returns the key for passphrase.
	DeriveKey(passphrase string) (Key, error)

	// Name identifies the derivation scheme.
	Name() string
}

// Deriver names accepted by NewDeriver.
const (
	DeriverHexSHA256    = "hex-sha256"
	DeriverPBKDF2SHA256 = "pbkdf2-sha256"
	DeriverArgon2id     = "argon2id"
)

// MinSaltLength is the shortest salt accepted by the salted derivers.
const MinSaltLength = 8

// SupportedDerivers lists the names accepted by NewDeriver.
func SupportedDerivers() []string {
	return []string{DeriverHexSHA256, DeriverPBKDF2SHA256, DeriverArgon2id}
}

// --- Hex digest (CryptLib compatible) ---

// HexDigestDeriver implements Deriver with DeriveKey.
type HexDigestDeriver struct{}

func (HexDigestDeriver) DeriveKey(passphrase string) (Key, error) { return DeriveKey(passphrase) }

func (HexDigestDeriver) Name() string { return DeriverHexSHA256 }

// --- PBKDF2 ---

// PBKDF2Deriver implements Deriver using PBKDF2-HMAC-SHA256.
type PBKDF2Deriver struct {
	salt       []byte
	iterations int
}

// PBKDF2Option configures the PBKDF2 deriver.
type PBKDF2Option func(*PBKDF2Deriver)

// WithIterations sets the PBKDF2 iteration count (default: 600000).
func WithIterations(n int) PBKDF2Option {
	return func(d *PBKDF2Deriver) {
		if n > 0 {
			d.iterations = n
		}
	}
}

// NewPBKDF2Deriver creates a PBKDF2-HMAC-SHA256 deriver bound to salt.
func NewPBKDF2Deriver(salt []byte, opts ...PBKDF2Option) (*PBKDF2Deriver, error) {
	if len(salt) < MinSaltLength {
		return nil, apperrors.InvalidInput("salt", fmt.Sprintf("must be at least %d bytes", MinSaltLength))
	}
	d := &PBKDF2Deriver{
		salt:       append([]byte(nil), salt...),
		iterations: 600000,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *PBKDF2Deriver) DeriveKey(passphrase string) (Key, error) {
	if !utf8.ValidString(passphrase) {
		return Key{}, apperrors.UnsupportedEncoding("passphrase")
	}
	return KeyFromBytes(pbkdf2.Key([]byte(passphrase), d.salt, d.iterations, KeySize, sha256.New))
}

func (d *PBKDF2Deriver) Name() string { return DeriverPBKDF2SHA256 }

// --- Argon2id ---

// Argon2Deriver implements Deriver using argon2id.
type Argon2Deriver struct {
	salt    []byte
	time    uint32
	memory  uint32
	threads uint8
}

// Argon2Option configures the argon2id deriver.
type Argon2Option func(*Argon2Deriver)

// WithArgon2Time sets the number of passes (default: 1).
func WithArgon2Time(t uint32) Argon2Option {
	return func(d *Argon2Deriver) { d.time = t }
}

// WithArgon2Memory sets the memory usage in KiB (default: 64*1024 = 64MB).
func WithArgon2Memory(m uint32) Argon2Option {
	return func(d *Argon2Deriver) { d.memory = m }
}

// WithArgon2Threads sets the parallelism (default: 4).
func WithArgon2Threads(t uint8) Argon2Option {
	return func(d *Argon2Deriver) { d.threads = t }
}

// NewArgon2Deriver creates an argon2id deriver bound to salt.
// Defaults follow OWASP recommendations: time=1, memory=64MB, threads=4.
func NewArgon2Deriver(salt []byte, opts ...Argon2Option) (*Argon2Deriver, error) {
	if len(salt) < MinSaltLength {
		return nil, apperrors.InvalidInput("salt", fmt.Sprintf("must be at least %d bytes", MinSaltLength))
	}
	d := &Argon2Deriver{
		salt:    append([]byte(nil), salt...),
		time:    1,
		memory:  64 * 1024,
		threads: 4,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *Argon2Deriver) DeriveKey(passphrase string) (Key, error) {
	if !utf8.ValidString(passphrase) {
		return Key{}, apperrors.UnsupportedEncoding("passphrase")
	}
	return KeyFromBytes(argon2.IDKey([]byte(passphrase), d.salt, d.time, d.memory, d.threads, KeySize))
}

func (d *Argon2Deriver) Name() string { return DeriverArgon2id }

// --- Selection ---

// DeriverConfig selects and parameterises a Deriver by name.
type DeriverConfig struct {
	Name       string
	Salt       []byte
	Iterations int
}

// NewDeriver builds the Deriver named by cfg.Name. An empty name selects
// the hex-sha256 compatibility deriver.
func NewDeriver(cfg DeriverConfig) (Deriver, error) {
	switch cfg.Name {
	case "", DeriverHexSHA256:
		return HexDigestDeriver{}, nil
	case DeriverPBKDF2SHA256:
		return NewPBKDF2Deriver(cfg.Salt, WithIterations(cfg.Iterations))
	case DeriverArgon2id:
		return NewArgon2Deriver(cfg.Salt)
	default:
		return nil, apperrors.InvalidInput("kdf", fmt.Sprintf("unsupported key derivation %q", cfg.Name))
	}
}
