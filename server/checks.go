package server

import (
	"context"
	"encoding/base64"
	"io"

	"github.com/kbukum/cryptlib/encryption"
	"github.com/kbukum/cryptlib/keymaterial"
	"github.com/kbukum/cryptlib/observability"
)

// Known-answer vector for the cipher self-test.
const (
	selfTestPassphrase = "simplekey"
	selfTestIV         = "1234123412341234"
	selfTestPlaintext  = "this is my plain text"
	selfTestCiphertext = "rKzNsa7Qzk9TExJ6aHg49tGDiritTUJ08RMPm48S0o4="
)

// CipherCheck runs AES-256-CBC over a fixed vector in both directions.
func CipherCheck() observability.HealthChecker {
	return observability.HealthCheckFunc(func(context.Context) observability.Health {
		h := observability.Health{Name: "cipher", Status: observability.HealthStatusUp}

		key, err := keymaterial.DeriveKey(selfTestPassphrase)
		if err != nil {
			return down(h, err.Error())
		}
		iv, err := keymaterial.NormalizeIV(selfTestIV)
		if err != nil {
			return down(h, err.Error())
		}

		ct, err := encryption.EncryptCBC([]byte(selfTestPlaintext), key, iv)
		if err != nil {
			return down(h, err.Error())
		}
		if base64.StdEncoding.EncodeToString(ct) != selfTestCiphertext {
			return down(h, "known-answer mismatch")
		}
		pt, err := encryption.DecryptCBC(ct, key, iv)
		if err != nil || string(pt) != selfTestPlaintext {
			return down(h, "round trip mismatch")
		}
		return h
	})
}

// EntropyCheck reads one IV from r. A nil r means crypto/rand.
func EntropyCheck(r io.Reader) observability.HealthChecker {
	return observability.HealthCheckFunc(func(context.Context) observability.Health {
		h := observability.Health{Name: "entropy", Status: observability.HealthStatusUp}
		if _, err := keymaterial.RandomIV(r); err != nil {
			return down(h, err.Error())
		}
		return h
	})
}

func down(h observability.Health, msg string) observability.Health {
	h.Status = observability.HealthStatusDown
	h.Message = msg
	return h
}
