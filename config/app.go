package config

import (
	"fmt"
	"time"

	"github.com/kbukum/cryptlib/encryption"
	"github.com/kbukum/cryptlib/keymaterial"
	"github.com/kbukum/cryptlib/observability"
	"github.com/kbukum/cryptlib/server"
	"github.com/kbukum/cryptlib/validation"
)

// PBKDF2 iteration bounds accepted from configuration.
const (
	minPBKDF2Iterations = 1000
	maxPBKDF2Iterations = 10_000_000
)

// AppConfig is the full configuration of the cryptlib CLI and HTTP host.
//
//	name: cryptlib
//	environment: production
//	logging:
//	  level: info
//	  format: json
//	crypto:
//	  envelope: iv-prefix
//	  kdf: hex-sha256
//	server:
//	  port: 8080
//	  rate_limit:
//	    requests_per_minute: 120
//	    path_prefix: /v1/
//	  concurrency:
//	    max_concurrent: 16
//	    path_prefix: /v1/
//	  tls:
//	    cert_file: /etc/cryptlib/tls.crt
//	    key_file: /etc/cryptlib/tls.key
//	telemetry:
//	  enabled: true
//	  endpoint: otel-collector:4318
//
// Every key can be overridden from the environment with the CRYPTLIB_
// prefix, e.g. CRYPTLIB_CRYPTO_KDF=argon2id.
type AppConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Crypto        CryptoConfig    `yaml:"crypto" mapstructure:"crypto"`
	Server        server.Config   `yaml:"server" mapstructure:"server"`
	Telemetry     TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// CryptoConfig selects the random-IV envelope and passphrase derivation.
type CryptoConfig struct {
	Envelope string `yaml:"envelope" mapstructure:"envelope" validate:"envelope"`
	KDF      string `yaml:"kdf" mapstructure:"kdf" validate:"kdf"`
	// Salt is required by the pbkdf2-sha256 and argon2id derivations.
	Salt string `yaml:"salt" mapstructure:"salt" validate:"utf8"`
	// Iterations applies to pbkdf2-sha256; 0 keeps the default.
	Iterations int `yaml:"iterations" mapstructure:"iterations" validate:"gte=0"`
}

// TelemetryConfig configures OTLP trace and metric export.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure bool   `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the trace sampling ratio (default: 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	// Interval is the metric export interval in seconds.
	Interval int `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
}

// ApplyDefaults fills unset fields.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()

	if c.Crypto.Envelope == "" {
		c.Crypto.Envelope = string(encryption.EnvelopeIVPrefix)
	}
	if c.Crypto.KDF == "" {
		c.Crypto.KDF = keymaterial.DeriverHexSHA256
	}
	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
	if c.Telemetry.Interval == 0 {
		c.Telemetry.Interval = 15
	}
}

// Validate checks the whole configuration. Call ApplyDefaults first.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}

	v := validation.New()
	if c.Crypto.KDF == keymaterial.DeriverHexSHA256 {
		v.Custom(c.Crypto.Salt == "", "crypto.salt", "is not used by hex-sha256; choose a salted kdf or remove it")
	} else {
		v.MinLength("crypto.salt", c.Crypto.Salt, keymaterial.MinSaltLength)
	}
	if c.Crypto.KDF == keymaterial.DeriverPBKDF2SHA256 && c.Crypto.Iterations != 0 {
		v.Range("crypto.iterations", c.Crypto.Iterations, minPBKDF2Iterations, maxPBKDF2Iterations)
	}
	if c.Telemetry.Enabled {
		v.Required("telemetry.endpoint", c.Telemetry.Endpoint)
		v.Range("telemetry.interval", c.Telemetry.Interval, 1, 3600)
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Deriver builds the configured passphrase derivation.
func (c *AppConfig) Deriver() (keymaterial.Deriver, error) {
	return keymaterial.NewDeriver(keymaterial.DeriverConfig{
		Name:       c.Crypto.KDF,
		Salt:       []byte(c.Crypto.Salt),
		Iterations: c.Crypto.Iterations,
	})
}

// Envelope returns the configured random-IV envelope.
func (c *AppConfig) Envelope() (encryption.Envelope, error) {
	return encryption.ParseEnvelope(c.Crypto.Envelope)
}

// ServiceOptions returns the encryption options for this configuration.
func (c *AppConfig) ServiceOptions() ([]encryption.Option, error) {
	d, err := c.Deriver()
	if err != nil {
		return nil, fmt.Errorf("crypto.kdf: %w", err)
	}
	env, err := c.Envelope()
	if err != nil {
		return nil, fmt.Errorf("crypto.envelope: %w", err)
	}
	return []encryption.Option{encryption.WithDeriver(d), encryption.WithEnvelope(env)}, nil
}

// TracerConfig returns the OTLP trace exporter settings.
func (c *AppConfig) TracerConfig() observability.TracerConfig {
	tc := observability.DefaultTracerConfig(c.Name)
	tc.Environment = c.Environment
	tc.Endpoint = c.Telemetry.Endpoint
	tc.Insecure = c.Telemetry.Insecure
	tc.SampleRate = c.Telemetry.SampleRate
	if c.Version != "" {
		tc.ServiceVersion = c.Version
	}
	return tc
}

// MeterConfig returns the OTLP metric exporter settings.
func (c *AppConfig) MeterConfig() observability.MeterConfig {
	mc := observability.DefaultMeterConfig(c.Name)
	mc.Environment = c.Environment
	mc.Endpoint = c.Telemetry.Endpoint
	mc.Insecure = c.Telemetry.Insecure
	mc.Interval = time.Duration(c.Telemetry.Interval) * time.Second
	if c.Version != "" {
		mc.ServiceVersion = c.Version
	}
	return mc
}
