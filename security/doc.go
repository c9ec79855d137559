// Package security holds the TLS settings used when the encryption API is
// served over HTTPS.
//
//	cfg := security.TLSConfig{
//	    CertFile:     "/etc/cryptlib/tls.crt",
//	    KeyFile:      "/etc/cryptlib/tls.key",
//	    ClientCAFile: "/etc/cryptlib/clients-ca.pem", // optional, enables mTLS
//	}
//
//	tlsConfig, err := cfg.Build()
package security
