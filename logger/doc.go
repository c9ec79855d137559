// Package logger provides structured logging on top of zerolog.
//
// Loggers are created from a Config, tagged per component, and accept
// field maps built with Fields or DurationFields. Passphrases, IVs, keys
// and plaintext must never be passed as field values.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.New(&cfg, "cryptlib").WithComponent("server")
//	log.Info("listening", logger.Fields("addr", addr))
package logger
