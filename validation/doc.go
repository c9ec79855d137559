// Package validation validates request and configuration structs.
//
// Struct tag validation uses go-playground/validator with three extra tags:
// utf8 (well-formed UTF-8), envelope (a known random-IV envelope) and kdf
// (a known key derivation). Failures become AppErrors listing every field.
//
//	type EncryptRequest struct {
//	    Plaintext  string `json:"plaintext" validate:"utf8"`
//	    Passphrase string `json:"passphrase" validate:"required,utf8"`
//	}
//	err := validation.Validate(req)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("passphrase", p).UTF8("passphrase", p)
//	err := v.Validate()
package validation
