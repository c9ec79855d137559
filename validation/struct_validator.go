package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/cryptlib/encryption"
	"github.com/kbukum/cryptlib/errors"
	"github.com/kbukum/cryptlib/keymaterial"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their json (or mapstructure) name.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "mapstructure"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					break
				}
				if name != "" {
					return name
				}
			}
			return toSnakeCase(fld.Name)
		})

		_ = validate.RegisterValidation("utf8", func(fl validator.FieldLevel) bool {
			return utf8.ValidString(fl.Field().String())
		})
		_ = validate.RegisterValidation("envelope", func(fl validator.FieldLevel) bool {
			_, err := encryption.ParseEnvelope(fl.Field().String())
			return err == nil
		})
		_ = validate.RegisterValidation("kdf", func(fl validator.FieldLevel) bool {
			name := fl.Field().String()
			if name == "" {
				return true
			}
			for _, s := range keymaterial.SupportedDerivers() {
				if s == name {
					return true
				}
			}
			return false
		})
	})
	return validate
}

// Validate validates a struct using struct tags such as
// `validate:"required,utf8,max=1048576"`.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return errors.Validation("validation failed").WithCause(err)
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fieldPath(e),
			Message: formatValidationError(e),
		})
	}

	appErr := newValidationError(fieldErrors)
	if len(validationErrors) == 1 && validationErrors[0].Tag() == "utf8" {
		// A lone encoding failure keeps its dedicated code.
		return errors.UnsupportedEncoding(fieldErrors[0].Field).WithDetails(appErr.Details)
	}
	return appErr
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "hostname_port":
		return "must be a host:port address"
	case "utf8":
		return "must be valid UTF-8"
	case "envelope":
		return "must be one of: " + strings.Join(encryption.SupportedEnvelopes(), ", ")
	case "kdf":
		return "must be one of: " + strings.Join(keymaterial.SupportedDerivers(), ", ")
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
