// Package validate holds the pure input checks performed before any mutation
// is attempted. Shape checks mirror what external callers already depend on:
// phones may carry an optional leading + and are never normalized.
package validate

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	telefonoRe = regexp.MustCompile(`^\+?\d{10,15}$`)

	valid = validator.New()
)

// Email reports whether s is a well-formed address.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// EmailOpcional treats the empty string as valid; used where the field is
// optional on the caso.
func EmailOpcional(s string) bool {
	return s == "" || Email(s)
}

// Telefono reports whether s is a plausible phone number.
func Telefono(s string) bool {
	return telefonoRe.MatchString(s)
}

// Estado reports whether estado belongs to the configured status set.
func Estado(estado string, permitidos []string) bool {
	for _, p := range permitidos {
		if estado == p {
			return true
		}
	}
	return false
}

// Struct runs validator.v10 over a request payload and returns a per-field
// error map, or nil when the payload is valid.
func Struct(v interface{}) map[string]string {
	err := valid.Struct(v)
	if err == nil {
		return nil
	}
	errores := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			errores[fe.Field()] = fe.Tag()
		}
		return errores
	}
	errores["_"] = err.Error()
	return errores
}
