package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IsHTTPURL reports whether raw is an absolute http or https URL with a host.
func IsHTTPURL(raw string) bool {
	return validate.Var(raw, "required,http_url") == nil
}

func IsEmail(raw string) bool {
	return validate.Var(raw, "required,email") == nil
}

// NormalizeURL prefixes scheme-less values such as "linkedin.com/in/alice"
// with https://. Values that already carry a scheme are left for validation.
func NormalizeURL(s *string) *string {
	if s == nil || strings.Contains(*s, "://") {
		return s
	}
	withScheme := "https://" + *s
	return &withScheme
}
