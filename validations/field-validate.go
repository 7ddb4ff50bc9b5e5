package validations

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// contactEmailPattern accepts local@domain.tld and nothing looser
var contactEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// BankCatalog is the read-only bank reference data used by the bank tag.
type BankCatalog interface {
	Contains(id string) bool
}

// NotBlank fails on strings that are empty after trimming whitespace
var NotBlank validator.Func = func(fieldLevel validator.FieldLevel) bool {
	return strings.TrimSpace(fieldLevel.Field().String()) != ""
}

// ContactEmail validation function
var ContactEmail validator.Func = func(fieldLevel validator.FieldLevel) bool {
	return IsContactEmail(fieldLevel.Field().String())
}

// IsContactEmail reports whether email looks like local@domain.tld
func IsContactEmail(email string) bool {
	return contactEmailPattern.MatchString(strings.TrimSpace(email))
}

// ValidBank checks the field against the bank catalog
func ValidBank(banks BankCatalog) validator.Func {
	return func(fieldLevel validator.FieldLevel) bool {
		if banks == nil {
			return false
		}
		return banks.Contains(fieldLevel.Field().String())
	}
}
