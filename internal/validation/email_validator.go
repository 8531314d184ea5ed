package validation

import (
	"github.com/go-playground/validator/v10"
)

// EmailValidator checks address syntax with the validator package's email rule.
// It does not resolve domains.
type EmailValidator struct {
	validate *validator.Validate
}

// NewEmailValidator creates a new email validator
func NewEmailValidator() *EmailValidator {
	return &EmailValidator{validate: validator.New()}
}

// IsValid reports whether email is a syntactically valid address
func (v *EmailValidator) IsValid(email string) bool {
	return v.validate.Var(email, "required,email") == nil
}
