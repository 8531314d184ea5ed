package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailValidator_IsValid(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.com", true},
		{"participant.one+survey@example.co.uk", true},
		{"not-an-email", false},
		{"", false},
		{"@example.com", false},
		{"user@", false},
		{"two@@example.com", false},
		{"spaces in@example.com", false},
	}

	validator := NewEmailValidator()
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, validator.IsValid(tt.email))
		})
	}
}
