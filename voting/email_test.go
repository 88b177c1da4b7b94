package voting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailRule(t *testing.T) {
	rule := EmailRule{Domain: testDomain}

	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"institutional address", "ana@udd.cl", true},
		{"subdomain-free dotted local part", "ana.perez@udd.cl", true},
		{"empty", "", false},
		{"other domain", "ana@gmail.com", false},
		{"domain lookalike", "ana@udd.cl.com", false},
		{"missing local part", "@udd.cl", false},
		{"inner whitespace", "an a@udd.cl", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.Validate(tt.email)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	assert.Equal(t, "ana@udd.cl", NormalizeEmail("  ANA@UDD.cl "))
}
