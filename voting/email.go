package voting

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmailRule accepts addresses of a single institutional domain.
type EmailRule struct {
	Domain string // suffix including "@", e.g. "@udd.cl"
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate expects a normalized address.
func (r EmailRule) Validate(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if r.Domain != "" && !strings.HasSuffix(email, strings.ToLower(r.Domain)) {
		return fmt.Errorf("%w: only %s addresses are allowed", ErrValidation, r.Domain)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: malformed email %q", ErrValidation, email)
	}
	return nil
}
