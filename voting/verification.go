package voting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Pierocul/DIDAWARDS/logging"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	codeLeadingDigits = "123456789"
	codeDigits        = "0123456789"
)

// CodeMessage is what gets emailed to a user proving ownership of To.
type CodeMessage struct {
	To          string
	Code        string
	DisplayName string
}

type Mailer interface {
	SendCode(ctx context.Context, msg CodeMessage) error
}

type challenge struct {
	email    string
	code     string
	issuedAt time.Time
}

// Verification holds the single one-time code of a session. Codes never
// expire and attempts are not limited. Every Issue and Reset bumps seq, so
// a send that returns after a newer one started never installs its code.
type Verification struct {
	mu        sync.Mutex
	mailer    Mailer
	generate  func() (string, error)
	seq       uint64
	challenge *challenge
}

func NewVerification(mailer Mailer) *Verification {
	return &Verification{mailer: mailer, generate: GenerateCode}
}

// GenerateCode returns a uniformly distributed code in 100000-999999.
func GenerateCode() (string, error) {
	head, err := gonanoid.Generate(codeLeadingDigits, 1)
	if err != nil {
		return "", err
	}
	tail, err := gonanoid.Generate(codeDigits, 5)
	if err != nil {
		return "", err
	}
	return head + tail, nil
}

// Issue replaces the current challenge with a fresh code for email and
// mails it. A failed delivery leaves no challenge behind, and neither does
// a delivery overtaken by a later Issue or Reset.
func (v *Verification) Issue(ctx context.Context, email, displayName string) (string, error) {
	if v.mailer == nil {
		return "", ErrNotConfigured
	}
	code, err := v.generate()
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}

	v.mu.Lock()
	v.seq++
	seq := v.seq
	v.challenge = nil
	v.mu.Unlock()

	if err := v.mailer.SendCode(ctx, CodeMessage{To: email, Code: code, DisplayName: displayName}); err != nil {
		logging.Log.Errorf("SESSION: failed to deliver code to %s: %v", email, err)
		return "", fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seq != seq {
		logging.Log.Warnf("SESSION: discarding code delivered to %s, a newer challenge exists", email)
		return "", fmt.Errorf("%w: verification was restarted", ErrInvalidState)
	}
	v.challenge = &challenge{email: email, code: code, issuedAt: time.Now().UTC()}
	return code, nil
}

// Verify checks that the active challenge was issued to email and carries
// code. The challenge survives both outcomes.
func (v *Verification) Verify(email, code string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.challenge == nil || code == "" || email == "" {
		return false
	}
	return v.challenge.email == email && code == v.challenge.code
}

func (v *Verification) Code() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.challenge == nil {
		return ""
	}
	return v.challenge.code
}

func (v *Verification) Email() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.challenge == nil {
		return ""
	}
	return v.challenge.email
}

func (v *Verification) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	v.challenge = nil
}
