package voting

import (
	"errors"
	"fmt"

	"github.com/Pierocul/DIDAWARDS/storage"
)

var (
	ErrValidation    = errors.New("invalid input")
	ErrInvalidCode   = errors.New("incorrect verification code")
	ErrAlreadyVoted  = errors.New("already voted")
	ErrDelivery      = errors.New("verification email could not be delivered")
	ErrStore         = errors.New("storage unavailable")
	ErrPermission    = errors.New("storage denied the operation")
	ErrUserNotFound  = errors.New("user not found, contact an administrator")
	ErrInvalidState  = errors.New("operation not allowed in the current session state")
	ErrBusy          = errors.New("a previous request is still in progress")
	ErrNotConfigured = errors.New("configuration required")
	ErrWalkExhausted = errors.New("no categories left")
)

// storeError tags a storage failure as ErrPermission or ErrStore.
func storeError(op string, err error) error {
	if errors.Is(err, storage.ErrPermissionDenied) {
		return fmt.Errorf("%w: %s: %v", ErrPermission, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrStore, op, err)
}
