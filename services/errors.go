package services

import (
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Error kinds. Handlers match them with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrQuotaExceeded     = errors.New("upload quota exceeded")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("forbidden")
	ErrSellerSuspended   = errors.New("seller suspended")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
)

// Error carries a user-facing message and unwraps to its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

func invalid(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}

// lookupErr turns gorm's missing-row error into ErrNotFound.
func lookupErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newError(ErrNotFound, "%s not found", what)
	}
	return errors.Wrapf(err, "load %s", what)
}
