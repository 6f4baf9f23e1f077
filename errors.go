package locker

import "errors"

var (
	ErrValidation    = errors.New("locker: validation failed")
	ErrNotFound      = errors.New("locker: link not found")
	ErrInvalidKind   = errors.New("locker: invalid kind")
	ErrUnknownDriver = errors.New("locker: unknown storage driver")
	ErrLocked        = errors.New("locker: locked")
)

// ValidationError reports a required field missing on Add.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "locker: missing required field: " + e.Field
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
