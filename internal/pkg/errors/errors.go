package errors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalid       = errors.New("invalid")
	ErrConflict      = errors.New("conflict")
	ErrTooMany       = errors.New("too many requests")
	ErrInternal      = errors.New("internal")
	ErrInvalidFile   = errors.New("invalid file")
	ErrFileTooLarge  = errors.New("file too large")
	ErrUnprocessable = errors.New("documents could not be processed")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUnprocessable(err error) bool {
	return errors.Is(err, ErrUnprocessable)
}
