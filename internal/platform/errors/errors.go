package apperrors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrUnknownVariant    = errors.New("unknown variant")
	ErrInconsistentState = errors.New("inconsistent session state")
)
