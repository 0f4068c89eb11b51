package pets

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("pet not found")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("pet was modified by another request")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrStorage       = errors.New("storage failure")
)
