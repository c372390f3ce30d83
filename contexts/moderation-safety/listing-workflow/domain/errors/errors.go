package errors

import "errors"

var (
	ErrRequestNotFound         = errors.New("listing request not found")
	ErrInvalidSection          = errors.New("unknown listing section")
	ErrEmptyFormData           = errors.New("form data must not be empty")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrNotRequestOwner         = errors.New("request belongs to another user")
	ErrInvalidCursor           = errors.New("invalid pagination cursor")
	ErrInvalidInput            = errors.New("invalid input")
	ErrStoreUnavailable        = errors.New("listing store unavailable")
)
