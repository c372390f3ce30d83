package errors

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidInput        = errors.New("invalid reputation input")
	ErrUnknownCounterField = errors.New("unknown activity counter field")
	ErrInvalidCursor       = errors.New("invalid leaderboard cursor")
	ErrStoreUnavailable    = errors.New("reputation store unavailable")
)
