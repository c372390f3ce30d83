package errors

import "errors"

var (
	ErrLabelNotFound    = errors.New("label not found")
	ErrLabelNameTaken   = errors.New("label name already exists")
	ErrInvalidRequest   = errors.New("invalid label request")
	ErrStoreUnavailable = errors.New("label store unavailable")
)
