package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound        = errors.New("not found")
	ErrNotAmbient      = errors.New("step is not ambient-sensitive")
	ErrInvalidDocument = errors.New("invalid document")
	ErrUnavailable     = errors.New("collaborator unavailable")
)
