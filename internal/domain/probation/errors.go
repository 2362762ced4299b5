package probation

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrStaleTransition   = errors.New("probation changed since read, reload and retry")
	ErrExtensionLimit    = errors.New("probation extension limit reached")
)
