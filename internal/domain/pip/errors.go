package pip

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrStaleTransition   = errors.New("plan changed since read, reload and retry")
	ErrInvalidOutcome    = errors.New("outcome must be success or failure")
	ErrInvalidRating     = errors.New("check-in rating must be between 1 and 5")
)
