package appraisal

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrStaleTransition    = errors.New("appraisal changed since read, reload and retry")
	ErrCycleInUse         = errors.New("cycle has appraisals and cannot be deleted")
	ErrTemplateInUse      = errors.New("template has appraisals and cannot be deleted")
	ErrStageLocked        = errors.New("ratings are locked outside the reviewing stage")
	ErrInvalidRating      = errors.New("rating value must be between 0 and 5")
	ErrInvalidPerspective = errors.New("perspective must be self, manager or committee")
)
