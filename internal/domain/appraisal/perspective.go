package appraisal

import "fmt"

// Perspective identifies whose scores a rating operation touches. Each
// perspective owns one score column, one comment column and one stage of
// the review chain; keeping the mapping here avoids the same three-way
// switch at every call site.
type Perspective string

const (
	PerspectiveSelf      Perspective = "self"
	PerspectiveManager   Perspective = "manager"
	PerspectiveCommittee Perspective = "committee"
)

func ParsePerspective(value string) (Perspective, error) {
	switch Perspective(value) {
	case PerspectiveSelf, PerspectiveManager, PerspectiveCommittee:
		return Perspective(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPerspective, value)
}

// ReviewingStatus is the appraisal status during which this perspective
// may edit ratings. Status is the sole authorization signal for edits.
func (p Perspective) ReviewingStatus() string {
	switch p {
	case PerspectiveSelf:
		return StatusSelfAssessment
	case PerspectiveManager:
		return StatusManagerReview
	case PerspectiveCommittee:
		return StatusCommitteeReview
	}
	return ""
}

func (p Perspective) scoreColumn() string {
	switch p {
	case PerspectiveSelf:
		return "self_score"
	case PerspectiveManager:
		return "manager_score"
	case PerspectiveCommittee:
		return "committee_score"
	}
	return ""
}

func (p Perspective) commentColumn() string {
	switch p {
	case PerspectiveSelf:
		return "self_comment"
	case PerspectiveManager:
		return "manager_comment"
	case PerspectiveCommittee:
		return "committee_comment"
	}
	return ""
}

// Value returns this perspective's score from a rating row.
func (p Perspective) Value(r Rating) *int {
	switch p {
	case PerspectiveSelf:
		return r.SelfScore
	case PerspectiveManager:
		return r.ManagerScore
	case PerspectiveCommittee:
		return r.CommitteeScore
	}
	return nil
}
