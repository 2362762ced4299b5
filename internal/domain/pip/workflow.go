package pip

const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusReview   = "review"
	StatusExtended = "extended"
	StatusSuccess  = "success"
	StatusFailure  = "failure"

	GoalStatusPending     = "pending"
	GoalStatusInProgress  = "in_progress"
	GoalStatusAchieved    = "achieved"
	GoalStatusNotAchieved = "not_achieved"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CanActivate: draft is the only pre-activation state.
func CanActivate(status string) bool {
	return status == StatusDraft
}

func CanStartReview(status string) bool {
	return status == StatusActive
}

// CanExtend: extension is reachable from active or review only. Unlike
// probation there is no extension cap.
func CanExtend(status string) bool {
	return status == StatusActive || status == StatusReview
}

// CanComplete: a terminal outcome may be recorded from any running
// state.
func CanComplete(status string) bool {
	switch status {
	case StatusActive, StatusReview, StatusExtended:
		return true
	}
	return false
}

// Terminal reports whether no further transitions exist.
func Terminal(status string) bool {
	return status == StatusSuccess || status == StatusFailure
}
