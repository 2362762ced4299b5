package appraisal

import "fmt"

type Action string

const (
	ActionStartSelfAssessment   Action = "start_self_assessment"
	ActionSubmitSelfAssessment  Action = "submit_self_assessment"
	ActionSubmitManagerReview   Action = "submit_manager_review"
	ActionSubmitCommitteeReview Action = "submit_committee_review"
	ActionApprove               Action = "approve"
	ActionCommunicate           Action = "communicate"
	ActionAcknowledge           Action = "acknowledge"
)

type transition struct {
	from string
	to   string
}

// The forward chain. Each status has exactly one action that advances
// it; rejection is handled separately because it fans in from every
// review stage.
var transitions = map[Action]transition{
	ActionStartSelfAssessment:   {from: StatusDraft, to: StatusSelfAssessment},
	ActionSubmitSelfAssessment:  {from: StatusSelfAssessment, to: StatusManagerReview},
	ActionSubmitManagerReview:   {from: StatusManagerReview, to: StatusCommitteeReview},
	ActionSubmitCommitteeReview: {from: StatusCommitteeReview, to: StatusPendingApproval},
	ActionApprove:               {from: StatusPendingApproval, to: StatusApproved},
	ActionCommunicate:           {from: StatusApproved, to: StatusCommunicated},
	ActionAcknowledge:           {from: StatusCommunicated, to: StatusCompleted},
}

// NextStatus validates that action may run against the current status
// and returns the status it advances to.
func NextStatus(current string, action Action) (string, error) {
	t, ok := transitions[action]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
	if t.from != current {
		return "", fmt.Errorf("%w: %s requires status %s, appraisal is %s", ErrInvalidTransition, action, t.from, current)
	}
	return t.to, nil
}

// CanReject reports whether a reviewer may record a negative decision
// from the given status. Rejected is terminal.
func CanReject(current string) bool {
	switch current {
	case StatusSelfAssessment, StatusManagerReview, StatusCommitteeReview, StatusPendingApproval:
		return true
	}
	return false
}
