package appraisal

import (
	"errors"
	"testing"
)

func TestNextStatusForwardChain(t *testing.T) {
	steps := []struct {
		from   string
		action Action
		to     string
	}{
		{StatusDraft, ActionStartSelfAssessment, StatusSelfAssessment},
		{StatusSelfAssessment, ActionSubmitSelfAssessment, StatusManagerReview},
		{StatusManagerReview, ActionSubmitManagerReview, StatusCommitteeReview},
		{StatusCommitteeReview, ActionSubmitCommitteeReview, StatusPendingApproval},
		{StatusPendingApproval, ActionApprove, StatusApproved},
		{StatusApproved, ActionCommunicate, StatusCommunicated},
		{StatusCommunicated, ActionAcknowledge, StatusCompleted},
	}

	for _, step := range steps {
		got, err := NextStatus(step.from, step.action)
		if err != nil {
			t.Fatalf("%s from %s: unexpected error %v", step.action, step.from, err)
		}
		if got != step.to {
			t.Fatalf("%s from %s: expected %s, got %s", step.action, step.from, step.to, got)
		}
	}
}

func TestNextStatusRejectsWrongStage(t *testing.T) {
	cases := []struct {
		from   string
		action Action
	}{
		{StatusDraft, ActionSubmitCommitteeReview},
		{StatusDraft, ActionApprove},
		{StatusSelfAssessment, ActionStartSelfAssessment},
		{StatusManagerReview, ActionSubmitSelfAssessment},
		{StatusApproved, ActionApprove},
		{StatusCompleted, ActionAcknowledge},
		{StatusRejected, ActionStartSelfAssessment},
	}

	for _, tc := range cases {
		if _, err := NextStatus(tc.from, tc.action); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s from %s: expected ErrInvalidTransition, got %v", tc.action, tc.from, err)
		}
	}
}

func TestNextStatusUnknownAction(t *testing.T) {
	if _, err := NextStatus(StatusDraft, Action("escalate")); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCanReject(t *testing.T) {
	allowed := []string{StatusSelfAssessment, StatusManagerReview, StatusCommitteeReview, StatusPendingApproval}
	for _, status := range allowed {
		if !CanReject(status) {
			t.Fatalf("expected reject allowed from %s", status)
		}
	}

	denied := []string{StatusDraft, StatusApproved, StatusCommunicated, StatusCompleted, StatusRejected}
	for _, status := range denied {
		if CanReject(status) {
			t.Fatalf("expected reject denied from %s", status)
		}
	}
}

func TestPerspectiveParsing(t *testing.T) {
	for _, value := range []string{"self", "manager", "committee"} {
		p, err := ParsePerspective(value)
		if err != nil {
			t.Fatalf("parse %q: %v", value, err)
		}
		if string(p) != value {
			t.Fatalf("expected %q, got %q", value, p)
		}
		if p.ReviewingStatus() == "" {
			t.Fatalf("perspective %q has no reviewing status", value)
		}
	}

	if _, err := ParsePerspective("peer"); !errors.Is(err, ErrInvalidPerspective) {
		t.Fatalf("expected ErrInvalidPerspective, got %v", err)
	}
}

func TestPerspectiveReviewingStatus(t *testing.T) {
	if got := PerspectiveSelf.ReviewingStatus(); got != StatusSelfAssessment {
		t.Fatalf("self: got %s", got)
	}
	if got := PerspectiveManager.ReviewingStatus(); got != StatusManagerReview {
		t.Fatalf("manager: got %s", got)
	}
	if got := PerspectiveCommittee.ReviewingStatus(); got != StatusCommitteeReview {
		t.Fatalf("committee: got %s", got)
	}
}
