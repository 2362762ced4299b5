package pip

import "testing"

func TestCanActivate(t *testing.T) {
	if !CanActivate(StatusDraft) {
		t.Fatal("expected draft to activate")
	}
	for _, status := range []string{StatusActive, StatusReview, StatusExtended, StatusSuccess, StatusFailure} {
		if CanActivate(status) {
			t.Fatalf("expected activate denied from %s", status)
		}
	}
}

func TestCanStartReview(t *testing.T) {
	if !CanStartReview(StatusActive) {
		t.Fatal("expected active to enter review")
	}
	for _, status := range []string{StatusDraft, StatusReview, StatusExtended, StatusSuccess, StatusFailure} {
		if CanStartReview(status) {
			t.Fatalf("expected start review denied from %s", status)
		}
	}
}

func TestCanExtend(t *testing.T) {
	if !CanExtend(StatusActive) || !CanExtend(StatusReview) {
		t.Fatal("expected active and review to extend")
	}
	for _, status := range []string{StatusDraft, StatusExtended, StatusSuccess, StatusFailure} {
		if CanExtend(status) {
			t.Fatalf("expected extend denied from %s", status)
		}
	}
}

func TestCanComplete(t *testing.T) {
	for _, status := range []string{StatusActive, StatusReview, StatusExtended} {
		if !CanComplete(status) {
			t.Fatalf("expected complete allowed from %s", status)
		}
	}
	for _, status := range []string{StatusDraft, StatusSuccess, StatusFailure} {
		if CanComplete(status) {
			t.Fatalf("expected complete denied from %s", status)
		}
	}
}

func TestTerminal(t *testing.T) {
	if !Terminal(StatusSuccess) || !Terminal(StatusFailure) {
		t.Fatal("expected success and failure to be terminal")
	}
	for _, status := range []string{StatusDraft, StatusActive, StatusReview, StatusExtended} {
		if Terminal(status) {
			t.Fatalf("expected %s to be non-terminal", status)
		}
	}
}
