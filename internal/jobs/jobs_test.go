package jobs

import "testing"

func TestCanTransitionAllowsForwardMoves(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusDraft, StatusOpen},
		{StatusDraft, StatusCanceled},
		{StatusOpen, StatusAssigned},
		{StatusAssigned, StatusInProgress},
		{StatusAssigned, StatusDone},
		{StatusAssigned, StatusIssue},
		{StatusInProgress, StatusDone},
		{StatusInProgress, StatusIssue},
	}

	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected transition %s -> %s to be allowed", tc.from, tc.to)
		}
	}
}

func TestCanTransitionRejectsBackwardMoves(t *testing.T) {
	rejected := []struct{ from, to Status }{
		{StatusDone, StatusInProgress},
		{StatusDone, StatusDone},
		{StatusIssue, StatusInProgress},
		{StatusCanceled, StatusOpen},
		{StatusOpen, StatusInProgress},
		{StatusOpen, StatusDone},
		{StatusDraft, StatusAssigned},
	}

	for _, tc := range rejected {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("expected transition %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusDone, StatusIssue, StatusCanceled} {
		if !IsTerminal(s) {
			t.Fatalf("expected %s to be terminal", s)
		}
	}
	for _, s := range []Status{StatusDraft, StatusOpen, StatusAssigned, StatusInProgress} {
		if IsTerminal(s) {
			t.Fatalf("expected %s to be non-terminal", s)
		}
	}
}
