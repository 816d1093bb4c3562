package booking

import (
	"testing"

	"carrent/models"
)

func TestCalendarTransitions(t *testing.T) {
	all := []models.BookingStatus{
		models.StatusPending, models.StatusActive, models.StatusApproved, models.StatusRejected,
		models.StatusCompleted, models.StatusCancelled, models.StatusOverdue,
	}
	for _, from := range all {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range all {
			if CanTransition(from, to) {
				t.Errorf("terminal %s must not move to %s", from, to)
			}
		}
	}

	allowed := [][2]models.BookingStatus{
		{models.StatusActive, models.StatusCompleted},
		{models.StatusActive, models.StatusCancelled},
		{models.StatusActive, models.StatusOverdue},
		{models.StatusOverdue, models.StatusCompleted},
		{models.StatusOverdue, models.StatusCancelled},
	}
	for _, p := range allowed {
		if !CanTransition(p[0], p[1]) {
			t.Errorf("%s -> %s should be allowed", p[0], p[1])
		}
	}
	if CanTransition(models.StatusOverdue, models.StatusActive) {
		t.Error("OVERDUE -> ACTIVE should not be allowed")
	}
}

func TestReviewTransitions(t *testing.T) {
	tests := []struct {
		from, to models.BookingStatus
		want     bool
	}{
		{models.StatusPending, models.StatusApproved, true},
		{models.StatusPending, models.StatusRejected, true},
		{models.StatusApproved, models.StatusPending, true},
		{models.StatusApproved, models.StatusRejected, false},
		{models.StatusRejected, models.StatusPending, false},
		{models.StatusPending, models.StatusCompleted, false},
	}
	for _, tt := range tests {
		if got := CanReview(tt.from, tt.to); got != tt.want {
			t.Errorf("CanReview(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
