package booking

import (
	"context"
	"fmt"
	"time"
)

// Window is a half-open booking interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two windows share at least one instant.
// Windows that only touch at a boundary do not overlap.
func Overlaps(a, b Window) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// OverlapQuerier is the storage read the conflict checker relies on.
type OverlapQuerier interface {
	QueryOverlapping(ctx context.Context, carID string, pickup, ret time.Time) (bool, error)
}

// ConflictChecker detects scheduling conflicts against ACTIVE and OVERDUE bookings.
type ConflictChecker struct {
	repo OverlapQuerier
}

func NewConflictChecker(repo OverlapQuerier) *ConflictChecker {
	return &ConflictChecker{repo: repo}
}

// HasOverlap reports whether carID is already occupied anywhere in [pickup, ret).
func (c *ConflictChecker) HasOverlap(ctx context.Context, carID string, pickup, ret time.Time) (bool, error) {
	overlap, err := c.repo.QueryOverlapping(ctx, carID, pickup, ret)
	if err != nil {
		return false, fmt.Errorf("conflict check for car %s: %w", carID, err)
	}
	return overlap, nil
}
