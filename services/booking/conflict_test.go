package booking

import (
	"context"
	"errors"
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2025, 1, 1, h, m, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	existing := Window{Start: at(10, 0), End: at(12, 0)}

	tests := []struct {
		name      string
		candidate Window
		want      bool
	}{
		{"back to back after", Window{Start: at(12, 0), End: at(14, 0)}, false},
		{"back to back before", Window{Start: at(8, 0), End: at(10, 0)}, false},
		{"one minute inside", Window{Start: at(11, 59), End: at(14, 0)}, true},
		{"contained", Window{Start: at(10, 30), End: at(11, 0)}, true},
		{"containing", Window{Start: at(9, 0), End: at(13, 0)}, true},
		{"identical", existing, true},
		{"disjoint", Window{Start: at(15, 0), End: at(16, 0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(existing, tt.candidate); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := Overlaps(tt.candidate, existing); got != tt.want {
				t.Errorf("Overlaps is not symmetric for %s", tt.name)
			}
		})
	}
}

type stubQuerier struct {
	overlap bool
	err     error
}

func (q stubQuerier) QueryOverlapping(context.Context, string, time.Time, time.Time) (bool, error) {
	return q.overlap, q.err
}

func TestConflictCheckerWrapsStoreErrors(t *testing.T) {
	storeErr := errors.New("connection reset")
	_, err := NewConflictChecker(stubQuerier{err: storeErr}).HasOverlap(context.Background(), "car-1", at(10, 0), at(11, 0))
	if !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want wrapped %v", err, storeErr)
	}

	got, err := NewConflictChecker(stubQuerier{overlap: true}).HasOverlap(context.Background(), "car-1", at(10, 0), at(11, 0))
	if err != nil || !got {
		t.Fatalf("HasOverlap = %v, %v; want true, nil", got, err)
	}
}
