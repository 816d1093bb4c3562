package booking

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestComputeBooking(t *testing.T) {
	pickup := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		ret       time.Time
		rate      float64
		wantDays  int64
		wantTotal float64
	}{
		{"exactly one day", pickup.Add(24 * time.Hour), 50, 1, 50},
		{"one millisecond over a day", pickup.Add(24*time.Hour + time.Millisecond), 50, 2, 100},
		{"one millisecond", pickup.Add(time.Millisecond), 50, 1, 50},
		{"sub millisecond remainder dropped", pickup.Add(time.Millisecond + 900*time.Microsecond), 50, 1, 50},
		{"three days and a bit", pickup.Add(3*24*time.Hour + time.Minute), 75.50, 4, 302},
		{"exactly seven days", pickup.Add(7 * 24 * time.Hour), 20, 7, 140},
		{"free car", pickup.Add(36 * time.Hour), 0, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBooking(pickup, tt.ret, tt.rate)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.DaysCount != tt.wantDays {
				t.Errorf("days = %d, want %d", got.DaysCount, tt.wantDays)
			}
			if math.Abs(got.TotalPrice-tt.wantTotal) > 1e-9 {
				t.Errorf("total = %v, want %v", got.TotalPrice, tt.wantTotal)
			}
		})
	}
}

func TestComputeBookingLongWindows(t *testing.T) {
	tests := []struct {
		name     string
		pickup   time.Time
		ret      time.Time
		wantDays int64
	}{
		{"four centuries", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2400, 1, 1, 0, 0, 0, 0, time.UTC), 146097},
		{"four centuries and an hour", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2400, 1, 1, 1, 0, 0, 0, time.UTC), 146098},
		{"one thousand years", time.Date(1500, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2500, 6, 1, 0, 0, 0, 0, time.UTC), 365243},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBooking(tt.pickup, tt.ret, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.DaysCount != tt.wantDays {
				t.Errorf("days = %d, want %d", got.DaysCount, tt.wantDays)
			}
			if got.TotalPrice != float64(tt.wantDays) {
				t.Errorf("total = %v, want %d", got.TotalPrice, tt.wantDays)
			}
		})
	}
}

func TestComputeBookingErrors(t *testing.T) {
	pickup := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ret  time.Time
		rate float64
		want error
	}{
		{"negative rate", pickup.Add(time.Hour), -1, ErrInvalidRate},
		{"nan rate", pickup.Add(time.Hour), math.NaN(), ErrInvalidRate},
		{"rate checked before range", pickup, -1, ErrInvalidRate},
		{"equal instants", pickup, 10, ErrInvalidTimeRange},
		{"return before pickup", pickup.Add(-time.Hour), 10, ErrInvalidTimeRange},
		{"same millisecond", pickup.Add(900 * time.Microsecond), 10, ErrInvalidTimeRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeBooking(pickup, tt.ret, tt.rate)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestComputeBookingCeilingProperty(t *testing.T) {
	pickup := time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	for _, d := range []time.Duration{time.Second, day - time.Millisecond, day, day + time.Second, 10*day + 7*time.Hour} {
		got, err := ComputeBooking(pickup, pickup.Add(d), 1)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", d, err)
		}
		if got.DaysCount < 1 {
			t.Errorf("%v: days = %d, want >= 1", d, got.DaysCount)
		}
		covered := time.Duration(got.DaysCount) * day
		if covered < d || covered-d >= day {
			t.Errorf("%v: %d days is not the smallest cover", d, got.DaysCount)
		}
	}
}
