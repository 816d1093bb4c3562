package booking

import (
	"math"
	"time"
)

const millisecondsPerDay int64 = 86_400_000

// Calculation is the charge for a booking window.
type Calculation struct {
	DaysCount  int64   `json:"daysCount"`
	TotalPrice float64 `json:"totalPrice"`
}

// ComputeBooking converts a pickup/return pair and a daily rate into a day count and a price.
// Both instants are first truncated to the millisecond, the precision bookings are stored at.
// Any started day is charged in full; an exact multiple of 24 hours is not rounded up.
// The price is not rounded.
func ComputeBooking(pickup, ret time.Time, dailyRate float64) (Calculation, error) {
	if dailyRate < 0 || math.IsNaN(dailyRate) || math.IsInf(dailyRate, 0) {
		return Calculation{}, ErrInvalidRate
	}
	pickup, ret = truncateWindow(pickup, ret)
	if !pickup.Before(ret) {
		return Calculation{}, ErrInvalidTimeRange
	}

	// time.Time.Sub saturates near 292 years, epoch milliseconds do not.
	daysCount := ceilDiv(ret.UnixMilli()-pickup.UnixMilli(), millisecondsPerDay)
	return Calculation{
		DaysCount:  daysCount,
		TotalPrice: float64(daysCount) * dailyRate,
	}, nil
}

// truncateWindow drops the sub-millisecond part of both instants.
func truncateWindow(pickup, ret time.Time) (time.Time, time.Time) {
	return pickup.Truncate(time.Millisecond), ret.Truncate(time.Millisecond)
}

// ceilDiv is integer ceiling division for a > 0, b > 0 that cannot overflow.
func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}
