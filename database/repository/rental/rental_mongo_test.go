package rentalRepo

import (
	"testing"
	"time"

	"carrent/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// overlapCases are stored bookings of car-1 checked against a 10:00-12:00 request.
var overlapCases = []struct {
	name   string
	stored models.Booking
	want   bool
}{
	{"same window", storedBooking("car-1", 10, 12, models.StatusActive), true},
	{"ends at request pickup", storedBooking("car-1", 8, 10, models.StatusActive), false},
	{"starts at request return", storedBooking("car-1", 12, 14, models.StatusActive), false},
	{"straddles pickup", storedBooking("car-1", 9, 11, models.StatusActive), true},
	{"straddles return", storedBooking("car-1", 11, 13, models.StatusOverdue), true},
	{"inside", storedBooking("car-1", 10, 11, models.StatusActive), true},
	{"cancelled", storedBooking("car-1", 10, 12, models.StatusCancelled), false},
	{"completed", storedBooking("car-1", 10, 12, models.StatusCompleted), false},
	{"other car", storedBooking("car-2", 10, 12, models.StatusActive), false},
}

func storedBooking(carID string, fromHour, toHour int, status models.BookingStatus) models.Booking {
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return models.Booking{
		ID:       "b",
		CarID:    carID,
		PickupAt: day.Add(time.Duration(fromHour) * time.Hour),
		ReturnAt: day.Add(time.Duration(toHour) * time.Hour),
		Status:   status,
	}
}

func requestWindow() (time.Time, time.Time) {
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return day.Add(10 * time.Hour), day.Add(12 * time.Hour)
}

// matchesOverlapFilter applies the operators overlapFilter uses to a booking as it is stored.
func matchesOverlapFilter(t *testing.T, filter bson.M, b models.Booking) bool {
	t.Helper()

	raw, err := bson.Marshal(b)
	if err != nil {
		t.Fatalf("marshal booking: %v", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal booking: %v", err)
	}

	for field, cond := range filter {
		value, ok := doc[field]
		if !ok {
			t.Fatalf("filter field %q is not a stored booking field", field)
		}
		ops, isOps := cond.(bson.M)
		if !isOps {
			if value != cond {
				return false
			}
			continue
		}
		for op, arg := range ops {
			switch op {
			case "$in":
				found := false
				for _, s := range arg.(bson.A) {
					if string(s.(models.BookingStatus)) == value.(string) {
						found = true
					}
				}
				if !found {
					return false
				}
			case "$lt":
				if !value.(primitive.DateTime).Time().Before(arg.(time.Time)) {
					return false
				}
			case "$gt":
				if !value.(primitive.DateTime).Time().After(arg.(time.Time)) {
					return false
				}
			default:
				t.Fatalf("unexpected operator %s on %s", op, field)
			}
		}
	}
	return true
}

func TestOverlapFilterBounds(t *testing.T) {
	pickup, ret := requestWindow()
	filter := overlapFilter("car-1", pickup, ret)

	if got := filter["pickup_at"].(bson.M)["$lt"]; got != ret {
		t.Errorf("pickup_at $lt = %v, want return %v", got, ret)
	}
	if got := filter["return_at"].(bson.M)["$gt"]; got != pickup {
		t.Errorf("return_at $gt = %v, want pickup %v", got, pickup)
	}
}

func TestOverlapFilter(t *testing.T) {
	pickup, ret := requestWindow()
	filter := overlapFilter("car-1", pickup, ret)

	for _, tt := range overlapCases {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesOverlapFilter(t, filter, tt.stored); got != tt.want {
				t.Fatalf("match = %v, want %v", got, tt.want)
			}
		})
	}
}
