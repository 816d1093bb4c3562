package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusActive    BookingStatus = "ACTIVE"
	StatusApproved  BookingStatus = "APPROVED"
	StatusRejected  BookingStatus = "REJECTED"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusOverdue   BookingStatus = "OVERDUE"
)

// IsTerminal reports whether no further transition is allowed out of s.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// OccupiesCalendar reports whether a booking in status s blocks its car.
func (s BookingStatus) OccupiesCalendar() bool {
	return s == StatusActive || s == StatusOverdue
}

func (s BookingStatus) String() string {
	return string(s)
}

// Booking represents a car reservation over the half-open window [PickupAt, ReturnAt).
type Booking struct {
	ID                  string        `bson:"id" json:"id"`
	UserID              string        `bson:"user_id" json:"userId"`
	CarID               string        `bson:"car_id" json:"carId"`
	PickupAt            time.Time     `bson:"pickup_at" json:"pickupAt"`
	ReturnAt            time.Time     `bson:"return_at" json:"returnAt"`
	DaysCount           int64         `bson:"days_count" json:"daysCount"`
	DailyPriceAtBooking float64       `bson:"daily_price_at_booking" json:"dailyPriceAtBooking"`
	TotalPrice          float64       `bson:"total_price" json:"totalPrice"` // daysCount * dailyPriceAtBooking, never recomputed
	Status              BookingStatus `bson:"status" json:"status"`
	Review              BookingStatus `bson:"review" json:"review"` // PENDING, APPROVED or REJECTED
	CreatedAt           time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt           *time.Time    `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// PlacementResult is returned to the caller after a booking has been placed.
type PlacementResult struct {
	BookingID  string  `json:"bookingId"`
	DaysCount  int64   `json:"daysCount"`
	TotalPrice float64 `json:"totalPrice"`
}

// BookingDetails bundles a booking with its scheduled notification events.
type BookingDetails struct {
	Booking Booking             `json:"booking"`
	Events  []NotificationEvent `json:"events"`
}
