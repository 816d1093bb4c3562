package models

import "time"

// PlaceBookingInput is the request body for placing a booking.
type PlaceBookingInput struct {
	CarID    string    `json:"carId" binding:"required"`
	PickupAt time.Time `json:"pickupAt" binding:"required"`
	ReturnAt time.Time `json:"returnAt" binding:"required"`
}

// QuoteInput is the request body for a price preview.
type QuoteInput struct {
	PickupAt  time.Time `json:"pickupAt" binding:"required"`
	ReturnAt  time.Time `json:"returnAt" binding:"required"`
	DailyRate float64   `json:"dailyRate"`
}

// ReviewInput carries an administrative review decision.
type ReviewInput struct {
	Decision BookingStatus `json:"decision" binding:"required"`
}
