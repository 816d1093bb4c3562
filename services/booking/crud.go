package booking

import (
	"context"
	"fmt"

	"carrent/models"
)

// GetBooking returns a booking with its reminders. Reads do not go through the mutation queue.
func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID string) (*models.BookingDetails, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	evs, err := s.Repo.ListNotificationEvents(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders of booking %s: %w", bookingID, err)
	}
	if evs == nil {
		evs = []models.NotificationEvent{}
	}
	return &models.BookingDetails{Booking: *b, Events: evs}, nil
}

func (s *DefaultBookingService) ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	bookings, err := s.Repo.ListBookingsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings of user %s: %w", userID, err)
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}
