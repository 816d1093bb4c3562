package rentalRepo

import (
	"context"
	"errors"
	"time"

	"carrent/models"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate key")

// RentalRepository is the storage collaborator of the booking engine.
// Lookups return (nil, nil) when the record does not exist.
type RentalRepository interface {
	GetCarByID(ctx context.Context, id string) (*models.Car, error)
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error)
	// QueryOverlapping reports whether an ACTIVE or OVERDUE booking for carID
	// intersects [pickup, ret).
	QueryOverlapping(ctx context.Context, carID string, pickup, ret time.Time) (bool, error)
	// InsertBooking stores the booking together with its notification events atomically.
	InsertBooking(ctx context.Context, booking *models.Booking, events []models.NotificationEvent) error
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, updatedAt time.Time) error
	UpdateBookingReview(ctx context.Context, id string, review models.BookingStatus, updatedAt time.Time) error
	ListNotificationEvents(ctx context.Context, bookingID string) ([]models.NotificationEvent, error)
	// MarkNotificationEventFired flips isFired once; it returns false if the event
	// was already fired, cancelled or does not exist.
	MarkNotificationEventFired(ctx context.Context, bookingID string, eventType models.NotificationEventType, firedAt time.Time) (bool, error)
	CancelNotificationEventsForBooking(ctx context.Context, bookingID string) error
	GetUserDeviceToken(ctx context.Context, userID string) (string, error)
	EnsureIndexes(ctx context.Context) error
	Ping(ctx context.Context) error
}
