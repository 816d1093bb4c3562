package booking

import (
	"context"
	"time"

	rentalRepo "carrent/database/repository/rental"
	"carrent/models"
	"carrent/services/events"
	"carrent/services/tasks"

	"go.uber.org/zap"
)

// BookingService places bookings and drives them through their lifecycle.
// Every state-changing call is serialized on the service's MutationQueue and answered with a Future.
type BookingService interface {
	Quote(pickup, ret time.Time, dailyRate float64) (Calculation, error)
	PlaceBooking(ctx context.Context, userID, carID string, pickup, ret time.Time) *Future[models.PlacementResult]
	CancelBooking(ctx context.Context, bookingID string) *Future[models.Booking]
	MarkCompleted(ctx context.Context, bookingID string) *Future[models.Booking]
	ReviewBooking(ctx context.Context, bookingID string, decision models.BookingStatus) *Future[models.Booking]
	HandleEventFired(ctx context.Context, bookingID string, eventType models.NotificationEventType) *Future[FireOutcome]
	GetBooking(ctx context.Context, bookingID string) (*models.BookingDetails, error)
	ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error)
}

// FireOutcome tells the delivery worker what a fired event changed.
type FireOutcome struct {
	Booking models.Booking
	// Notify is true only on the first delivery of an event for a booking that still holds its car.
	Notify bool
	// BecameOverdue is set when this delivery moved the booking from ACTIVE to OVERDUE.
	BecameOverdue bool
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo      rentalRepo.RentalRepository
	Scheduler tasks.Scheduler
	Publisher events.Publisher
	Queue     *MutationQueue
	Logger    *zap.Logger

	// Optional. Zero values fall back to time.Now, 1h and 30m.
	Clock         func() time.Time
	BeforeEndLead time.Duration
	OverdueGrace  time.Duration
}

var _ BookingService = (*DefaultBookingService)(nil)

func (s *DefaultBookingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *DefaultBookingService) lead() time.Duration {
	if s.BeforeEndLead > 0 {
		return s.BeforeEndLead
	}
	return DefaultBeforeEndLead
}

func (s *DefaultBookingService) grace() time.Duration {
	if s.OverdueGrace > 0 {
		return s.OverdueGrace
	}
	return DefaultOverdueGrace
}

func (s *DefaultBookingService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}
