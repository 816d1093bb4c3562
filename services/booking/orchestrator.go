package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	rentalRepo "carrent/database/repository/rental"
	"carrent/models"
	"carrent/services/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// Quote previews the charge for a window without touching storage. The window is priced at
// millisecond precision, as PlaceBooking stores it.
func (s *DefaultBookingService) Quote(pickup, ret time.Time, dailyRate float64) (Calculation, error) {
	return ComputeBooking(pickup, ret, dailyRate)
}

// PlaceBooking validates, prices and stores a booking for userID, then schedules its reminders.
func (s *DefaultBookingService) PlaceBooking(ctx context.Context, userID, carID string, pickup, ret time.Time) *Future[models.PlacementResult] {
	ctx = context.WithoutCancel(ctx)
	return Submit(s.Queue, func() (models.PlacementResult, error) {
		return s.placeBooking(ctx, userID, carID, pickup, ret)
	})
}

// CancelBooking cancels an ACTIVE or OVERDUE booking and withdraws its pending reminders.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID string) *Future[models.Booking] {
	ctx = context.WithoutCancel(ctx)
	return Submit(s.Queue, func() (models.Booking, error) {
		return s.cancelBooking(ctx, bookingID)
	})
}

// MarkCompleted records that the car was returned.
func (s *DefaultBookingService) MarkCompleted(ctx context.Context, bookingID string) *Future[models.Booking] {
	ctx = context.WithoutCancel(ctx)
	return Submit(s.Queue, func() (models.Booking, error) {
		return s.markCompleted(ctx, bookingID)
	})
}

// ReviewBooking applies an administrative decision. REJECTED also closes the booking and frees the car.
func (s *DefaultBookingService) ReviewBooking(ctx context.Context, bookingID string, decision models.BookingStatus) *Future[models.Booking] {
	ctx = context.WithoutCancel(ctx)
	return Submit(s.Queue, func() (models.Booking, error) {
		return s.reviewBooking(ctx, bookingID, decision)
	})
}

// HandleEventFired is called by the scheduler on delivery. It is safe to call more than once for
// the same event.
func (s *DefaultBookingService) HandleEventFired(ctx context.Context, bookingID string, eventType models.NotificationEventType) *Future[FireOutcome] {
	ctx = context.WithoutCancel(ctx)
	return Submit(s.Queue, func() (FireOutcome, error) {
		return s.handleEventFired(ctx, bookingID, eventType)
	})
}

func (s *DefaultBookingService) placeBooking(ctx context.Context, userID, carID string, pickup, ret time.Time) (models.PlacementResult, error) {
	if userID == "" {
		return models.PlacementResult{}, ErrNotAuthenticated
	}
	// Stored dates keep milliseconds only; price, check and store the same window.
	pickup, ret = truncateWindow(pickup, ret)

	car, err := s.Repo.GetCarByID(ctx, carID)
	if err != nil {
		return models.PlacementResult{}, fmt.Errorf("failed to load car %s: %w", carID, err)
	}
	if car == nil {
		return models.PlacementResult{}, ErrCarNotFound
	}

	calc, err := ComputeBooking(pickup, ret, car.DailyPrice)
	if err != nil {
		return models.PlacementResult{}, err
	}

	overlap, err := NewConflictChecker(s.Repo).HasOverlap(ctx, carID, pickup, ret)
	if err != nil {
		return models.PlacementResult{}, err
	}
	if overlap {
		return models.PlacementResult{}, ErrSchedulingConflict
	}

	now := s.now()
	booking := &models.Booking{
		ID:                  uuid.NewString(),
		UserID:              userID,
		CarID:               carID,
		PickupAt:            pickup,
		ReturnAt:            ret,
		DaysCount:           calc.DaysCount,
		DailyPriceAtBooking: car.DailyPrice,
		TotalPrice:          calc.TotalPrice,
		Status:              models.StatusActive,
		Review:              models.StatusPending,
		CreatedAt:           now,
	}

	// Reminders are registered first so their handles are stored with the booking in one write.
	// A fired reminder cannot overtake the insert: its handler runs on this same queue.
	planned := planEvents(booking, now, s.lead(), s.grace())
	for i := range planned {
		ev := &planned[i]
		handle, err := s.Scheduler.ScheduleAt(ctx, ev.ScheduledAt, models.BookingEventPayload{
			BookingID:   booking.ID,
			Type:        ev.Type,
			ScheduledAt: ev.ScheduledAt,
		})
		if err != nil {
			s.withdraw(ctx, planned[:i])
			return models.PlacementResult{}, fmt.Errorf("failed to schedule %s reminder: %w", ev.Type, err)
		}
		ev.Handle = handle
	}

	if err := s.Repo.InsertBooking(ctx, booking, planned); err != nil {
		s.withdraw(ctx, planned)
		if errors.Is(err, rentalRepo.ErrDuplicate) {
			s.logger().Error("duplicate key while inserting booking",
				zap.String("bookingID", booking.ID),
				zap.String("carID", carID),
				zap.String("userID", userID),
				zap.Error(err))
			return models.PlacementResult{}, newBookingError(CodePersistenceFailure, "booking %s could not be saved: %v", booking.ID, err)
		}
		return models.PlacementResult{}, fmt.Errorf("failed to insert booking: %w", err)
	}

	s.logger().Info("booking placed",
		zap.String("bookingID", booking.ID),
		zap.String("carID", carID),
		zap.Int64("days", calc.DaysCount),
		zap.Int("reminders", len(planned)))
	s.publish(ctx, events.KeyBookingPlaced, booking)

	return models.PlacementResult{
		BookingID:  booking.ID,
		DaysCount:  calc.DaysCount,
		TotalPrice: calc.TotalPrice,
	}, nil
}

func (s *DefaultBookingService) cancelBooking(ctx context.Context, bookingID string) (models.Booking, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if b.Status.IsTerminal() {
		return models.Booking{}, ErrAlreadyTerminal
	}
	if err := s.transition(ctx, b, models.StatusCancelled); err != nil {
		return models.Booking{}, err
	}
	s.cancelEvents(ctx, b.ID)
	s.publish(ctx, events.KeyBookingCancelled, b)
	return *b, nil
}

func (s *DefaultBookingService) markCompleted(ctx context.Context, bookingID string) (models.Booking, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if err := s.transition(ctx, b, models.StatusCompleted); err != nil {
		return models.Booking{}, err
	}
	// A returned car needs no further reminders.
	s.cancelEvents(ctx, b.ID)
	s.publish(ctx, events.KeyBookingCompleted, b)
	return *b, nil
}

func (s *DefaultBookingService) reviewBooking(ctx context.Context, bookingID string, decision models.BookingStatus) (models.Booking, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if b.Status.IsTerminal() {
		return models.Booking{}, ErrInvalidTransition
	}
	if !CanReview(b.Review, decision) {
		return models.Booking{}, newBookingError(CodeInvalidTransition, "review cannot move from %s to %s", b.Review, decision)
	}

	now := s.now()
	if err := s.Repo.UpdateBookingReview(ctx, b.ID, decision, now); err != nil {
		return models.Booking{}, fmt.Errorf("failed to update review of booking %s: %w", b.ID, err)
	}
	b.Review = decision
	b.UpdatedAt = &now

	if decision == models.StatusRejected {
		if err := s.transition(ctx, b, models.StatusRejected); err != nil {
			return models.Booking{}, err
		}
		s.cancelEvents(ctx, b.ID)
	}

	s.publish(ctx, events.KeyBookingReviewed, b)
	return *b, nil
}

func (s *DefaultBookingService) handleEventFired(ctx context.Context, bookingID string, eventType models.NotificationEventType) (FireOutcome, error) {
	log := s.logger().With(zap.String("bookingID", bookingID), zap.String("type", string(eventType)))

	b, err := s.Repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return FireOutcome{}, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}
	if b == nil {
		log.Debug("fired event for unknown booking ignored")
		return FireOutcome{}, nil
	}
	if b.Status.IsTerminal() {
		log.Debug("fired event for closed booking ignored", zap.String("status", string(b.Status)))
		return FireOutcome{Booking: *b}, nil
	}

	firstDelivery, err := s.Repo.MarkNotificationEventFired(ctx, bookingID, eventType, s.now())
	if err != nil {
		return FireOutcome{}, fmt.Errorf("failed to mark %s fired for booking %s: %w", eventType, bookingID, err)
	}

	out := FireOutcome{}
	// Checked against the status rather than firstDelivery so a retry after a failed
	// status write still completes the transition.
	if eventType == models.EventOverdue && b.Status == models.StatusActive {
		if err := s.transition(ctx, b, models.StatusOverdue); err != nil {
			return FireOutcome{}, err
		}
		out.BecameOverdue = true
		log.Info("booking is overdue")
		s.publish(ctx, events.KeyBookingOverdue, b)
	}

	out.Booking = *b
	out.Notify = firstDelivery && b.Status.OccupiesCalendar()
	if !out.Notify {
		log.Debug("fired event needs no notification", zap.Bool("firstDelivery", firstDelivery), zap.String("status", string(b.Status)))
	}
	return out, nil
}

func (s *DefaultBookingService) loadBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// transition moves b to status and persists it, refusing moves the state table does not allow.
func (s *DefaultBookingService) transition(ctx context.Context, b *models.Booking, status models.BookingStatus) error {
	if !CanTransition(b.Status, status) {
		return newBookingError(CodeInvalidTransition, "booking %s cannot move from %s to %s", b.ID, b.Status, status)
	}
	now := s.now()
	if err := s.Repo.UpdateBookingStatus(ctx, b.ID, status, now); err != nil {
		return fmt.Errorf("failed to update status of booking %s: %w", b.ID, err)
	}
	b.Status = status
	b.UpdatedAt = &now
	return nil
}

// cancelEvents withdraws the unfired reminders of a booking from the scheduler and marks them cancelled.
// Failures are logged: a reminder that still fires finds the booking closed and is ignored.
func (s *DefaultBookingService) cancelEvents(ctx context.Context, bookingID string) {
	evs, err := s.Repo.ListNotificationEvents(ctx, bookingID)
	if err != nil {
		s.logger().Warn("failed to list reminders for cancellation", zap.String("bookingID", bookingID), zap.Error(err))
	}
	var pending []models.NotificationEvent
	for _, ev := range evs {
		if !ev.IsFired && !ev.Cancelled {
			pending = append(pending, ev)
		}
	}
	s.withdraw(ctx, pending)

	if err := s.Repo.CancelNotificationEventsForBooking(ctx, bookingID); err != nil {
		s.logger().Warn("failed to mark reminders cancelled", zap.String("bookingID", bookingID), zap.Error(err))
	}
}

func (s *DefaultBookingService) withdraw(ctx context.Context, evs []models.NotificationEvent) {
	for _, ev := range evs {
		if ev.Handle == "" {
			continue
		}
		if err := s.Scheduler.Cancel(ctx, ev.Handle); err != nil {
			s.logger().Warn("failed to cancel scheduled reminder",
				zap.String("bookingID", ev.BookingID),
				zap.String("handle", ev.Handle),
				zap.Error(err))
		}
	}
}

func (s *DefaultBookingService) publish(ctx context.Context, key string, b *models.Booking) {
	if s.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.Publisher.PublishJSON(ctx, key, b); err != nil {
		s.logger().Warn("failed to publish booking event",
			zap.String("key", key),
			zap.String("bookingID", b.ID),
			zap.Error(err))
	}
}
