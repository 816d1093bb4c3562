package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	rentalRepo "carrent/database/repository/rental"
	"carrent/models"
)

type memoryRepo struct {
	mu       sync.Mutex
	cars     map[string]models.Car
	bookings map[string]models.Booking
	events   map[string][]models.NotificationEvent
	tokens   map[string]string

	insertErr error
	inserts   int
	marks     int
}

func newMemoryRepo(cars ...models.Car) *memoryRepo {
	r := &memoryRepo{
		cars:     map[string]models.Car{},
		bookings: map[string]models.Booking{},
		events:   map[string][]models.NotificationEvent{},
		tokens:   map[string]string{},
	}
	for _, c := range cars {
		r.cars[c.ID] = c
	}
	return r
}

var _ rentalRepo.RentalRepository = (*memoryRepo)(nil)

func (r *memoryRepo) GetCarByID(_ context.Context, id string) (*models.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cars[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memoryRepo) GetBookingByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *memoryRepo) ListBookingsByUser(_ context.Context, userID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memoryRepo) QueryOverlapping(_ context.Context, carID string, pickup, ret time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.CarID != carID || !b.Status.OccupiesCalendar() {
			continue
		}
		if Overlaps(Window{Start: b.PickupAt, End: b.ReturnAt}, Window{Start: pickup, End: ret}) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) InsertBooking(_ context.Context, b *models.Booking, evs []models.NotificationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	if _, ok := r.bookings[b.ID]; ok {
		return rentalRepo.ErrDuplicate
	}
	r.inserts++
	r.bookings[b.ID] = *b
	r.events[b.ID] = append([]models.NotificationEvent(nil), evs...)
	return nil
}

func (r *memoryRepo) UpdateBookingStatus(_ context.Context, id string, status models.BookingStatus, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return errors.New("no such booking")
	}
	b.Status = status
	b.UpdatedAt = &updatedAt
	r.bookings[id] = b
	return nil
}

func (r *memoryRepo) UpdateBookingReview(_ context.Context, id string, review models.BookingStatus, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return errors.New("no such booking")
	}
	b.Review = review
	b.UpdatedAt = &updatedAt
	r.bookings[id] = b
	return nil
}

func (r *memoryRepo) ListNotificationEvents(_ context.Context, bookingID string) ([]models.NotificationEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.NotificationEvent(nil), r.events[bookingID]...), nil
}

func (r *memoryRepo) MarkNotificationEventFired(_ context.Context, bookingID string, t models.NotificationEventType, firedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marks++
	evs := r.events[bookingID]
	for i := range evs {
		if evs[i].Type == t && !evs[i].IsFired && !evs[i].Cancelled {
			evs[i].IsFired = true
			evs[i].FiredAt = &firedAt
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) CancelNotificationEventsForBooking(_ context.Context, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	evs := r.events[bookingID]
	for i := range evs {
		if !evs[i].IsFired {
			evs[i].Cancelled = true
		}
	}
	return nil
}

func (r *memoryRepo) GetUserDeviceToken(_ context.Context, userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens[userID], nil
}

func (r *memoryRepo) EnsureIndexes(context.Context) error { return nil }
func (r *memoryRepo) Ping(context.Context) error          { return nil }

func (r *memoryRepo) event(bookingID string, t models.NotificationEventType) (models.NotificationEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events[bookingID] {
		if ev.Type == t {
			return ev, true
		}
	}
	return models.NotificationEvent{}, false
}

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled map[string]time.Time
	cancelled []string
	failOn    models.NotificationEventType
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{scheduled: map[string]time.Time{}}
}

func (s *fakeScheduler) ScheduleAt(_ context.Context, at time.Time, p models.BookingEventPayload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != "" && p.Type == s.failOn {
		return "", errors.New("redis unavailable")
	}
	handle := "booking:" + p.BookingID + ":" + string(p.Type)
	s.scheduled[handle] = at
	return handle, nil
}

func (s *fakeScheduler) Cancel(_ context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scheduled, handle)
	s.cancelled = append(s.cancelled, handle)
	return nil
}

func (s *fakeScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scheduled)
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}
