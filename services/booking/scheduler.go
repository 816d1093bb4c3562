package booking

import (
	"time"

	"carrent/models"

	"github.com/google/uuid"
)

const (
	DefaultBeforeEndLead = time.Hour
	DefaultOverdueGrace  = 30 * time.Minute
)

// planEvents lays out the reminders of a booking relative to its return instant.
// BEFORE_END and ENDED are dropped when their instant is already in the past;
// OVERDUE goes with ENDED.
func planEvents(b *models.Booking, now time.Time, lead, grace time.Duration) []models.NotificationEvent {
	var planned []models.NotificationEvent
	add := func(t models.NotificationEventType, at time.Time) {
		planned = append(planned, models.NotificationEvent{
			ID:          uuid.NewString(),
			BookingID:   b.ID,
			Type:        t,
			ScheduledAt: at,
		})
	}

	if beforeEnd := b.ReturnAt.Add(-lead); !beforeEnd.Before(now) {
		add(models.EventBeforeEnd, beforeEnd)
	}
	if !b.ReturnAt.Before(now) {
		add(models.EventEnded, b.ReturnAt)
		add(models.EventOverdue, b.ReturnAt.Add(grace))
	}
	return planned
}
