package models

import "time"

// NotificationEventType identifies one of the reminders scheduled per booking.
type NotificationEventType string

const (
	EventBeforeEnd NotificationEventType = "BEFORE_END"
	EventEnded     NotificationEventType = "ENDED"
	EventOverdue   NotificationEventType = "OVERDUE"
)

// Valid reports whether t is a known event type.
func (t NotificationEventType) Valid() bool {
	switch t {
	case EventBeforeEnd, EventEnded, EventOverdue:
		return true
	}
	return false
}

// NotificationEvent is a reminder tied to a booking, delivered by the task scheduler.
type NotificationEvent struct {
	ID          string                `bson:"id" json:"id"`
	BookingID   string                `bson:"booking_id" json:"bookingId"`
	Type        NotificationEventType `bson:"type" json:"type"`
	ScheduledAt time.Time             `bson:"scheduled_at" json:"scheduledAt"`
	FiredAt     *time.Time            `bson:"fired_at,omitempty" json:"firedAt,omitempty"`
	IsFired     bool                  `bson:"is_fired" json:"isFired"`
	Cancelled   bool                  `bson:"cancelled" json:"cancelled"`
	Handle      string                `bson:"handle" json:"-"` // scheduler task id
}
