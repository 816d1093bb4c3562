package models

import "time"

// BookingEventPayload is the body of a scheduled booking event task.
type BookingEventPayload struct {
	BookingID   string                `json:"bookingId"`
	Type        NotificationEventType `json:"type"`
	ScheduledAt time.Time             `json:"scheduledAt"`
}
