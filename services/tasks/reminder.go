package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"carrent/models"

	"github.com/hibiken/asynq"
)

const TypeBookingEvent = "booking:event"

// TaskID derives the scheduler handle of a booking event. It is deterministic so that
// re-scheduling the same event is rejected as a conflict instead of queued twice.
func TaskID(bookingID string, eventType models.NotificationEventType) string {
	return fmt.Sprintf("booking:%s:%s", bookingID, eventType)
}

// NewBookingEventTask builds the task delivering payload at fireAt.
func NewBookingEventTask(payload models.BookingEventPayload, fireAt time.Time, queue string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingEvent, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(TaskID(payload.BookingID, payload.Type)),
		asynq.Queue(queue),
		asynq.MaxRetry(10),
		asynq.Retention(24 * time.Hour),
	}
	return task, opts, nil
}

// ParseBookingEventPayload decodes and validates a delivered task body.
func ParseBookingEventPayload(data []byte) (models.BookingEventPayload, error) {
	var p models.BookingEventPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("invalid booking event payload: %w", err)
	}
	if p.BookingID == "" || !p.Type.Valid() {
		return p, fmt.Errorf("invalid booking event payload: booking %q type %q", p.BookingID, p.Type)
	}
	return p, nil
}
