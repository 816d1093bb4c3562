package tasks

import (
	"encoding/json"
	"testing"
	"time"

	"carrent/models"
)

func TestTaskIDIsDeterministic(t *testing.T) {
	a := TaskID("b-1", models.EventEnded)
	if a != TaskID("b-1", models.EventEnded) {
		t.Fatal("TaskID must be stable for the same event")
	}
	if a == TaskID("b-1", models.EventOverdue) || a == TaskID("b-2", models.EventEnded) {
		t.Fatal("TaskID must differ across bookings and types")
	}
	if a != "booking:b-1:ENDED" {
		t.Fatalf("TaskID = %q", a)
	}
}

func TestNewBookingEventTask(t *testing.T) {
	at := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	p := models.BookingEventPayload{BookingID: "b-1", Type: models.EventBeforeEnd, ScheduledAt: at}

	task, opts, err := NewBookingEventTask(p, at, "bookings")
	if err != nil {
		t.Fatalf("NewBookingEventTask: %v", err)
	}
	if task.Type() != TypeBookingEvent {
		t.Errorf("type = %q", task.Type())
	}
	if len(opts) == 0 {
		t.Error("expected scheduling options")
	}

	got, err := ParseBookingEventPayload(task.Payload())
	if err != nil {
		t.Fatalf("ParseBookingEventPayload: %v", err)
	}
	if got.BookingID != p.BookingID || got.Type != p.Type || !got.ScheduledAt.Equal(at) {
		t.Errorf("payload = %+v, want %+v", got, p)
	}
}

func TestParseBookingEventPayloadRejects(t *testing.T) {
	bad := [][]byte{
		[]byte(`not json`),
		[]byte(`{"type":"ENDED"}`),
		mustJSON(t, models.BookingEventPayload{BookingID: "b-1", Type: "LATE"}),
	}
	for _, b := range bad {
		if _, err := ParseBookingEventPayload(b); err == nil {
			t.Errorf("expected error for %s", b)
		}
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}
