package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carrent/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Scheduler registers payloads for at-least-once delivery at or after an instant.
type Scheduler interface {
	ScheduleAt(ctx context.Context, at time.Time, payload models.BookingEventPayload) (string, error)
	Cancel(ctx context.Context, handle string) error
}

// AsynqScheduler implements Scheduler on a redis-backed asynq queue.
type AsynqScheduler struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	queue     string
	logger    *zap.Logger
}

func NewAsynqScheduler(redisOpt asynq.RedisClientOpt, queue string, logger *zap.Logger) *AsynqScheduler {
	return &AsynqScheduler{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
		queue:     queue,
		logger:    logger,
	}
}

// ScheduleAt enqueues the payload for processing at the given instant and returns its handle.
func (s *AsynqScheduler) ScheduleAt(ctx context.Context, at time.Time, payload models.BookingEventPayload) (string, error) {
	task, opts, err := NewBookingEventTask(payload, at, s.queue)
	if err != nil {
		return "", err
	}
	handle := TaskID(payload.BookingID, payload.Type)

	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			s.logger.Debug("booking event already scheduled", zap.String("handle", handle))
			return handle, nil
		}
		return "", fmt.Errorf("failed to schedule %s: %w", handle, err)
	}
	s.logger.Debug("booking event scheduled",
		zap.String("handle", info.ID),
		zap.String("queue", info.Queue),
		zap.Time("processAt", info.NextProcessAt))
	return info.ID, nil
}

// Cancel removes a scheduled task. Tasks already processed or missing count as cancelled.
func (s *AsynqScheduler) Cancel(_ context.Context, handle string) error {
	err := s.inspector.DeleteTask(s.queue, handle)
	if err == nil || errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return nil
	}
	return fmt.Errorf("failed to cancel %s: %w", handle, err)
}

func (s *AsynqScheduler) Close() error {
	var errs []error
	if err := s.client.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.inspector.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
