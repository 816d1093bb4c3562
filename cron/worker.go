package cron

import (
	"context"
	"fmt"
	"time"

	"carrent/config"
	"carrent/models"
	"carrent/services/booking"
	"carrent/services/notification"
	"carrent/services/tasks"
	"carrent/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// EventHandler is the part of the booking service the worker drives.
type EventHandler interface {
	HandleEventFired(ctx context.Context, bookingID string, eventType models.NotificationEventType) *booking.Future[booking.FireOutcome]
}

// InitBookingEventWorker starts the asynq server delivering booking events in the background.
// The returned server must be shut down by the caller.
func InitBookingEventWorker(handler EventHandler, notifier notification.Notifier, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		utils.SchedulerRedisOpt(),
		asynq.Config{
			Concurrency: config.AppConfig.SchedulerConcurrency,
			Queues: map[string]int{
				config.AppConfig.SchedulerQueue: 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingEvent, HandleBookingEventTask(handler, notifier, logger))

	go func() {
		logger.Info("starting booking event worker", zap.String("queue", config.AppConfig.SchedulerQueue))
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("failed to start booking event worker",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("max retry attempts reached for booking event worker")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// HandleBookingEventTask applies a delivered event to its booking and pushes a notification when
// the event is delivered for the first time. Storage errors are returned so asynq retries the task;
// notification errors are only logged.
func HandleBookingEventTask(handler EventHandler, notifier notification.Notifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseBookingEventPayload(task.Payload())
		if err != nil {
			logger.Error("dropping booking event", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		log := logger.With(zap.String("bookingID", p.BookingID), zap.String("type", string(p.Type)))
		log.Debug("booking event delivered", zap.Time("scheduledAt", p.ScheduledAt))

		out, err := handler.HandleEventFired(ctx, p.BookingID, p.Type).Await(ctx)
		if err != nil {
			log.Warn("failed to apply booking event", zap.Error(err))
			return err
		}
		if !out.Notify || notifier == nil {
			return nil
		}
		if err := notifier.NotifyBookingEvent(ctx, out.Booking, p.Type); err != nil {
			log.Warn("failed to notify user of booking event", zap.Error(err))
		}
		return nil
	}
}
