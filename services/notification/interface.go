package notification

import (
	"context"
	"fmt"
	"time"

	"carrent/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Notifier delivers a fired booking event to the booking's user.
type Notifier interface {
	NotifyBookingEvent(ctx context.Context, booking models.Booking, eventType models.NotificationEventType) error
}

// DeviceTokenSource resolves the push token registered for a user.
type DeviceTokenSource interface {
	GetUserDeviceToken(ctx context.Context, userID string) (string, error)
}

// MessageSender is satisfied by *messaging.Client.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotifier sends booking reminders as Firebase Cloud Messaging pushes.
type FCMNotifier struct {
	sender MessageSender
	tokens DeviceTokenSource
	logger *zap.Logger
}

func NewFCMNotifier(sender MessageSender, tokens DeviceTokenSource, logger *zap.Logger) (*FCMNotifier, error) {
	if sender == nil || tokens == nil {
		return nil, fmt.Errorf("notification service initialization error: sender or token source is nil")
	}
	return &FCMNotifier{sender: sender, tokens: tokens, logger: logger}, nil
}

// NotifyBookingEvent looks up the user's device token and sends a push.
// Users without a registered device are skipped.
func (n *FCMNotifier) NotifyBookingEvent(ctx context.Context, booking models.Booking, eventType models.NotificationEventType) error {
	token, err := n.tokens.GetUserDeviceToken(ctx, booking.UserID)
	if err != nil {
		return fmt.Errorf("NotifyBookingEvent: could not find user %s: %w", booking.UserID, err)
	}
	if token == "" {
		n.logger.Debug("user has no device token, skipping push", zap.String("userID", booking.UserID))
		return nil
	}

	msg := BuildBookingMessage(token, booking, eventType)
	response, err := n.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("NotifyBookingEvent: failed to send FCM message: %w", err)
	}

	n.logger.Info("booking push sent",
		zap.String("bookingID", booking.ID),
		zap.String("type", string(eventType)),
		zap.String("messageID", response))
	return nil
}

// BuildBookingMessage composes the push for one booking event.
func BuildBookingMessage(token string, booking models.Booking, eventType models.NotificationEventType) *messaging.Message {
	title, body := bookingEventText(booking, eventType)
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: map[string]string{
			"type":      string(eventType),
			"bookingId": booking.ID,
			"carId":     booking.CarID,
			"returnAt":  booking.ReturnAt.UTC().Format(time.RFC3339),
			"status":    string(booking.Status),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "booking_reminders",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}
}

func bookingEventText(booking models.Booking, eventType models.NotificationEventType) (string, string) {
	returnAt := booking.ReturnAt.Format("2 January, 3:04 PM")
	switch eventType {
	case models.EventBeforeEnd:
		return "Your rental ends soon", fmt.Sprintf("Please return the car by %s.", returnAt)
	case models.EventEnded:
		return "Your rental has ended", fmt.Sprintf("The rental period ended at %s. Please return the car.", returnAt)
	case models.EventOverdue:
		return "Your rental is overdue", fmt.Sprintf("The car was due back at %s and has not been returned yet.", returnAt)
	}
	return "Booking update", fmt.Sprintf("Your booking %s was updated.", booking.ID)
}
