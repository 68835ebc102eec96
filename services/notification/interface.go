package notification

import (
	"context"
	"fmt"

	"consultly/models"
	"consultly/utils"

	"firebase.google.com/go/v4/messaging"
)

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	SendBookingPush(ctx context.Context, deviceToken string, b models.Booking) error
}

// FCMNotificationService is the production implementation. It is a no-op
// when Firebase was not configured at startup.
type FCMNotificationService struct{}

func NewFCMNotificationService() *FCMNotificationService {
	return &FCMNotificationService{}
}

func (s *FCMNotificationService) SendBookingPush(ctx context.Context, deviceToken string, b models.Booking) error {
	if utils.FCMClient == nil {
		return nil
	}
	if deviceToken == "" {
		return fmt.Errorf("SendBookingPush: no device token registered")
	}

	msg := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: pushTitle(b.Status),
			Body:  fmt.Sprintf("Consultation on %s: %s", b.ScheduledAt.Format("Jan 2 15:04"), b.Topic),
		},
		Data: map[string]string{
			"bookingId": b.ID,
			"status":    string(b.Status),
		},
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("SendBookingPush: failed to send FCM message: %w", err)
	}
	return nil
}

func pushTitle(status models.BookingStatus) string {
	switch status {
	case models.StatusConfirmed:
		return "Consultation confirmed"
	case models.StatusCancelled:
		return "Consultation cancelled"
	default:
		return "Consultation updated"
	}
}
