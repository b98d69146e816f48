package services

import (
	"context"

	"example.com/orderflow/internal/events"
	"example.com/orderflow/internal/messaging"
	"example.com/orderflow/internal/notify"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// NotificationService consumes PaymentCompletedEvent messages and sends the
// customer-facing notifications.
type NotificationService struct {
	notifier notify.Notifier
}

// NewNotificationService creates a new notification service
func NewNotificationService(notifier notify.Notifier) *NotificationService {
	return &NotificationService{notifier: notifier}
}

// HandleDelivery processes one PaymentCompletedEvent delivery. Malformed
// payloads are dead-lettered; a notification failure requeues the message
// for redelivery. The message is acked only after both notifications
// complete.
func (s *NotificationService) HandleDelivery(ctx context.Context, d messaging.Delivery) error {
	evt, err := events.DecodePaymentCompleted(d.Body())
	if err != nil {
		log.Warn().Err(err).Msg("Invalid PaymentCompletedEvent, dead-lettering")
		if rejectErr := d.Reject(false); rejectErr != nil {
			return errors.Wrap(rejectErr, "failed to reject malformed message")
		}
		return err
	}

	log.Info().
		Uint("order_id", evt.OrderID).
		Bool("success", evt.Success).
		Msg("PaymentCompletedEvent received")

	if err := s.notify(evt); err != nil {
		log.Error().Err(err).Uint("order_id", evt.OrderID).Msg("Error processing notification, requeueing")
		if rejectErr := d.Reject(true); rejectErr != nil {
			return errors.Wrap(rejectErr, "failed to requeue message")
		}
		return err
	}

	if err := d.Ack(); err != nil {
		return errors.Wrapf(err, "failed to ack notification for order %d", evt.OrderID)
	}

	log.Info().Uint("order_id", evt.OrderID).Msg("All notifications sent")
	return nil
}

func (s *NotificationService) notify(evt *events.PaymentCompletedEvent) error {
	if err := s.notifier.SendEmail(evt); err != nil {
		return errors.Wrap(err, "failed to send email notification")
	}
	if err := s.notifier.SendSMS(evt); err != nil {
		return errors.Wrap(err, "failed to send SMS notification")
	}
	return nil
}
