package services

import (
	"context"
	"testing"
	"time"

	"example.com/orderflow/internal/events"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// recordingNotifier records channel calls and can fail per channel
type recordingNotifier struct {
	emails   []*events.PaymentCompletedEvent
	sms      []*events.PaymentCompletedEvent
	emailErr error
	smsErr   error
}

func (n *recordingNotifier) SendEmail(evt *events.PaymentCompletedEvent) error {
	if n.emailErr != nil {
		return n.emailErr
	}
	n.emails = append(n.emails, evt)
	return nil
}

func (n *recordingNotifier) SendSMS(evt *events.PaymentCompletedEvent) error {
	if n.smsErr != nil {
		return n.smsErr
	}
	n.sms = append(n.sms, evt)
	return nil
}

func paymentCompletedBody(t *testing.T, orderID uint, success bool) []byte {
	t.Helper()
	body, err := events.Marshal(&events.PaymentCompletedEvent{
		OrderID:       orderID,
		CustomerEmail: "a@b.com",
		Amount:        9.99,
		Success:       success,
		Message:       PaymentSuccessMessage,
		ProcessedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)
	return body
}

func TestNotificationHandleDeliverySuccess(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewNotificationService(notifier)

	d := &fakeDelivery{body: paymentCompletedBody(t, 1, true)}
	require.NoError(t, svc.HandleDelivery(context.Background(), d))

	// Acked only after both notifications completed
	require.True(t, d.acked)
	require.False(t, d.rejected)
	require.Len(t, notifier.emails, 1)
	require.Len(t, notifier.sms, 1)
	require.Equal(t, uint(1), notifier.emails[0].OrderID)
}

func TestNotificationHandleDeliveryMalformed(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewNotificationService(notifier)

	d := &fakeDelivery{body: []byte("not json at all")}
	require.Error(t, svc.HandleDelivery(context.Background(), d))

	// Malformed input is dead-lettered, never retried
	require.True(t, d.rejected)
	require.False(t, d.requeued)
	require.Empty(t, notifier.emails)
	require.Empty(t, notifier.sms)
}

func TestNotificationHandleDeliveryEmailFailureRequeues(t *testing.T) {
	notifier := &recordingNotifier{emailErr: errors.New("smtp offline")}
	svc := NewNotificationService(notifier)

	d := &fakeDelivery{body: paymentCompletedBody(t, 2, true)}
	require.Error(t, svc.HandleDelivery(context.Background(), d))

	// Processing errors requeue for redelivery, without any cap
	require.True(t, d.rejected)
	require.True(t, d.requeued)
	require.False(t, d.acked)
	require.Empty(t, notifier.sms)
}

func TestNotificationHandleDeliverySMSFailureRequeues(t *testing.T) {
	notifier := &recordingNotifier{smsErr: errors.New("sms provider offline")}
	svc := NewNotificationService(notifier)

	d := &fakeDelivery{body: paymentCompletedBody(t, 3, false)}
	require.Error(t, svc.HandleDelivery(context.Background(), d))

	require.True(t, d.rejected)
	require.True(t, d.requeued)
	require.Len(t, notifier.emails, 1)
}
